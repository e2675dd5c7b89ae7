package history

import (
	"errors"
	"sort"
	"testing"

	"github.com/Carmen-Shannon/mol-go/engine/molecule"
)

// snapshot captures topology and coordinates in a comparable form.
type snapshot struct {
	atoms []molecule.Atom
	bonds []molecule.Bond
}

func capture(s molecule.Store) snapshot {
	atoms := s.Atoms()
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].ID < atoms[j].ID })
	bonds := s.Bonds()
	sort.Slice(bonds, func(i, j int) bool { return bonds[i].ID < bonds[j].ID })
	return snapshot{atoms: atoms, bonds: bonds}
}

func equalSnapshots(a, b snapshot) bool {
	if len(a.atoms) != len(b.atoms) || len(a.bonds) != len(b.bonds) {
		return false
	}
	for i := range a.atoms {
		if a.atoms[i] != b.atoms[i] {
			return false
		}
	}
	for i := range a.bonds {
		if a.bonds[i] != b.bonds[i] {
			return false
		}
	}
	return true
}

// buildWater loads a small structure directly into a store: O bonded to two H.
func buildWater(s molecule.Store) (o, h1, h2 molecule.AtomID) {
	o = s.InsertAtom(molecule.SpeciesOxygen, [3]float32{0, 0, 0}).Atom.ID
	h1 = s.InsertAtom(molecule.SpeciesHydrogen, [3]float32{0.96, 0, 0}).Atom.ID
	h2 = s.InsertAtom(molecule.SpeciesHydrogen, [3]float32{-0.24, 0.93, 0}).Atom.ID
	s.InsertBond(o, h1)
	s.InsertBond(o, h2)
	return o, h1, h2
}

func TestUndoRedoRoundTripIsBitIdentical(t *testing.T) {
	store := molecule.NewStore()
	o, h1, _ := buildWater(store)
	eng := NewEngine(store)

	commands := []Command{
		NewAddAtom(molecule.SpeciesCarbon, [3]float32{3, 0, 0}),
		NewMoveAtom(h1, [3]float32{1.2, 0.1, 0}),
		NewRemoveAtom(o),
		NewAddAtom(molecule.SpeciesNitrogen, [3]float32{0, 3, 0}),
	}
	for i, cmd := range commands {
		eng.Seal()
		if _, err := eng.Execute(cmd); err != nil {
			t.Fatalf("command %d failed: %v", i, err)
		}
	}
	want := capture(store)

	for i := range commands {
		if _, ok := eng.Undo(); !ok {
			t.Fatalf("undo %d was a no-op", i)
		}
	}
	for i := range commands {
		if _, ok := eng.Redo(); !ok {
			t.Fatalf("redo %d was a no-op", i)
		}
	}

	if got := capture(store); !equalSnapshots(got, want) {
		t.Fatalf("state after undo*n + redo*n differs:\n got %+v\nwant %+v", got, want)
	}
}

func TestRemoveAtomCascadeUndoesAsOneUnit(t *testing.T) {
	store := molecule.NewStore()
	o, _, _ := buildWater(store)
	before := capture(store)
	eng := NewEngine(store)

	feed, err := eng.Execute(NewRemoveAtom(o))
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 delta, got %d", len(feed))
	}
	removed, ok := feed[0].(molecule.AtomRemoved)
	if !ok {
		t.Fatalf("expected AtomRemoved, got %T", feed[0])
	}
	if len(removed.RemovedBonds) != 2 {
		t.Fatalf("expected 2 cascaded bonds in the delta, got %d", len(removed.RemovedBonds))
	}

	if _, ok := eng.Undo(); !ok {
		t.Fatal("undo was a no-op")
	}
	if got := capture(store); !equalSnapshots(got, before) {
		t.Fatalf("single undo did not restore atom and both bonds:\n got %+v\nwant %+v", got, before)
	}
}

func TestIdentifiersSurviveUndoRedo(t *testing.T) {
	store := molecule.NewStore()
	eng := NewEngine(store)

	feed, err := eng.Execute(NewAddAtom(molecule.SpeciesCarbon, [3]float32{}))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	created := feed[0].(molecule.AtomAdded).Atom.ID

	eng.Undo()
	redone, ok := eng.Redo()
	if !ok {
		t.Fatal("redo was a no-op")
	}
	if got := redone[0].(molecule.AtomAdded).Atom.ID; got != created {
		t.Fatalf("redo recreated atom under id %d, want %d", got, created)
	}

	// The retired id window must never be reissued to a new atom.
	eng.Undo()
	fresh, _ := eng.Execute(NewAddAtom(molecule.SpeciesOxygen, [3]float32{}))
	if got := fresh[0].(molecule.AtomAdded).Atom.ID; got <= created {
		t.Fatalf("fresh atom reused id %d (retired id was %d)", got, created)
	}
}

func TestFailedCommandLeavesStacksUntouched(t *testing.T) {
	store := molecule.NewStore()
	o, h1, _ := buildWater(store)
	eng := NewEngine(store)

	if _, err := eng.Execute(NewAddBond(o, h1)); !errors.Is(err, molecule.ErrDuplicateBond) {
		t.Fatalf("expected ErrDuplicateBond, got %v", err)
	}
	if eng.CanUndo() {
		t.Fatal("failed command was pushed to the undo stack")
	}

	if _, err := eng.Execute(NewMoveAtom(9999, [3]float32{})); !errors.Is(err, molecule.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if eng.CanUndo() {
		t.Fatal("failed move was pushed to the undo stack")
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	store := molecule.NewStore()
	eng := NewEngine(store)

	eng.Execute(NewAddAtom(molecule.SpeciesCarbon, [3]float32{}))
	eng.Undo()
	if !eng.CanRedo() {
		t.Fatal("expected a redo step after undo")
	}
	eng.Execute(NewAddAtom(molecule.SpeciesOxygen, [3]float32{}))
	if eng.CanRedo() {
		t.Fatal("executing a new command must clear the redo stack")
	}
}

func TestUndoStackBound(t *testing.T) {
	const capacity = 5
	store := molecule.NewStore()
	eng := NewEngine(store, WithCapacity(capacity))

	for i := 0; i < capacity+1; i++ {
		eng.Seal()
		if _, err := eng.Execute(NewAddAtom(molecule.SpeciesCarbon, [3]float32{float32(i), 0, 0})); err != nil {
			t.Fatalf("command %d failed: %v", i, err)
		}
	}

	undone := 0
	for {
		if _, ok := eng.Undo(); !ok {
			break
		}
		undone++
	}
	if undone != capacity {
		t.Fatalf("expected exactly %d recoverable undo steps, got %d", capacity, undone)
	}
	// The oldest command is permanently lost: its atom survives all undos.
	if store.AtomCount() != 1 {
		t.Fatalf("expected the oldest atom to survive, atom count %d", store.AtomCount())
	}
	// Undo beyond the bound stays a no-op.
	if _, ok := eng.Undo(); ok {
		t.Fatal("undo past the bound must be a no-op")
	}
}

func TestConsecutiveMovesMerge(t *testing.T) {
	store := molecule.NewStore()
	id := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	eng := NewEngine(store)

	eng.Execute(NewMoveAtom(id, [3]float32{1, 0, 0}))
	eng.Execute(NewMoveAtom(id, [3]float32{2, 0, 0}))
	eng.Execute(NewMoveAtom(id, [3]float32{3, 0, 0}))

	if _, ok := eng.Undo(); !ok {
		t.Fatal("undo was a no-op")
	}
	if eng.CanUndo() {
		t.Fatal("merged drag must undo as a single step")
	}
	if atom, _ := store.Atom(id); atom.Position != [3]float32{0, 0, 0} {
		t.Fatalf("undo of merged drag left position %v", atom.Position)
	}
}

func TestSealBreaksMerging(t *testing.T) {
	store := molecule.NewStore()
	id := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	eng := NewEngine(store)

	eng.Execute(NewMoveAtom(id, [3]float32{1, 0, 0}))
	eng.Seal()
	eng.Execute(NewMoveAtom(id, [3]float32{2, 0, 0}))

	eng.Undo()
	if atom, _ := store.Atom(id); atom.Position != [3]float32{1, 0, 0} {
		t.Fatalf("sealed drags must undo separately, position %v", atom.Position)
	}
	eng.Undo()
	if atom, _ := store.Atom(id); atom.Position != [3]float32{0, 0, 0} {
		t.Fatalf("second undo left position %v", atom.Position)
	}
}

func TestMovesOfDifferentAtomsDoNotMerge(t *testing.T) {
	store := molecule.NewStore()
	a := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	b := store.InsertAtom(molecule.SpeciesOxygen, [3]float32{1, 0, 0}).Atom.ID
	eng := NewEngine(store)

	eng.Execute(NewMoveAtom(a, [3]float32{0, 1, 0}))
	eng.Execute(NewMoveAtom(b, [3]float32{1, 1, 0}))

	eng.Undo()
	eng.Undo()
	if !equalSnapshots(capture(store), snapshot{
		atoms: []molecule.Atom{
			{ID: a, Species: molecule.SpeciesCarbon, Position: [3]float32{0, 0, 0}},
			{ID: b, Species: molecule.SpeciesOxygen, Position: [3]float32{1, 0, 0}},
		},
	}) {
		t.Fatalf("two undos did not restore both atoms: %+v", capture(store))
	}
}
