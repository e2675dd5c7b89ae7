package viewer

import (
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/mol-go/engine/history"
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/xyz"
)

// newTestSession builds a session without a loader-backed watcher so tests
// stay free of filesystem and worker-pool setup.
func newTestSession(t *testing.T, options ...SessionOption) Session {
	t.Helper()
	s := NewSession(options...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// rayAt returns an eye point above the z axis and a ray through the given
// world point.
func rayAt(target [3]float32) (origin, dir [3]float32) {
	origin = [3]float32{0, 0, 10}
	d := [3]float32{target[0] - origin[0], target[1] - origin[1], target[2] - origin[2]}
	length := float32(math.Sqrt(float64(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])))
	return origin, [3]float32{d[0] / length, d[1] / length, d[2] / length}
}

func atomNear(t *testing.T, s Session, position [3]float32) molecule.Atom {
	t.Helper()
	for _, atom := range s.Store().Atoms() {
		d := [3]float32{
			atom.Position[0] - position[0],
			atom.Position[1] - position[1],
			atom.Position[2] - position[2],
		}
		if d[0]*d[0]+d[1]*d[1]+d[2]*d[2] < 1e-6 {
			return atom
		}
	}
	t.Fatalf("no atom near %v", position)
	return molecule.Atom{}
}

func TestInstallStructureResetsSessionState(t *testing.T) {
	s := newTestSession(t)

	// Seed some history so we can observe it being cleared.
	if !s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{5, 5, 5})) {
		t.Fatal("seeding add-atom failed")
	}
	s.DrainWrites()

	s.InstallStructure(&xyz.ParsedStructure{
		Name: "water",
		Atoms: []xyz.ParsedAtom{
			{Species: molecule.SpeciesOxygen, Position: [3]float32{0, 0, 0}},
			{Species: molecule.SpeciesHydrogen, Position: [3]float32{0.96, 0, 0}},
			{Species: molecule.SpeciesHydrogen, Position: [3]float32{-0.24, 0.93, 0}},
		},
		Bonds: [][2]int{{0, 1}, {0, 2}},
	})

	if got := s.Store().AtomCount(); got != 3 {
		t.Fatalf("atom count = %d, want 3", got)
	}
	if got := s.Store().BondCount(); got != 2 {
		t.Fatalf("bond count = %d, want 2", got)
	}
	if s.History().CanUndo() {
		t.Error("history should be cleared after installing a structure")
	}
	if writes := s.DrainWrites(); len(writes) == 0 {
		t.Error("installing a structure should queue a bulk load write")
	}
	if !strings.Contains(s.StatusLine(), "water") {
		t.Errorf("status line %q should name the structure", s.StatusLine())
	}
}

func TestInstallStructureSkipsOverfullBonds(t *testing.T) {
	s := newTestSession(t)

	// Hydrogen takes one bond; the second inferred pair must be dropped
	// without rejecting the rest of the structure.
	s.InstallStructure(&xyz.ParsedStructure{
		Name: "crowded",
		Atoms: []xyz.ParsedAtom{
			{Species: molecule.SpeciesHydrogen, Position: [3]float32{0, 0, 0}},
			{Species: molecule.SpeciesCarbon, Position: [3]float32{1, 0, 0}},
			{Species: molecule.SpeciesCarbon, Position: [3]float32{-1, 0, 0}},
		},
		Bonds: [][2]int{{0, 1}, {0, 2}},
	})

	if got := s.Store().BondCount(); got != 1 {
		t.Fatalf("bond count = %d, want 1", got)
	}
}

func TestSelectToolPicksNearestAtom(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}))
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{0, 0, -5}))
	front := atomNear(t, s, [3]float32{0, 0, 0})
	s.DrainWrites()

	origin, dir := rayAt([3]float32{0, 0, 0})
	s.HandlePick(origin, dir)

	sel := s.Sync().Selection()
	if sel == nil || *sel != front.ID {
		t.Fatalf("selection = %v, want %d", sel, front.ID)
	}
	if writes := s.DrainWrites(); len(writes) == 0 {
		t.Error("selecting an atom should queue a flag write")
	}

	// A miss clears the selection.
	s.HandlePick(origin, [3]float32{0, 1, 0})
	if s.Sync().Selection() != nil {
		t.Error("picking empty space should clear the selection")
	}
}

func TestAddAtomToolPlacesAlongRay(t *testing.T) {
	s := newTestSession(t, WithPlaceDepth(10), WithSpecies(molecule.SpeciesNitrogen))
	s.SetTool(ToolAddAtom)

	s.HandlePick([3]float32{0, 0, 10}, [3]float32{0, 0, -1})

	atom := atomNear(t, s, [3]float32{0, 0, 0})
	if atom.Species != molecule.SpeciesNitrogen {
		t.Errorf("species = %s, want N", atom.Species)
	}
	if !s.History().CanUndo() {
		t.Error("placing an atom should be undoable")
	}
}

func TestAddBondToolTwoClickFlow(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{-2, 0, 0}))
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{2, 0, 0}))
	s.SetTool(ToolAddBond)
	s.DrainWrites()

	firstOrigin, firstDir := rayAt([3]float32{-2, 0, 0})
	secondOrigin, secondDir := rayAt([3]float32{2, 0, 0})

	s.HandlePick(firstOrigin, firstDir)
	if got := s.Store().BondCount(); got != 0 {
		t.Fatalf("bond count after anchor click = %d, want 0", got)
	}
	s.HandlePick(secondOrigin, secondDir)
	if got := s.Store().BondCount(); got != 1 {
		t.Fatalf("bond count after second click = %d, want 1", got)
	}

	// Clicking the same atom twice must not self-bond.
	s.HandlePick(firstOrigin, firstDir)
	s.HandlePick(firstOrigin, firstDir)
	if got := s.Store().BondCount(); got != 1 {
		t.Fatalf("bond count after double-click = %d, want 1", got)
	}

	// A miss between clicks abandons the anchor.
	s.HandlePick(firstOrigin, firstDir)
	s.HandlePick(firstOrigin, [3]float32{0, 1, 0})
	s.HandlePick(secondOrigin, secondDir)
	if got := s.Store().BondCount(); got != 1 {
		t.Fatalf("bond count after abandoned anchor = %d, want 1", got)
	}
}

func TestMoveToolDragIsOneUndoStep(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}))
	atom := atomNear(t, s, [3]float32{0, 0, 0})
	s.History().Seal()
	s.SetTool(ToolMove)

	origin, dir := rayAt([3]float32{0, 0, 0})
	s.BeginDrag(origin, dir)
	s.DragTo([3]float32{1, 0, 10}, [3]float32{0, 0, -1})
	s.DragTo([3]float32{3, 0, 10}, [3]float32{0, 0, -1})
	s.EndDrag()

	moved, _ := s.Store().Atom(atom.ID)
	if moved.Position != ([3]float32{3, 0, 0}) {
		t.Fatalf("position after drag = %v, want (3,0,0)", moved.Position)
	}

	// The whole drag reverts in a single undo.
	if !s.Undo() {
		t.Fatal("undo after drag failed")
	}
	reverted, _ := s.Store().Atom(atom.ID)
	if reverted.Position != ([3]float32{0, 0, 0}) {
		t.Fatalf("position after undo = %v, want origin", reverted.Position)
	}
	// The add-atom step is still there underneath.
	if !s.History().CanUndo() {
		t.Error("add-atom step should remain after undoing the drag")
	}
}

func TestDragPreservesDepthAlongRay(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{0, 0, -5}))
	atom := atomNear(t, s, [3]float32{0, 0, -5})
	s.SetTool(ToolMove)

	origin, dir := rayAt([3]float32{0, 0, -5})
	s.BeginDrag(origin, dir)
	s.DragTo([3]float32{2, 0, 10}, [3]float32{0, 0, -1})
	s.EndDrag()

	moved, _ := s.Store().Atom(atom.ID)
	if moved.Position != ([3]float32{2, 0, -5}) {
		t.Fatalf("position = %v, want (2,0,-5)", moved.Position)
	}
}

func TestFailedCommandLeavesStoreAndHistoryUntouched(t *testing.T) {
	s := newTestSession(t)
	s.DrainWrites()

	if s.Execute(history.NewRemoveAtom(molecule.AtomID(9999))) {
		t.Fatal("removing a missing atom should fail")
	}
	if s.History().CanUndo() {
		t.Error("failed command must not enter the history")
	}
	if writes := s.DrainWrites(); len(writes) != 0 {
		t.Errorf("failed command queued %d writes, want 0", len(writes))
	}
	if !strings.Contains(s.StatusLine(), "not found") {
		t.Errorf("status line %q should surface the failure", s.StatusLine())
	}
}

func TestUndoRedoQueueWrites(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{1, 2, 3}))
	s.DrainWrites()

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if writes := s.DrainWrites(); len(writes) == 0 {
		t.Error("undo should queue writes")
	}
	if !s.Redo() {
		t.Fatal("redo failed")
	}
	if writes := s.DrainWrites(); len(writes) == 0 {
		t.Error("redo should queue writes")
	}
	s.Undo()
	if s.Undo() {
		t.Error("second undo should report nothing to undo")
	}
}

func TestDeleteSelectionRemovesAtomAndClearsSelection(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}))
	atom := atomNear(t, s, [3]float32{0, 0, 0})

	if s.DeleteSelection() {
		t.Fatal("delete with no selection should be a no-op")
	}

	origin, dir := rayAt([3]float32{0, 0, 0})
	s.HandlePick(origin, dir)
	if !s.DeleteSelection() {
		t.Fatal("delete with a selection failed")
	}
	if _, ok := s.Store().Atom(atom.ID); ok {
		t.Error("atom should be removed")
	}
	if s.Sync().Selection() != nil {
		t.Error("selection should be cleared after removing the selected atom")
	}
}

func TestSetToolResetsPendingGestures(t *testing.T) {
	s := newTestSession(t)
	s.Execute(history.NewAddAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}))
	s.SetTool(ToolAddBond)

	origin, dir := rayAt([3]float32{0, 0, 0})
	s.HandlePick(origin, dir)

	// Switching tools drops the anchor; the next add-bond click is a fresh
	// first click, so no bond forms from the stale anchor.
	s.SetTool(ToolSelect)
	s.SetTool(ToolAddBond)
	s.HandlePick(origin, dir)
	if got := s.Store().BondCount(); got != 0 {
		t.Fatalf("bond count = %d, want 0", got)
	}
}
