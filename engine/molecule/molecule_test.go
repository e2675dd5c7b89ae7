package molecule

import (
	"errors"
	"testing"
)

func TestAllocatorMonotonic(t *testing.T) {
	alloc := NewAllocator()
	var prev AtomID
	for i := 0; i < 100; i++ {
		id := alloc.AllocateAtomID()
		if id <= prev {
			t.Fatalf("atom id %d not strictly increasing after %d", id, prev)
		}
		prev = id
	}
}

func TestAllocatorReserve(t *testing.T) {
	alloc := NewAllocator()
	alloc.Reserve(50, 70)
	if id := alloc.AllocateAtomID(); id != 51 {
		t.Fatalf("expected atom id 51 after reserve, got %d", id)
	}
	if id := alloc.AllocateBondID(); id != 71 {
		t.Fatalf("expected bond id 71 after reserve, got %d", id)
	}
	// Reserving behind the counter must not move it backwards.
	alloc.Reserve(1, 1)
	if id := alloc.AllocateAtomID(); id != 52 {
		t.Fatalf("expected atom id 52, got %d", id)
	}
}

func TestInsertAtomAllocatesFreshIDs(t *testing.T) {
	s := NewStore()
	a := s.InsertAtom(SpeciesCarbon, [3]float32{0, 0, 0})
	b := s.InsertAtom(SpeciesOxygen, [3]float32{1, 0, 0})
	if a.Atom.ID == b.Atom.ID {
		t.Fatalf("atom ids must be unique, both %d", a.Atom.ID)
	}
	if s.AtomCount() != 2 {
		t.Fatalf("expected 2 atoms, got %d", s.AtomCount())
	}
}

func TestRemoveAtomCascadesBonds(t *testing.T) {
	s := NewStore()
	center := s.InsertAtom(SpeciesCarbon, [3]float32{0, 0, 0}).Atom
	h1 := s.InsertAtom(SpeciesHydrogen, [3]float32{1, 0, 0}).Atom
	h2 := s.InsertAtom(SpeciesHydrogen, [3]float32{0, 1, 0}).Atom
	b1, _ := s.InsertBond(center.ID, h1.ID)
	b2, _ := s.InsertBond(center.ID, h2.ID)

	removed, err := s.RemoveAtom(center.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(removed.RemovedBonds) != 2 {
		t.Fatalf("expected 2 cascaded bonds, got %d", len(removed.RemovedBonds))
	}
	got := map[BondID]bool{}
	for _, bond := range removed.RemovedBonds {
		got[bond.ID] = true
	}
	if !got[b1.Bond.ID] || !got[b2.Bond.ID] {
		t.Fatalf("cascade missing bond ids: %v", got)
	}
	if s.BondCount() != 0 {
		t.Fatalf("expected 0 bonds after cascade, got %d", s.BondCount())
	}
	// The surviving atoms must carry no stale incident entries.
	if bonds := s.BondsOf(h1.ID); bonds != nil {
		t.Fatalf("h1 still has incident bonds: %v", bonds)
	}
}

func TestMoveAtom(t *testing.T) {
	s := NewStore()
	atom := s.InsertAtom(SpeciesNitrogen, [3]float32{1, 2, 3}).Atom

	moved, err := s.MoveAtom(atom.ID, [3]float32{4, 5, 6})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved.OldPosition != [3]float32{1, 2, 3} {
		t.Fatalf("wrong old position: %v", moved.OldPosition)
	}
	if got, _ := s.Atom(atom.ID); got.Position != [3]float32{4, 5, 6} {
		t.Fatalf("position not updated: %v", got.Position)
	}

	if _, err := s.MoveAtom(9999, [3]float32{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertBondValidation(t *testing.T) {
	s := NewStore()
	c := s.InsertAtom(SpeciesCarbon, [3]float32{0, 0, 0}).Atom
	o := s.InsertAtom(SpeciesOxygen, [3]float32{1, 0, 0}).Atom
	h := s.InsertAtom(SpeciesHydrogen, [3]float32{2, 0, 0}).Atom
	if _, err := s.InsertBond(o.ID, h.ID); err != nil {
		t.Fatalf("bond failed: %v", err)
	}

	tests := []struct {
		name string
		a, b AtomID
		want error
	}{
		{"self bond", c.ID, c.ID, ErrInvalidEndpoint},
		{"missing endpoint", c.ID, 9999, ErrInvalidEndpoint},
		{"duplicate same order", o.ID, h.ID, ErrDuplicateBond},
		{"duplicate reversed", h.ID, o.ID, ErrDuplicateBond},
		{"hydrogen at valence limit", h.ID, c.ID, ErrValenceExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.InsertBond(tt.a, tt.b); !errors.Is(err, tt.want) {
				t.Fatalf("InsertBond(%d, %d) = %v, want %v", tt.a, tt.b, err, tt.want)
			}
		})
	}
	if s.BondCount() != 1 {
		t.Fatalf("failed inserts must not mutate the store, bond count %d", s.BondCount())
	}
}

func TestRestorePreservesIdentifiers(t *testing.T) {
	s := NewStore()
	atom := s.InsertAtom(SpeciesOxygen, [3]float32{0, 0, 0}).Atom
	other := s.InsertAtom(SpeciesHydrogen, [3]float32{1, 0, 0}).Atom
	bond, _ := s.InsertBond(atom.ID, other.ID)

	removed, _ := s.RemoveAtom(atom.ID)
	if _, err := s.RestoreAtom(removed.Atom); err != nil {
		t.Fatalf("restore atom failed: %v", err)
	}
	if _, err := s.RestoreBond(removed.RemovedBonds[0]); err != nil {
		t.Fatalf("restore bond failed: %v", err)
	}
	got, ok := s.Bond(bond.Bond.ID)
	if !ok || got.A != bond.Bond.A || got.B != bond.Bond.B {
		t.Fatalf("restored bond mismatch: %+v ok=%v", got, ok)
	}

	// A fresh allocation after restore must not collide with restored ids.
	fresh := s.InsertAtom(SpeciesCarbon, [3]float32{}).Atom
	if fresh.ID <= atom.ID || fresh.ID <= other.ID {
		t.Fatalf("fresh id %d collides with restored ids", fresh.ID)
	}

	if _, err := s.RestoreAtom(removed.Atom); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestClearKeepsCounters(t *testing.T) {
	s := NewStore()
	first := s.InsertAtom(SpeciesCarbon, [3]float32{}).Atom
	s.Clear()
	if s.AtomCount() != 0 {
		t.Fatalf("clear left %d atoms", s.AtomCount())
	}
	second := s.InsertAtom(SpeciesCarbon, [3]float32{}).Atom
	if second.ID <= first.ID {
		t.Fatalf("id %d reused after clear (first was %d)", second.ID, first.ID)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		raw  string
		want Species
	}{
		{"h", SpeciesHydrogen},
		{"CL", SpeciesChlorine},
		{"Br", SpeciesBromine},
		{"c", SpeciesCarbon},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.raw); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestInfoFallsBackToDefault(t *testing.T) {
	info := Info(Species("Xx"))
	if info.MaxValence != defaultElement.MaxValence || info.Color != defaultElement.Color {
		t.Fatalf("unknown species did not use default entry: %+v", info)
	}
}
