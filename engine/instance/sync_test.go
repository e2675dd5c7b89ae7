package instance

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
)

func newTestSync(store molecule.Store) RenderSync {
	return NewRenderSync(store,
		WithAtomProvider(bind_group_provider.NewBindGroupProvider("atoms")),
		WithBondProvider(bind_group_provider.NewBindGroupProvider("bonds")),
		WithCameraProvider(bind_group_provider.NewBindGroupProvider("camera")),
	)
}

func TestInstanceStrides(t *testing.T) {
	if AtomInstanceSize != 32 {
		t.Fatalf("atom instance stride %d, want 32", AtomInstanceSize)
	}
	if BondInstanceSize != 48 {
		t.Fatalf("bond instance stride %d, want 48", BondInstanceSize)
	}
	if CameraUniformSize != 80 {
		t.Fatalf("camera uniform size %d, want 80", CameraUniformSize)
	}
}

func TestMoveAtomProducesExactlyOneWrite(t *testing.T) {
	store := molecule.NewStore()
	id := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	// Plenty of unrelated atoms: the write count must not scale with them.
	for i := 0; i < 500; i++ {
		store.InsertAtom(molecule.SpeciesHydrogen, [3]float32{float32(i), 0, 0})
	}
	rs := newTestSync(store)
	rs.Load()

	moved, err := store.MoveAtom(id, [3]float32{1, 2, 3})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	writes := rs.OnChange(molecule.ChangeFeed{moved})
	if len(writes) != 1 {
		t.Fatalf("move of an isolated atom must produce exactly 1 write, got %d", len(writes))
	}
	if len(writes[0].Data) != AtomInstanceSize {
		t.Fatalf("write size %d, want one instance record", len(writes[0].Data))
	}
}

func TestInsertBondProducesExactlyOneWrite(t *testing.T) {
	store := molecule.NewStore()
	a := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	b := store.InsertAtom(molecule.SpeciesOxygen, [3]float32{1.4, 0, 0}).Atom.ID
	rs := newTestSync(store)
	rs.Load()

	added, err := store.InsertBond(a, b)
	if err != nil {
		t.Fatalf("bond failed: %v", err)
	}
	writes := rs.OnChange(molecule.ChangeFeed{added})
	if len(writes) != 1 {
		t.Fatalf("expected exactly 1 write, got %d", len(writes))
	}
	if len(writes[0].Data) != BondInstanceSize {
		t.Fatalf("write size %d, want one bond record", len(writes[0].Data))
	}
}

func TestRemoveAtomWithTwoBondsProducesThreeWrites(t *testing.T) {
	store := molecule.NewStore()
	o := store.InsertAtom(molecule.SpeciesOxygen, [3]float32{0, 0, 0}).Atom.ID
	h1 := store.InsertAtom(molecule.SpeciesHydrogen, [3]float32{1, 0, 0}).Atom.ID
	h2 := store.InsertAtom(molecule.SpeciesHydrogen, [3]float32{0, 1, 0}).Atom.ID
	store.InsertBond(o, h1)
	store.InsertBond(o, h2)
	rs := newTestSync(store)
	rs.Load()

	removed, err := store.RemoveAtom(o)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	writes := rs.OnChange(molecule.ChangeFeed{removed})
	if len(writes) != 3 {
		t.Fatalf("expected 3 slot reclamation writes (2 bonds + 1 atom), got %d", len(writes))
	}
	for _, w := range writes {
		for _, b := range w.Data {
			if b != 0 {
				t.Fatal("vacated slots must be zeroed")
			}
		}
	}
}

func TestMoveRewritesIncidentBonds(t *testing.T) {
	store := molecule.NewStore()
	c := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	h1 := store.InsertAtom(molecule.SpeciesHydrogen, [3]float32{1, 0, 0}).Atom.ID
	h2 := store.InsertAtom(molecule.SpeciesHydrogen, [3]float32{0, 1, 0}).Atom.ID
	store.InsertBond(c, h1)
	store.InsertBond(c, h2)
	rs := newTestSync(store)
	rs.Load()

	moved, _ := store.MoveAtom(c, [3]float32{0, 0, 1})
	writes := rs.OnChange(molecule.ChangeFeed{moved})
	// 1 atom record + 2 incident bond records, nothing else.
	if len(writes) != 3 {
		t.Fatalf("expected 3 writes for a move with 2 incident bonds, got %d", len(writes))
	}
}

func TestSlotReuseAfterRemoval(t *testing.T) {
	store := molecule.NewStore()
	a1 := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	a2 := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{1, 0, 0}).Atom.ID
	store.InsertBond(a1, a2)
	rs := newTestSync(store)
	rs.Load()

	slotA1, _ := rs.AtomSlot(a1)
	slotA2, _ := rs.AtomSlot(a2)

	removed, _ := store.RemoveAtom(a1)
	rs.OnChange(molecule.ChangeFeed{removed})
	if got, ok := rs.AtomSlot(a2); !ok || got != slotA2 {
		t.Fatalf("unrelated atom's slot changed: %d -> %d", slotA2, got)
	}

	// The vacated slot is reused by the next insertion.
	added := store.InsertAtom(molecule.SpeciesNitrogen, [3]float32{2, 0, 0})
	rs.OnChange(molecule.ChangeFeed{added})
	if got, _ := rs.AtomSlot(added.Atom.ID); got != slotA1 {
		t.Fatalf("expected vacated slot %d to be reused, got %d", slotA1, got)
	}
	if rs.AtomDrawCount() != 2 {
		t.Fatalf("draw count %d, want 2", rs.AtomDrawCount())
	}
}

func TestSelectionWritesAreNarrow(t *testing.T) {
	store := molecule.NewStore()
	a := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	b := store.InsertAtom(molecule.SpeciesOxygen, [3]float32{1, 0, 0}).Atom.ID
	rs := newTestSync(store)
	rs.Load()

	writes := rs.SetSelection(&a)
	if len(writes) != 1 {
		t.Fatalf("selecting with no prior selection must write 1 slot, got %d", len(writes))
	}
	if len(writes[0].Data) != 4 {
		t.Fatalf("selection write must patch only the flag field, wrote %d bytes", len(writes[0].Data))
	}
	if got := binary.LittleEndian.Uint32(writes[0].Data); got != FlagSelected {
		t.Fatalf("flag value %#x, want %#x", got, FlagSelected)
	}

	writes = rs.SetSelection(&b)
	if len(writes) != 2 {
		t.Fatalf("moving the selection must write old and new slots, got %d", len(writes))
	}

	writes = rs.SetSelection(nil)
	if len(writes) != 1 {
		t.Fatalf("clearing the selection must write 1 slot, got %d", len(writes))
	}
}

func TestSelectionClearedWhenAtomRemoved(t *testing.T) {
	store := molecule.NewStore()
	a := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	rs := newTestSync(store)
	rs.Load()
	rs.SetSelection(&a)

	removed, _ := store.RemoveAtom(a)
	rs.OnChange(molecule.ChangeFeed{removed})
	if rs.Selection() != nil {
		t.Fatal("selection must reset when the selected atom is removed")
	}
}

func TestRepresentationSwitch(t *testing.T) {
	store := molecule.NewStore()
	a := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	b := store.InsertAtom(molecule.SpeciesOxygen, [3]float32{1.4, 0, 0}).Atom.ID
	store.InsertBond(a, b)
	rs := newTestSync(store)
	rs.Load()

	if rs.BondDrawCount() != 1 {
		t.Fatalf("ball-and-stick must draw bonds, count %d", rs.BondDrawCount())
	}

	writes := rs.SetRepresentation(RepresentationSpaceFilling)
	if len(writes) != 2 {
		t.Fatalf("representation switch must rewrite each live atom once, got %d writes", len(writes))
	}
	if rs.BondDrawCount() != 0 {
		t.Fatalf("space-filling must hide bonds, count %d", rs.BondDrawCount())
	}

	// Switching to the current mode is a no-op.
	if writes := rs.SetRepresentation(RepresentationSpaceFilling); writes != nil {
		t.Fatalf("redundant switch produced %d writes", len(writes))
	}
}

func TestLoadScenarioRemoveUndo(t *testing.T) {
	store := molecule.NewStore()
	a1 := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{0, 0, 0}).Atom.ID
	a2 := store.InsertAtom(molecule.SpeciesCarbon, [3]float32{1, 0, 0}).Atom.ID
	store.InsertBond(a1, a2)
	rs := newTestSync(store)

	writes := rs.Load()
	if len(writes) != 2 {
		t.Fatalf("expected one atom blob and one bond blob, got %d writes", len(writes))
	}
	if rs.AtomDrawCount() != 2 {
		t.Fatalf("atom draw count %d, want 2", rs.AtomDrawCount())
	}

	removed, _ := store.RemoveAtom(a1)
	feed := molecule.ChangeFeed{removed}
	rs.OnChange(feed)
	if live := rs.AtomDrawCount(); live != 2 {
		// High water stays at 2; the vacated slot holds a zeroed record.
		t.Fatalf("high water changed to %d", live)
	}
	if _, ok := rs.AtomSlot(a1); ok {
		t.Fatal("removed atom still has a slot")
	}

	// Undo: restore through the store and replay the inverse feed.
	restoredAtom, _ := store.RestoreAtom(removed.Atom)
	restoredBond, _ := store.RestoreBond(removed.RemovedBonds[0])
	rs.OnChange(molecule.ChangeFeed{restoredAtom, restoredBond})
	if _, ok := rs.AtomSlot(a1); !ok {
		t.Fatal("restored atom has no slot")
	}
	if rs.BondDrawCount() != 1 {
		t.Fatalf("bond draw count %d after restore, want 1", rs.BondDrawCount())
	}
}
