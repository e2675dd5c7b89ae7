package instance

import "testing"

func TestTableAcquireSequential(t *testing.T) {
	tbl := NewTable[uint64]()
	for i := 0; i < 5; i++ {
		slot, _ := tbl.Acquire(uint64(i + 1))
		if slot != i {
			t.Fatalf("expected slot %d, got %d", i, slot)
		}
	}
	if tbl.HighWater() != 5 || tbl.Live() != 5 {
		t.Fatalf("high water %d live %d, want 5/5", tbl.HighWater(), tbl.Live())
	}
}

func TestTableReusesLowestFreeSlot(t *testing.T) {
	tbl := NewTable[uint64]()
	for i := uint64(1); i <= 4; i++ {
		tbl.Acquire(i)
	}
	tbl.Release(3) // slot 2
	tbl.Release(1) // slot 0

	slot, _ := tbl.Acquire(10)
	if slot != 0 {
		t.Fatalf("expected lowest free slot 0, got %d", slot)
	}
	slot, _ = tbl.Acquire(11)
	if slot != 2 {
		t.Fatalf("expected next free slot 2, got %d", slot)
	}
	// Free-list exhausted: append to the live region.
	slot, _ = tbl.Acquire(12)
	if slot != 4 {
		t.Fatalf("expected appended slot 4, got %d", slot)
	}
}

func TestTableReleaseNeverRelocates(t *testing.T) {
	tbl := NewTable[uint64]()
	for i := uint64(1); i <= 10; i++ {
		tbl.Acquire(i)
	}
	before := map[uint64]int{}
	for _, e := range tbl.Entries() {
		before[e.Key] = e.Slot
	}

	tbl.Release(5)
	for _, e := range tbl.Entries() {
		if before[e.Key] != e.Slot {
			t.Fatalf("slot of %d relocated from %d to %d", e.Key, before[e.Key], e.Slot)
		}
	}
	if tbl.HighWater() != 10 {
		t.Fatalf("release must not shrink the live region, high water %d", tbl.HighWater())
	}
}

func TestTableGrowthDoublesCapacity(t *testing.T) {
	tbl := NewTable[uint64](WithTableCapacity[uint64](2))
	if _, grew := tbl.Acquire(1); grew {
		t.Fatal("no growth expected at slot 0")
	}
	if _, grew := tbl.Acquire(2); grew {
		t.Fatal("no growth expected at slot 1")
	}
	if _, grew := tbl.Acquire(3); !grew {
		t.Fatal("expected growth at slot 2")
	}
	if tbl.Capacity() != 4 {
		t.Fatalf("expected capacity 4, got %d", tbl.Capacity())
	}
}

func TestTableAcquireIsIdempotentPerKey(t *testing.T) {
	tbl := NewTable[uint64]()
	first, _ := tbl.Acquire(7)
	second, _ := tbl.Acquire(7)
	if first != second {
		t.Fatalf("re-acquiring a live key moved it from %d to %d", first, second)
	}
	if tbl.Live() != 1 {
		t.Fatalf("live count %d, want 1", tbl.Live())
	}
}

func TestTableReleaseUnknownKey(t *testing.T) {
	tbl := NewTable[uint64]()
	if _, ok := tbl.Release(99); ok {
		t.Fatal("releasing an unknown key must report false")
	}
}
