package instance

import "sort"

// DefaultTableCapacity is the initial slot capacity used when no capacity
// option is provided.
const DefaultTableCapacity = 64

// Entry pairs a stable identifier with its current buffer slot.
type Entry[K comparable] struct {
	Key  K
	Slot int
}

// table is the implementation of the Table interface.
type table[K comparable] struct {
	slots map[K]int
	// free holds reclaimed slot indices sorted ascending so the lowest slot
	// is always reused first.
	free      []int
	highWater int
	capacity  int
}

// Table is the indirection between stable identifiers and GPU buffer slot
// indices. Every live identifier has exactly one slot; slots vacated by
// removal land on a free-list and are reused by later insertions without
// ever relocating unrelated slots. The live region is [0, HighWater());
// freed slots inside it simply hold zeroed instance data until reused.
type Table[K comparable] interface {
	// Acquire assigns a slot to an identifier: the lowest free slot if one
	// exists, otherwise the next slot at the end of the live region. The
	// capacity doubles when the live region outgrows it; existing slot
	// assignments are untouched by growth.
	//
	// Parameters:
	//   - key: the identifier to place
	//
	// Returns:
	//   - int: the assigned slot index
	//   - bool: true if the capacity grew
	Acquire(key K) (int, bool)

	// Release reclaims an identifier's slot onto the free-list.
	//
	// Parameters:
	//   - key: the identifier to remove
	//
	// Returns:
	//   - int: the reclaimed slot index
	//   - bool: false if the identifier has no slot
	Release(key K) (int, bool)

	// Slot retrieves the current slot of an identifier.
	//
	// Parameters:
	//   - key: the identifier to look up
	//
	// Returns:
	//   - int: the slot index
	//   - bool: true if the identifier is live
	Slot(key K) (int, bool)

	// Entries retrieves all live identifier/slot pairs in unspecified order.
	//
	// Returns:
	//   - []Entry[K]: the live entries
	Entries() []Entry[K]

	// Live returns the number of live identifiers.
	//
	// Returns:
	//   - int: the live count
	Live() int

	// HighWater returns the end of the live region: one past the highest
	// slot ever assigned since the last Clear. Instanced draws cover
	// [0, HighWater()).
	//
	// Returns:
	//   - int: the live region length in slots
	HighWater() int

	// Capacity returns the current slot capacity.
	//
	// Returns:
	//   - int: the capacity in slots
	Capacity() int

	// Clear drops all assignments and resets the live region. Capacity is
	// retained.
	Clear()
}

var _ Table[uint64] = &table[uint64]{}

// NewTable creates an empty slot table with all options applied.
//
// Parameters:
//   - options: functional options to configure the table
//
// Returns:
//   - Table[K]: the newly created table
func NewTable[K comparable](options ...TableOption[K]) Table[K] {
	t := &table[K]{
		slots:    make(map[K]int),
		capacity: DefaultTableCapacity,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *table[K]) Acquire(key K) (int, bool) {
	if slot, ok := t.slots[key]; ok {
		return slot, false
	}
	if len(t.free) > 0 {
		slot := t.free[0]
		t.free = t.free[1:]
		t.slots[key] = slot
		return slot, false
	}

	slot := t.highWater
	t.highWater++
	grew := false
	for t.highWater > t.capacity {
		t.capacity *= 2
		grew = true
	}
	t.slots[key] = slot
	return slot, grew
}

func (t *table[K]) Release(key K) (int, bool) {
	slot, ok := t.slots[key]
	if !ok {
		return 0, false
	}
	delete(t.slots, key)
	idx := sort.SearchInts(t.free, slot)
	t.free = append(t.free, 0)
	copy(t.free[idx+1:], t.free[idx:])
	t.free[idx] = slot
	return slot, true
}

func (t *table[K]) Slot(key K) (int, bool) {
	slot, ok := t.slots[key]
	return slot, ok
}

func (t *table[K]) Entries() []Entry[K] {
	entries := make([]Entry[K], 0, len(t.slots))
	for key, slot := range t.slots {
		entries = append(entries, Entry[K]{Key: key, Slot: slot})
	}
	return entries
}

func (t *table[K]) Live() int {
	return len(t.slots)
}

func (t *table[K]) HighWater() int {
	return t.highWater
}

func (t *table[K]) Capacity() int {
	return t.capacity
}

func (t *table[K]) Clear() {
	t.slots = make(map[K]int)
	t.free = nil
	t.highWater = 0
}
