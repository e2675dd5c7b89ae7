package molecule

import "sync"

// AtomID is a stable identifier for a single atom. Values are issued by an
// Allocator, are strictly increasing for the process lifetime, and are never
// reused, even when the atom they named is removed or its creation is undone.
// An AtomID is never derived from container or buffer position.
type AtomID uint64

// BondID is a stable identifier for a single bond. It carries the same
// guarantees as AtomID and lives in its own counter space.
type BondID uint64

// allocator is the implementation of the Allocator interface.
type allocator struct {
	mu *sync.Mutex

	nextAtom AtomID
	nextBond BondID
}

// Allocator issues stable atom and bond identifiers. Identifiers are
// monotonically increasing and collision-free for the process lifetime.
// Undoing the command that created an entity does not roll the counters
// back; the undone identifier is permanently retired so stale references
// can never be confused with a new entity.
type Allocator interface {
	// AllocateAtomID issues the next atom identifier.
	//
	// Returns:
	//   - AtomID: a fresh, never-before-issued atom identifier
	AllocateAtomID() AtomID

	// AllocateBondID issues the next bond identifier.
	//
	// Returns:
	//   - BondID: a fresh, never-before-issued bond identifier
	AllocateBondID() BondID

	// Reserve advances the counters past the given identifiers if they are
	// ahead of the current counters. Used when installing entities that
	// already carry identifiers (bulk load, undo restore) so future
	// allocations cannot collide with them.
	//
	// Parameters:
	//   - atom: an atom identifier that must never be issued again
	//   - bond: a bond identifier that must never be issued again
	Reserve(atom AtomID, bond BondID)
}

var _ Allocator = &allocator{}

// NewAllocator creates a new identifier allocator with all options applied.
// Counters start at 1 so the zero value of AtomID/BondID is never a live
// identifier.
//
// Parameters:
//   - options: functional options to configure the allocator
//
// Returns:
//   - Allocator: the newly created allocator
func NewAllocator(options ...AllocatorOption) Allocator {
	a := &allocator{
		mu:       &sync.Mutex{},
		nextAtom: 1,
		nextBond: 1,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *allocator) AllocateAtomID() AtomID {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextAtom
	a.nextAtom++
	return id
}

func (a *allocator) AllocateBondID() BondID {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextBond
	a.nextBond++
	return id
}

func (a *allocator) Reserve(atom AtomID, bond BondID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if atom >= a.nextAtom {
		a.nextAtom = atom + 1
	}
	if bond >= a.nextBond {
		a.nextBond = bond + 1
	}
}
