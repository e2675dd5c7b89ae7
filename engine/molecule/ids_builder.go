package molecule

// AllocatorOption is a functional option for configuring an Allocator via NewAllocator.
type AllocatorOption func(*allocator)

// WithNextAtomID is an option builder that sets the next atom identifier the
// allocator will issue. Values below 1 are treated as 1.
//
// Parameters:
//   - next: the next atom identifier to issue
//
// Returns:
//   - AllocatorOption: a function that applies the next-atom option to an allocator
func WithNextAtomID(next AtomID) AllocatorOption {
	return func(a *allocator) {
		if next < 1 {
			next = 1
		}
		a.nextAtom = next
	}
}

// WithNextBondID is an option builder that sets the next bond identifier the
// allocator will issue. Values below 1 are treated as 1.
//
// Parameters:
//   - next: the next bond identifier to issue
//
// Returns:
//   - AllocatorOption: a function that applies the next-bond option to an allocator
func WithNextBondID(next BondID) AllocatorOption {
	return func(a *allocator) {
		if next < 1 {
			next = 1
		}
		a.nextBond = next
	}
}
