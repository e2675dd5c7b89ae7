package molecule

// StoreOption is a functional option for configuring a Store via NewStore.
type StoreOption func(*store)

// WithAllocator is an option builder that sets the identifier allocator used
// by the Store. Useful for seeding counters when reconstructing a store.
//
// Parameters:
//   - alloc: the allocator to use
//
// Returns:
//   - StoreOption: a function that applies the allocator option to a store
func WithAllocator(alloc Allocator) StoreOption {
	return func(s *store) {
		if alloc != nil {
			s.alloc = alloc
		}
	}
}
