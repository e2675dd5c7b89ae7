package instance

// TableOption is a functional option for configuring a Table via NewTable.
type TableOption[K comparable] func(*table[K])

// WithTableCapacity is an option builder that sets the initial slot
// capacity. Values below 1 are treated as the default.
//
// Parameters:
//   - capacity: the initial capacity in slots
//
// Returns:
//   - TableOption[K]: a function that applies the capacity option to a table
func WithTableCapacity[K comparable](capacity int) TableOption[K] {
	return func(t *table[K]) {
		if capacity < 1 {
			capacity = DefaultTableCapacity
		}
		t.capacity = capacity
	}
}
