package history

// EngineOption is a functional option for configuring an Engine via NewEngine.
type EngineOption func(*engine)

// WithCapacity is an option builder that sets the undo stack bound. Values
// below 1 are treated as the default.
//
// Parameters:
//   - capacity: the maximum number of recoverable undo steps
//
// Returns:
//   - EngineOption: a function that applies the capacity option to an engine
func WithCapacity(capacity int) EngineOption {
	return func(e *engine) {
		if capacity < 1 {
			capacity = DefaultCapacity
		}
		e.capacity = capacity
	}
}
