package history

import (
	"log"

	"github.com/Carmen-Shannon/mol-go/engine/molecule"
)

// DefaultCapacity is the undo stack bound used when no capacity option is
// provided. When the stack exceeds its bound the oldest entry is dropped;
// edits past that point are permanently unrecoverable. This is the one
// deliberately lossy boundary in the edit engine.
const DefaultCapacity = 100

// engine is the implementation of the Engine interface.
type engine struct {
	store    molecule.Store
	capacity int

	undo []Command
	redo []Command

	// sealed blocks merging into the current top of the undo stack. Set on
	// gesture boundaries (mouse release, selection change) so separate
	// drags stay separate undo steps.
	sealed bool
}

// Engine executes reversible commands against a molecule store and
// maintains bounded undo/redo stacks. A successfully applied command is
// pushed to the undo stack and clears the redo stack; a failed command
// touches neither. Undo and redo on empty stacks are no-ops, not errors.
// The engine is confined to the interactive thread.
type Engine interface {
	// Execute applies a command and records it for undo.
	//
	// Parameters:
	//   - cmd: the command to apply
	//
	// Returns:
	//   - molecule.ChangeFeed: the deltas the command produced
	//   - error: a typed store error if the command was invalid; the stacks
	//     and store are unchanged
	Execute(cmd Command) (molecule.ChangeFeed, error)

	// Undo inverts the most recent command and moves it to the redo stack.
	//
	// Returns:
	//   - molecule.ChangeFeed: the deltas the inversion produced
	//   - bool: false if there was nothing to undo
	Undo() (molecule.ChangeFeed, bool)

	// Redo re-applies the most recently undone command and moves it back to
	// the undo stack.
	//
	// Returns:
	//   - molecule.ChangeFeed: the deltas the re-application produced
	//   - bool: false if there was nothing to redo
	Redo() (molecule.ChangeFeed, bool)

	// CanUndo reports whether the undo stack is non-empty.
	//
	// Returns:
	//   - bool: true if an undo step is available
	CanUndo() bool

	// CanRedo reports whether the redo stack is non-empty.
	//
	// Returns:
	//   - bool: true if a redo step is available
	CanRedo() bool

	// Seal marks a gesture boundary: the next executed command will not
	// merge into the current top of the undo stack.
	Seal()

	// Clear drops both stacks. Used when a new structure replaces the
	// loaded document.
	Clear()
}

var _ Engine = &engine{}

// NewEngine creates a command engine bound to a molecule store, with all
// options applied.
//
// Parameters:
//   - store: the molecule store the commands mutate
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(store molecule.Store, options ...EngineOption) Engine {
	e := &engine{
		store:    store,
		capacity: DefaultCapacity,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *engine) Execute(cmd Command) (molecule.ChangeFeed, error) {
	feed, err := cmd.Apply(e.store)
	if err != nil {
		return nil, err
	}
	e.redo = e.redo[:0]

	if !e.sealed {
		if top := e.top(); top != nil {
			if m, ok := top.(merger); ok && m.merge(cmd) {
				return feed, nil
			}
		}
	}
	e.sealed = false

	e.undo = append(e.undo, cmd)
	if len(e.undo) > e.capacity {
		// Drop the oldest entry; shift in place so the slice does not leak
		// retired commands.
		copy(e.undo, e.undo[1:])
		e.undo[len(e.undo)-1] = nil
		e.undo = e.undo[:len(e.undo)-1]
	}
	return feed, nil
}

func (e *engine) Undo() (molecule.ChangeFeed, bool) {
	if len(e.undo) == 0 {
		return nil, false
	}
	cmd := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	feed, err := cmd.Invert(e.store)
	if err != nil {
		// Only reachable if the store was mutated outside the engine.
		log.Printf("history: undo failed: %v", err)
		return nil, false
	}
	e.redo = append(e.redo, cmd)
	e.sealed = true
	return feed, true
}

func (e *engine) Redo() (molecule.ChangeFeed, bool) {
	if len(e.redo) == 0 {
		return nil, false
	}
	cmd := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	feed, err := cmd.Apply(e.store)
	if err != nil {
		log.Printf("history: redo failed: %v", err)
		return nil, false
	}
	e.undo = append(e.undo, cmd)
	e.sealed = true
	return feed, true
}

func (e *engine) CanUndo() bool {
	return len(e.undo) > 0
}

func (e *engine) CanRedo() bool {
	return len(e.redo) > 0
}

func (e *engine) Seal() {
	e.sealed = true
}

func (e *engine) Clear() {
	e.undo = nil
	e.redo = nil
	e.sealed = false
}

// top returns the most recent undo entry, or nil if the stack is empty.
func (e *engine) top() Command {
	if len(e.undo) == 0 {
		return nil
	}
	return e.undo[len(e.undo)-1]
}
