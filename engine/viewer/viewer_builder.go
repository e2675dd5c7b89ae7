package viewer

import (
	"github.com/Carmen-Shannon/mol-go/engine/history"
	"github.com/Carmen-Shannon/mol-go/engine/instance"
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/xyz"
)

// SessionOption is a functional option used to configure a Session during construction.
type SessionOption func(*sessionImpl)

// WithLoader sets the asynchronous structure loader the session polls each
// frame. Without this option the session creates a default loader.
//
// Parameters:
//   - l: the loader to use
//
// Returns:
//   - SessionOption: a function that sets the loader
func WithLoader(l xyz.Loader) SessionOption {
	return func(s *sessionImpl) {
		s.loader = l
	}
}

// WithSync sets the render sync layer. Use this to attach a sync layer that
// was built with specific buffer providers. The sync layer must observe the
// session's store; construct both over the same store and pass WithStore
// alongside this option.
//
// Parameters:
//   - rs: the render sync layer
//
// Returns:
//   - SessionOption: a function that sets the sync layer
func WithSync(rs instance.RenderSync) SessionOption {
	return func(s *sessionImpl) {
		s.sync = rs
	}
}

// WithStore sets the molecule store. Pass this before WithSync when the sync
// layer was constructed over the same store.
//
// Parameters:
//   - st: the store to use
//
// Returns:
//   - SessionOption: a function that sets the store
func WithStore(st molecule.Store) SessionOption {
	return func(s *sessionImpl) {
		s.store = st
	}
}

// WithHistory sets the undo engine. Use this to configure a non-default undo
// capacity.
//
// Parameters:
//   - h: the undo engine, constructed over the session's store
//
// Returns:
//   - SessionOption: a function that sets the undo engine
func WithHistory(h history.Engine) SessionOption {
	return func(s *sessionImpl) {
		s.history = h
	}
}

// WithPlaceDepth sets the distance along the pick ray at which the add-atom
// tool places atoms when clicking empty space.
//
// Parameters:
//   - depth: the placement distance in world units
//
// Returns:
//   - SessionOption: a function that sets the placement depth
func WithPlaceDepth(depth float32) SessionOption {
	return func(s *sessionImpl) {
		s.placeDepth = depth
	}
}

// WithSpecies sets the initial species for the add-atom tool.
//
// Parameters:
//   - sp: the species to place
//
// Returns:
//   - SessionOption: a function that sets the initial species
func WithSpecies(sp molecule.Species) SessionOption {
	return func(s *sessionImpl) {
		s.species = sp
	}
}
