package instance

import (
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
)

// RenderSyncOption is a functional option for configuring a RenderSync via NewRenderSync.
type RenderSyncOption func(*renderSync)

// WithAtomProvider is an option builder that sets the provider owning the
// atom instance buffer.
//
// Parameters:
//   - p: the atom instance provider
//
// Returns:
//   - RenderSyncOption: a function that applies the provider option to a sync layer
func WithAtomProvider(p bind_group_provider.BindGroupProvider) RenderSyncOption {
	return func(rs *renderSync) {
		rs.atomProvider = p
	}
}

// WithBondProvider is an option builder that sets the provider owning the
// bond instance buffer.
//
// Parameters:
//   - p: the bond instance provider
//
// Returns:
//   - RenderSyncOption: a function that applies the provider option to a sync layer
func WithBondProvider(p bind_group_provider.BindGroupProvider) RenderSyncOption {
	return func(rs *renderSync) {
		rs.bondProvider = p
	}
}

// WithCameraProvider is an option builder that sets the provider owning the
// camera uniform buffer.
//
// Parameters:
//   - p: the camera uniform provider
//
// Returns:
//   - RenderSyncOption: a function that applies the provider option to a sync layer
func WithCameraProvider(p bind_group_provider.BindGroupProvider) RenderSyncOption {
	return func(rs *renderSync) {
		rs.cameraProvider = p
	}
}

// WithRepresentation is an option builder that sets the initial display mode.
//
// Parameters:
//   - rep: the representation to start in
//
// Returns:
//   - RenderSyncOption: a function that applies the representation option to a sync layer
func WithRepresentation(rep Representation) RenderSyncOption {
	return func(rs *renderSync) {
		rs.rep = rep
	}
}

// WithInitialCapacity is an option builder that sets the initial slot
// capacity of both instance tables.
//
// Parameters:
//   - atoms: the initial atom slot capacity
//   - bonds: the initial bond slot capacity
//
// Returns:
//   - RenderSyncOption: a function that applies the capacity option to a sync layer
func WithInitialCapacity(atoms, bonds int) RenderSyncOption {
	return func(rs *renderSync) {
		rs.atoms = NewTable[molecule.AtomID](WithTableCapacity[molecule.AtomID](atoms))
		rs.bonds = NewTable[molecule.BondID](WithTableCapacity[molecule.BondID](bonds))
	}
}
