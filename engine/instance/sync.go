package instance

import (
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
)

// Buffer binding indices on the providers the sync layer targets.
const (
	// InstanceBinding is the binding index of the instance buffer on the
	// atom and bond providers.
	InstanceBinding = 0

	// CameraBinding is the binding index of the camera uniform buffer on
	// the camera provider.
	CameraBinding = 0

	// LightBinding is the binding index of the light uniform buffer on
	// the camera provider.
	LightBinding = 1
)

// atomFlagsOffset is the byte offset of the Flags field inside an
// AtomInstance, used for the narrow selection-flag write.
const atomFlagsOffset = 28

// renderSync is the implementation of the RenderSync interface.
type renderSync struct {
	store molecule.Store

	atoms Table[molecule.AtomID]
	bonds Table[molecule.BondID]

	atomProvider   bind_group_provider.BindGroupProvider
	bondProvider   bind_group_provider.BindGroupProvider
	cameraProvider bind_group_provider.BindGroupProvider

	rep      Representation
	selected *molecule.AtomID
}

// RenderSync keeps the GPU-visible instance buffers in exact correspondence
// with the molecule store, touching only the slots a change affected. The
// bytes written per change are proportional to the entities that change
// touched, never to the total live entity count. The two exceptions, both
// explicit whole-table paths, are Load (initial bulk construction) and
// SetRepresentation (every atom's radius changes at once).
//
// Selection and camera updates are narrow side channels, not store changes:
// a selection change writes one 4-byte flag field per affected slot and a
// camera change writes one small uniform block.
type RenderSync interface {
	// Load rebuilds both instance tables and buffers from the store's
	// current contents. This is the only full rebuild in the system,
	// performed once per loaded structure, never during interactive edits.
	// Selection is cleared.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: one contiguous write per
	//     non-empty instance buffer
	Load() []bind_group_provider.BufferWrite

	// OnChange translates one command's change feed into minimal buffer
	// writes against the instance tables. Removals reclaim slots onto the
	// free-list and zero the vacated records so they no longer rasterize.
	// Moving an atom also rewrites its incident bond records, since their
	// geometry depends on the endpoint position.
	//
	// Parameters:
	//   - feed: the deltas one command produced
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the slot writes to apply
	OnChange(feed molecule.ChangeFeed) []bind_group_provider.BufferWrite

	// SetSelection moves the selection highlight. Only the flag fields of
	// the previously and newly selected slots are written.
	//
	// Parameters:
	//   - id: the newly selected atom, or nil to clear
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: at most two 4-byte flag writes
	SetSelection(id *molecule.AtomID) []bind_group_provider.BufferWrite

	// Selection returns the currently highlighted atom.
	//
	// Returns:
	//   - *molecule.AtomID: the selected atom, nil if none
	Selection() *molecule.AtomID

	// SetCamera produces the uniform write for a camera change.
	//
	// Parameters:
	//   - viewProj: the combined column-major view-projection matrix
	//   - position: the camera world position
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: the camera uniform write
	SetCamera(viewProj [16]float32, position [3]float32) bind_group_provider.BufferWrite

	// SetRepresentation switches display mode and rewrites every live atom
	// record with its new radius. Bond visibility is handled by the draw
	// count, not by buffer writes.
	//
	// Parameters:
	//   - rep: the representation to switch to
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: one write per live atom
	SetRepresentation(rep Representation) []bind_group_provider.BufferWrite

	// Representation returns the active display mode.
	//
	// Returns:
	//   - Representation: the active mode
	Representation() Representation

	// AtomDrawCount returns the instance count for the atom draw call: the
	// atom table's live region length. Freed slots inside the region hold
	// zero-radius records.
	//
	// Returns:
	//   - int: the atom instance count
	AtomDrawCount() int

	// BondDrawCount returns the instance count for the bond draw call.
	// Space-filling mode hides bonds by returning zero.
	//
	// Returns:
	//   - int: the bond instance count
	BondDrawCount() int

	// AtomCapacity returns the atom table's slot capacity, which the
	// renderer uses to size the backing buffer before applying writes.
	//
	// Returns:
	//   - int: the capacity in slots
	AtomCapacity() int

	// BondCapacity returns the bond table's slot capacity.
	//
	// Returns:
	//   - int: the capacity in slots
	BondCapacity() int

	// AtomSlot retrieves the buffer slot of a live atom.
	//
	// Parameters:
	//   - id: the atom identifier
	//
	// Returns:
	//   - int: the slot index
	//   - bool: true if the atom has a slot
	AtomSlot(id molecule.AtomID) (int, bool)
}

var _ RenderSync = &renderSync{}

// NewRenderSync creates a render sync layer bound to a molecule store, with
// all options applied.
//
// Parameters:
//   - store: the molecule store to mirror
//   - options: functional options to configure the sync layer
//
// Returns:
//   - RenderSync: the newly created sync layer
func NewRenderSync(store molecule.Store, options ...RenderSyncOption) RenderSync {
	rs := &renderSync{
		store: store,
		atoms: NewTable[molecule.AtomID](),
		bonds: NewTable[molecule.BondID](),
		rep:   RepresentationBallAndStick,
	}
	for _, option := range options {
		option(rs)
	}
	return rs
}

func (rs *renderSync) Load() []bind_group_provider.BufferWrite {
	rs.atoms.Clear()
	rs.bonds.Clear()
	rs.selected = nil

	atoms := rs.store.Atoms()
	atomData := make([]byte, len(atoms)*AtomInstanceSize)
	for _, atom := range atoms {
		slot, _ := rs.atoms.Acquire(atom.ID)
		inst := AtomInstanceFor(atom, rs.rep, false)
		copy(atomData[slot*AtomInstanceSize:], inst.Marshal())
	}

	bonds := rs.store.Bonds()
	bondData := make([]byte, len(bonds)*BondInstanceSize)
	for _, bond := range bonds {
		slot, _ := rs.bonds.Acquire(bond.ID)
		copy(bondData[slot*BondInstanceSize:], rs.bondRecord(bond))
	}

	var writes []bind_group_provider.BufferWrite
	if len(atomData) > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: rs.atomProvider,
			Binding:  InstanceBinding,
			Offset:   0,
			Data:     atomData,
		})
	}
	if len(bondData) > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: rs.bondProvider,
			Binding:  InstanceBinding,
			Offset:   0,
			Data:     bondData,
		})
	}
	return writes
}

func (rs *renderSync) OnChange(feed molecule.ChangeFeed) []bind_group_provider.BufferWrite {
	var writes []bind_group_provider.BufferWrite
	for _, delta := range feed {
		switch d := delta.(type) {
		case molecule.AtomAdded:
			slot, _ := rs.atoms.Acquire(d.Atom.ID)
			writes = append(writes, rs.atomWrite(d.Atom, slot))

		case molecule.AtomMoved:
			if atom, ok := rs.store.Atom(d.ID); ok {
				if slot, ok := rs.atoms.Slot(d.ID); ok {
					writes = append(writes, rs.atomWrite(atom, slot))
				}
				// Incident bond geometry depends on the endpoint position.
				for _, bond := range rs.store.BondsOf(d.ID) {
					if slot, ok := rs.bonds.Slot(bond.ID); ok {
						writes = append(writes, rs.bondWrite(bond, slot))
					}
				}
			}

		case molecule.AtomRemoved:
			for _, bond := range d.RemovedBonds {
				if slot, ok := rs.bonds.Release(bond.ID); ok {
					writes = append(writes, rs.zeroWrite(rs.bondProvider, slot, BondInstanceSize))
				}
			}
			if slot, ok := rs.atoms.Release(d.Atom.ID); ok {
				writes = append(writes, rs.zeroWrite(rs.atomProvider, slot, AtomInstanceSize))
			}
			if rs.selected != nil && *rs.selected == d.Atom.ID {
				rs.selected = nil
			}

		case molecule.BondAdded:
			slot, _ := rs.bonds.Acquire(d.Bond.ID)
			writes = append(writes, rs.bondWrite(d.Bond, slot))

		case molecule.BondRemoved:
			if slot, ok := rs.bonds.Release(d.Bond.ID); ok {
				writes = append(writes, rs.zeroWrite(rs.bondProvider, slot, BondInstanceSize))
			}
		}
	}
	return writes
}

func (rs *renderSync) SetSelection(id *molecule.AtomID) []bind_group_provider.BufferWrite {
	var writes []bind_group_provider.BufferWrite
	if rs.selected != nil && (id == nil || *id != *rs.selected) {
		if slot, ok := rs.atoms.Slot(*rs.selected); ok {
			writes = append(writes, rs.flagWrite(slot, 0))
		}
	}
	if id != nil && (rs.selected == nil || *rs.selected != *id) {
		if slot, ok := rs.atoms.Slot(*id); ok {
			writes = append(writes, rs.flagWrite(slot, FlagSelected))
		}
	}
	if id == nil {
		rs.selected = nil
	} else {
		selected := *id
		rs.selected = &selected
	}
	return writes
}

func (rs *renderSync) Selection() *molecule.AtomID {
	return rs.selected
}

func (rs *renderSync) SetCamera(viewProj [16]float32, position [3]float32) bind_group_provider.BufferWrite {
	uniform := CameraUniform{
		ViewProj:  viewProj,
		CameraPos: [4]float32{position[0], position[1], position[2], 1},
	}
	return bind_group_provider.BufferWrite{
		Provider: rs.cameraProvider,
		Binding:  CameraBinding,
		Offset:   0,
		Data:     uniform.Marshal(),
	}
}

func (rs *renderSync) SetRepresentation(rep Representation) []bind_group_provider.BufferWrite {
	if rep == rs.rep {
		return nil
	}
	rs.rep = rep

	entries := rs.atoms.Entries()
	writes := make([]bind_group_provider.BufferWrite, 0, len(entries))
	for _, entry := range entries {
		if atom, ok := rs.store.Atom(entry.Key); ok {
			writes = append(writes, rs.atomWrite(atom, entry.Slot))
		}
	}
	return writes
}

func (rs *renderSync) Representation() Representation {
	return rs.rep
}

func (rs *renderSync) AtomDrawCount() int {
	return rs.atoms.HighWater()
}

func (rs *renderSync) BondDrawCount() int {
	if rs.rep == RepresentationSpaceFilling {
		return 0
	}
	return rs.bonds.HighWater()
}

func (rs *renderSync) AtomCapacity() int {
	return rs.atoms.Capacity()
}

func (rs *renderSync) BondCapacity() int {
	return rs.bonds.Capacity()
}

func (rs *renderSync) AtomSlot(id molecule.AtomID) (int, bool) {
	return rs.atoms.Slot(id)
}

// atomWrite builds the full-record write for one atom slot.
func (rs *renderSync) atomWrite(atom molecule.Atom, slot int) bind_group_provider.BufferWrite {
	selected := rs.selected != nil && *rs.selected == atom.ID
	inst := AtomInstanceFor(atom, rs.rep, selected)
	return bind_group_provider.BufferWrite{
		Provider: rs.atomProvider,
		Binding:  InstanceBinding,
		Offset:   uint64(slot * AtomInstanceSize),
		Data:     inst.Marshal(),
	}
}

// bondWrite builds the full-record write for one bond slot.
func (rs *renderSync) bondWrite(bond molecule.Bond, slot int) bind_group_provider.BufferWrite {
	return bind_group_provider.BufferWrite{
		Provider: rs.bondProvider,
		Binding:  InstanceBinding,
		Offset:   uint64(slot * BondInstanceSize),
		Data:     rs.bondRecord(bond),
	}
}

// bondRecord marshals a bond's instance data from its endpoints' current
// positions.
func (rs *renderSync) bondRecord(bond molecule.Bond) []byte {
	a, _ := rs.store.Atom(bond.A)
	b, _ := rs.store.Atom(bond.B)
	inst := BondInstanceFor(a.Position, b.Position)
	return inst.Marshal()
}

// zeroWrite zeroes a vacated slot so its stale record no longer rasterizes.
func (rs *renderSync) zeroWrite(provider bind_group_provider.BindGroupProvider, slot, stride int) bind_group_provider.BufferWrite {
	return bind_group_provider.BufferWrite{
		Provider: provider,
		Binding:  InstanceBinding,
		Offset:   uint64(slot * stride),
		Data:     make([]byte, stride),
	}
}

// flagWrite patches only the 4-byte flag field of an atom slot.
func (rs *renderSync) flagWrite(slot int, flags uint32) bind_group_provider.BufferWrite {
	data := []byte{byte(flags), byte(flags >> 8), byte(flags >> 16), byte(flags >> 24)}
	return bind_group_provider.BufferWrite{
		Provider: rs.atomProvider,
		Binding:  InstanceBinding,
		Offset:   uint64(slot*AtomInstanceSize + atomFlagsOffset),
		Data:     data,
	}
}
