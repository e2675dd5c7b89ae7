package instance

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/mol-go/engine/molecule"
)

// Display constants for the two representation modes. Units are angstroms.
const (
	// BallAndStickRadius is the sphere radius for atoms in ball-and-stick mode.
	BallAndStickRadius = 0.5
	// SpaceFillRadius is the sphere radius for atoms in space-filling mode.
	SpaceFillRadius = 0.9
	// BondRadius is the cylinder radius for bonds.
	BondRadius = 0.15
)

// FlagSelected is the instance flag bit marking the selected atom. The
// fragment shader brightens flagged instances.
const FlagSelected uint32 = 0x1

// Representation selects how the structure is displayed.
type Representation int

const (
	// RepresentationBallAndStick draws small atom spheres plus bond cylinders.
	RepresentationBallAndStick Representation = iota

	// RepresentationSpaceFilling draws large atom spheres and hides bonds.
	RepresentationSpaceFilling
)

// AtomInstance is the GPU-aligned per-instance record for one rendered atom.
// Matches the WGSL AtomInstance struct layout exactly.
// Size: 32 bytes (std430 aligned, no padding required).
type AtomInstance struct {
	Position [3]float32 // offset  0: sphere center in world space (12 bytes)
	Radius   float32    // offset 12: sphere radius (4 bytes)
	Color    [3]float32 // offset 16: base RGB color (12 bytes)
	Flags    uint32     // offset 28: highlight flags (4 bytes)
}

// AtomInstanceSize is the byte stride of one AtomInstance in the buffer.
const AtomInstanceSize = int(unsafe.Sizeof(AtomInstance{}))

// Marshal serializes the AtomInstance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (a *AtomInstance) Marshal() []byte {
	buf := make([]byte, AtomInstanceSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(a.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(a.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(a.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(a.Radius))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(a.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(a.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(a.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], a.Flags)
	return buf
}

// BondInstance is the GPU-aligned per-instance record for one rendered bond
// cylinder. Matches the WGSL BondInstance struct layout exactly.
// Size: 48 bytes (std430 aligned, no padding required).
type BondInstance struct {
	Midpoint  [3]float32 // offset  0: cylinder center in world space (12 bytes)
	Length    float32    // offset 12: cylinder length (4 bytes)
	Direction [3]float32 // offset 16: unit axis from endpoint A to B (12 bytes)
	Radius    float32    // offset 28: cylinder radius (4 bytes)
	Color     [3]float32 // offset 32: base RGB color (12 bytes)
	Flags     uint32     // offset 44: highlight flags (4 bytes)
}

// BondInstanceSize is the byte stride of one BondInstance in the buffer.
const BondInstanceSize = int(unsafe.Sizeof(BondInstance{}))

// Marshal serializes the BondInstance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (b *BondInstance) Marshal() []byte {
	buf := make([]byte, BondInstanceSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(b.Midpoint[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(b.Midpoint[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(b.Midpoint[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(b.Length))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(b.Direction[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(b.Direction[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(b.Direction[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(b.Radius))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(b.Color[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(b.Color[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(b.Color[2]))
	binary.LittleEndian.PutUint32(buf[44:48], b.Flags)
	return buf
}

// CameraUniform is the GPU-aligned camera uniform block shared by both
// render pipelines.
// Size: 80 bytes (64-byte column-major view-projection + 16-byte position).
type CameraUniform struct {
	ViewProj  [16]float32 // offset  0: combined view-projection matrix (64 bytes)
	CameraPos [4]float32  // offset 64: camera world position, w unused (16 bytes)
}

// CameraUniformSize is the byte size of the camera uniform block.
const CameraUniformSize = int(unsafe.Sizeof(CameraUniform{}))

// Marshal serializes the CameraUniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (c *CameraUniform) Marshal() []byte {
	buf := make([]byte, CameraUniformSize)
	for i, v := range c.ViewProj {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	for i, v := range c.CameraPos {
		binary.LittleEndian.PutUint32(buf[64+i*4:64+i*4+4], math.Float32bits(v))
	}
	return buf
}

// AtomRadiusFor returns the sphere radius for a species under a
// representation mode.
//
// Parameters:
//   - species: the atom's species
//   - rep: the active representation
//
// Returns:
//   - float32: the sphere radius
func AtomRadiusFor(species molecule.Species, rep Representation) float32 {
	if rep == RepresentationSpaceFilling {
		// Scale by covalent radius so heavier elements read larger, with
		// carbon as the reference size.
		return SpaceFillRadius * molecule.Info(species).CovalentRadius / 0.76
	}
	return BallAndStickRadius
}

// AtomInstanceFor builds the instance record for an atom.
//
// Parameters:
//   - atom: the atom to render
//   - rep: the active representation
//   - selected: whether the atom is the current selection
//
// Returns:
//   - AtomInstance: the instance record
func AtomInstanceFor(atom molecule.Atom, rep Representation, selected bool) AtomInstance {
	inst := AtomInstance{
		Position: atom.Position,
		Radius:   AtomRadiusFor(atom.Species, rep),
		Color:    molecule.Info(atom.Species).Color,
	}
	if selected {
		inst.Flags |= FlagSelected
	}
	return inst
}

// BondInstanceFor builds the instance record for a bond between two atom
// positions. Degenerate bonds (coincident endpoints) produce a zero-length
// cylinder that does not rasterize.
//
// Parameters:
//   - a: position of the first endpoint
//   - b: position of the second endpoint
//
// Returns:
//   - BondInstance: the instance record
func BondInstanceFor(a, b [3]float32) BondInstance {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	dz := b[2] - a[2]
	length := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))

	inst := BondInstance{
		Midpoint: [3]float32{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2},
		Length:   length,
		Radius:   BondRadius,
		Color:    [3]float32{0.55, 0.55, 0.55},
	}
	if length > 1e-6 {
		inst.Direction = [3]float32{dx / length, dy / length, dz / length}
	}
	return inst
}
