package mesh

import (
	"encoding/binary"
	"math"
)

// Default tessellation levels for the two unit meshes. The instance shaders
// scale and orient these; the meshes themselves are generated once.
const (
	// SphereSegments is the default longitudinal resolution of the unit sphere.
	SphereSegments = 32
	// SphereRings is the default latitudinal resolution of the unit sphere.
	SphereRings = 16
	// CylinderSegments is the default radial resolution of the unit cylinder.
	CylinderSegments = 24
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	vertexData []byte
	indexData  []byte
	indexCount int
	vertexCnt  int
}

// Mesh is a GPU-ready indexed triangle list: marshalled GPUVertex data plus
// little-endian uint32 indices. Instances of a mesh are positioned, scaled
// and oriented entirely in the vertex shader from per-instance records.
type Mesh interface {
	// VertexData returns the marshalled vertex buffer contents.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the marshalled index buffer contents.
	//
	// Returns:
	//   - []byte: the index data (uint32, little-endian)
	IndexData() []byte

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int
}

var _ Mesh = &mesh{}

// NewUVSphere generates a unit-radius UV sphere centered on the origin.
//
// Parameters:
//   - segments: longitudinal subdivisions (minimum 3)
//   - rings: latitudinal subdivisions (minimum 2)
//
// Returns:
//   - Mesh: the generated sphere
func NewUVSphere(segments, rings int) Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []GPUVertex
	for ring := 0; ring <= rings; ring++ {
		phi := math.Pi * float64(ring) / float64(rings)
		y := float32(math.Cos(phi))
		ringRadius := float32(math.Sin(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			x := ringRadius * float32(math.Cos(theta))
			z := ringRadius * float32(math.Sin(theta))
			// A unit sphere's normal equals its position.
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{x, y, z},
				Normal:   [3]float32{x, y, z},
			})
		}
	}

	var indices []uint32
	stride := uint32(segments + 1)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := uint32(ring)*stride + uint32(seg)
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return build(vertices, indices)
}

// NewCylinder generates an open-ended unit cylinder along the Y axis,
// radius 1, spanning y in [-0.5, 0.5]. End caps are omitted: bond cylinders
// terminate inside atom spheres, so caps would never be visible.
//
// Parameters:
//   - segments: radial subdivisions (minimum 3)
//
// Returns:
//   - Mesh: the generated cylinder
func NewCylinder(segments int) Mesh {
	if segments < 3 {
		segments = 3
	}

	var vertices []GPUVertex
	for _, y := range [2]float32{-0.5, 0.5} {
		for seg := 0; seg <= segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			x := float32(math.Cos(theta))
			z := float32(math.Sin(theta))
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{x, y, z},
				Normal:   [3]float32{x, 0, z},
			})
		}
	}

	var indices []uint32
	stride := uint32(segments + 1)
	for seg := 0; seg < segments; seg++ {
		a := uint32(seg)
		b := a + stride
		indices = append(indices, a, b, a+1, a+1, b, b+1)
	}

	return build(vertices, indices)
}

// build marshals vertices and indices into GPU-ready byte buffers.
func build(vertices []GPUVertex, indices []uint32) Mesh {
	vertexData := make([]byte, 0, len(vertices)*GPUVertexSize)
	for i := range vertices {
		vertexData = append(vertexData, vertices[i].Marshal()...)
	}
	indexData := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(indexData[i*4:], idx)
	}
	return &mesh{
		vertexData: vertexData,
		indexData:  indexData,
		indexCount: len(indices),
		vertexCnt:  len(vertices),
	}
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) VertexCount() int {
	return m.vertexCnt
}
