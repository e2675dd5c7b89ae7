package mesh

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSphereGeometry(t *testing.T) {
	m := NewUVSphere(SphereSegments, SphereRings)

	wantVerts := (SphereRings + 1) * (SphereSegments + 1)
	if m.VertexCount() != wantVerts {
		t.Fatalf("vertex count %d, want %d", m.VertexCount(), wantVerts)
	}
	wantIndices := SphereRings * SphereSegments * 6
	if m.IndexCount() != wantIndices {
		t.Fatalf("index count %d, want %d", m.IndexCount(), wantIndices)
	}
	if len(m.VertexData()) != wantVerts*GPUVertexSize {
		t.Fatalf("vertex data %d bytes, want %d", len(m.VertexData()), wantVerts*GPUVertexSize)
	}

	// Every index must reference a real vertex.
	for off := 0; off < len(m.IndexData()); off += 4 {
		idx := binary.LittleEndian.Uint32(m.IndexData()[off:])
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range at offset %d", idx, off)
		}
	}

	// Unit sphere vertices sit on the unit shell.
	for off := 0; off < len(m.VertexData()); off += GPUVertexSize {
		x := math.Float32frombits(binary.LittleEndian.Uint32(m.VertexData()[off:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(m.VertexData()[off+4:]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(m.VertexData()[off+8:]))
		r := math.Sqrt(float64(x*x + y*y + z*z))
		if math.Abs(r-1) > 1e-5 {
			t.Fatalf("vertex at offset %d has radius %f", off, r)
		}
	}
}

func TestCylinderGeometry(t *testing.T) {
	m := NewCylinder(CylinderSegments)

	wantVerts := 2 * (CylinderSegments + 1)
	if m.VertexCount() != wantVerts {
		t.Fatalf("vertex count %d, want %d", m.VertexCount(), wantVerts)
	}
	if m.IndexCount() != CylinderSegments*6 {
		t.Fatalf("index count %d, want %d", m.IndexCount(), CylinderSegments*6)
	}

	// All vertices lie on the unit-radius shell at y = ±0.5 and their
	// normals are horizontal unit vectors.
	for off := 0; off < len(m.VertexData()); off += GPUVertexSize {
		y := math.Float32frombits(binary.LittleEndian.Uint32(m.VertexData()[off+4:]))
		if y != 0.5 && y != -0.5 {
			t.Fatalf("vertex y %f, want ±0.5", y)
		}
		ny := math.Float32frombits(binary.LittleEndian.Uint32(m.VertexData()[off+16:]))
		if ny != 0 {
			t.Fatalf("cylinder side normal has vertical component %f", ny)
		}
	}
}

func TestDegenerateTessellationClamped(t *testing.T) {
	if m := NewUVSphere(1, 1); m.IndexCount() == 0 {
		t.Fatal("sphere with degenerate tessellation must clamp, not vanish")
	}
	if m := NewCylinder(0); m.IndexCount() == 0 {
		t.Fatal("cylinder with degenerate tessellation must clamp, not vanish")
	}
}
