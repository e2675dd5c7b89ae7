package mesh

import "github.com/cogentcore/webgpu/wgpu"

// VertexLayout returns the per-vertex buffer layout for the unit meshes,
// bound at vertex buffer slot 0.
//
// Returns:
//   - wgpu.VertexBufferLayout: the mesh vertex layout
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(GPUVertexSize),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}
