package instance

import "github.com/cogentcore/webgpu/wgpu"

// AtomVertexLayout returns the per-instance vertex buffer layout for the atom
// instance stream, bound at vertex buffer slot 1 behind the mesh geometry.
// Shader locations continue from the mesh layout's position and normal.
//
// Returns:
//   - wgpu.VertexBufferLayout: the atom instance layout
func AtomVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(AtomInstanceSize),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 4},
			{Format: wgpu.VertexFormatUint32, Offset: 28, ShaderLocation: 5},
		},
	}
}

// BondVertexLayout returns the per-instance vertex buffer layout for the bond
// instance stream, bound at vertex buffer slot 1 behind the mesh geometry.
//
// Returns:
//   - wgpu.VertexBufferLayout: the bond instance layout
func BondVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(BondInstanceSize),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 4},
			{Format: wgpu.VertexFormatFloat32, Offset: 28, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: 6},
			{Format: wgpu.VertexFormatUint32, Offset: 44, ShaderLocation: 7},
		},
	}
}
