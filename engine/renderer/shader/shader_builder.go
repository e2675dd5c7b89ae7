package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithVertexLayouts declares the vertex buffer layouts for this shader, ordered
// by vertex buffer slot. Only meaningful for vertex shaders; the layouts must
// match the struct inputs declared in the WGSL source.
//
// Parameters:
//   - layouts: the vertex buffer layouts, one per vertex buffer slot
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex buffer layouts for this shader
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}

// WithBindGroupLayout declares the bind group layout descriptor for a group index.
// The descriptor must match the @group declarations in the WGSL source.
//
// Parameters:
//   - group: the bind group index this descriptor applies to
//   - descriptor: the layout descriptor for the group
//
// Returns:
//   - ShaderBuilderOption: a function that sets the bind group layout descriptor for this shader
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}
