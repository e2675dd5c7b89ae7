package shader

import (
	"fmt"
	"os"
	"regexp"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which render pipeline stage a shader occupies.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

var (
	vertexEntryRegex   = regexp.MustCompile(`@vertex\s+fn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`@fragment\s+fn\s+(\w+)`)
	lineCommentRegex   = regexp.MustCompile(`//[^\n]*`)
)

// shader is the implementation of the Shader interface.
// It holds the WGSL source together with the CPU-side layout descriptors the
// renderer needs for pipeline creation. Layouts are declared in Go via the
// builder options rather than recovered from the source text, so the WGSL and
// the Go instance structs stay in agreement by construction.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a loaded WGSL shader. It exposes the shader's
// unique key, source code, entry point, bind group layout descriptors, and vertex
// buffer layouts needed for pipeline creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point name parsed from the shader source.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// ShaderType returns the type of the shader (vertex or fragment).
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a specific group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group, or an empty descriptor if not set
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all declared bind group layout descriptors.
	// These are the CPU-side descriptors the renderer uses to create the actual
	// wgpu.BindGroupLayout GPU objects.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts retrieves the vertex buffer layouts declared for this shader,
	// ordered by vertex buffer slot.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts, or nil for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor for this shader, built during NewShader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader by reading WGSL source from the given file path.
// The entry point name is parsed from the source based on the shader type. Vertex
// buffer layouts and bind group layouts must be declared via the builder options;
// they are not inferred from the source.
//
// Panics if the source file cannot be read or contains no entry point for the
// shader type, since a missing shader asset is unrecoverable at startup.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the type of shader (vertex or fragment)
//   - sourcePath: the file path to read WGSL source from
//   - options: variadic list of ShaderBuilderOption functions declaring layouts
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, sourcePath string, options ...ShaderBuilderOption) Shader {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to read source file %q: %v", sourcePath, err))
	}

	s := &shader{
		key:                        key,
		source:                     string(data),
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	s.entryPoint = parseEntryPoint(s.source, shaderType)
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: no entry point for shader type %d found in %q", shaderType, sourcePath))
	}

	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parseEntryPoint finds the entry point function name for the given shader type
// by matching the @vertex or @fragment attribute in comment-stripped source.
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := lineCommentRegex.ReplaceAllString(source, "")

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}
