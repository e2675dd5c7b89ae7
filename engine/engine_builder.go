package engine

import (
	"time"

	"github.com/Carmen-Shannon/mol-go/engine/camera"
	"github.com/Carmen-Shannon/mol-go/engine/renderer"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/mol-go/engine/viewer"
	"github.com/Carmen-Shannon/mol-go/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets a pre-configured window for the engine to use.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer the engine drives each frame.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the camera whose view-projection feeds the shared uniform
// buffer and whose controller receives orbit and zoom input.
//
// Parameters:
//   - c: the camera instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.cam = c
	}
}

// WithSession sets the editing session the engine drives.
//
// Parameters:
//   - s: the session instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSession(s viewer.Session) EngineBuilderOption {
	return func(e *engine) {
		e.session = s
	}
}

// WithAtomDraw sets the mesh and instance providers for the atom draw call.
// The instance provider must be the one the session's sync layer targets.
//
// Parameters:
//   - mesh: provider holding the sphere vertex and index buffers
//   - instances: provider holding the atom instance buffer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAtomDraw(mesh, instances bind_group_provider.BindGroupProvider) EngineBuilderOption {
	return func(e *engine) {
		e.atomMesh = mesh
		e.atomInstances = instances
	}
}

// WithBondDraw sets the mesh and instance providers for the bond draw call.
// The instance provider must be the one the session's sync layer targets.
//
// Parameters:
//   - mesh: provider holding the cylinder vertex and index buffers
//   - instances: provider holding the bond instance buffer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBondDraw(mesh, instances bind_group_provider.BindGroupProvider) EngineBuilderOption {
	return func(e *engine) {
		e.bondMesh = mesh
		e.bondInstances = instances
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
