package renderer

import "strings"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// SurfaceErrorAction tells the render loop how to respond when acquiring the
// swapchain texture fails.
type SurfaceErrorAction int

const (
	// SurfaceActionNone indicates no error occurred.
	SurfaceActionNone SurfaceErrorAction = iota

	// SurfaceActionReconfigure indicates the surface is lost or outdated and must be
	// reconfigured at the current window size before the next frame.
	SurfaceActionReconfigure

	// SurfaceActionSkipFrame indicates a transient acquisition timeout; skip this
	// frame and try again on the next one.
	SurfaceActionSkipFrame

	// SurfaceActionFatal indicates the GPU is out of memory. Not recoverable.
	SurfaceActionFatal
)

// SurfaceErrorActionFor classifies a surface acquisition error into the action
// the render loop should take. Lost and outdated surfaces want a reconfigure,
// timeouts want the frame skipped, and out-of-memory is fatal. Unrecognized
// errors are treated as a stale surface configuration.
//
// Parameters:
//   - err: the error returned by BeginFrame
//
// Returns:
//   - SurfaceErrorAction: the action the render loop should take
func SurfaceErrorActionFor(err error) SurfaceErrorAction {
	if err == nil {
		return SurfaceActionNone
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory") || strings.Contains(msg, "outofmemory"):
		return SurfaceActionFatal
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return SurfaceActionSkipFrame
	default:
		return SurfaceActionReconfigure
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
