package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/mol-go/common"
	"github.com/Carmen-Shannon/mol-go/engine/camera"
	"github.com/Carmen-Shannon/mol-go/engine/instance"
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/profiler"
	"github.com/Carmen-Shannon/mol-go/engine/renderer"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/mol-go/engine/viewer"
	"github.com/Carmen-Shannon/mol-go/engine/window"
)

// Pipeline cache keys for the two instanced draw calls. Register pipelines
// under these keys before calling Run.
const (
	AtomPipelineKey = "atom"
	BondPipelineKey = "bond"
)

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads around one editing session.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	cam      camera.Camera
	session  viewer.Session

	// Instanced draw resources. The instance providers must be the same
	// providers the session's sync layer writes into.
	atomMesh      bind_group_provider.BindGroupProvider
	bondMesh      bind_group_provider.BindGroupProvider
	atomInstances bind_group_provider.BindGroupProvider
	bondInstances bind_group_provider.BindGroupProvider

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// Input state shared between window callbacks.
	inputMu    sync.Mutex
	dragging   bool
	middleDown bool
	lastMouseX int32
	lastMouseY int32

	lastStatus string
}

// Engine is the main entry point for the viewer.
// It orchestrates the tick loop, render loop, window management, and input
// routing into the editing session.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Session returns the editing session the engine drives.
	//
	// Returns:
	//   - viewer.Session: the session instance
	Session() viewer.Session

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for input polling and periodic housekeeping.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame,
	// after the frame has been presented.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop (blocks until window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Wires the resize callback and input routing when a window is present.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
			if e.cam != nil {
				e.cam.SetAspect(float32(width) / float32(height))
			}
		})
		if e.session != nil && e.cam != nil {
			e.wireInput()
		}
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Session() viewer.Session {
	return e.session
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	if e.session != nil {
		if err := e.session.Close(); err != nil {
			log.Printf("session close: %v", err)
		}
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.running = true
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.logStatus()

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Each frame: poll for completed structure loads, update the camera, flush the
// session's queued buffer writes, and issue the two instanced draw calls.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame()

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame runs one full frame: session upkeep, buffer flush, and draws.
func (e *engine) renderFrame() {
	if e.renderer == nil || e.session == nil || e.cam == nil {
		return
	}

	e.session.PollLoad()

	e.cam.Update()
	px, py, pz := e.cam.Controller().Position()
	e.session.UpdateCamera(e.cam.ViewProjectionMatrix(), [3]float32{px, py, pz})

	rs := e.session.Sync()
	if writes := e.session.DrainWrites(); len(writes) > 0 {
		// Grow instance buffers before applying writes so every queued
		// slot offset is in range. Growth preserves existing contents.
		if e.atomInstances != nil {
			size := uint64(rs.AtomCapacity() * instance.AtomInstanceSize)
			if err := e.renderer.EnsureInstanceCapacity(e.atomInstances, instance.InstanceBinding, size); err != nil {
				log.Printf("atom instance buffer grow: %v", err)
			}
		}
		if e.bondInstances != nil {
			size := uint64(rs.BondCapacity() * instance.BondInstanceSize)
			if err := e.renderer.EnsureInstanceCapacity(e.bondInstances, instance.InstanceBinding, size); err != nil {
				log.Printf("bond instance buffer grow: %v", err)
			}
		}
		e.renderer.WriteBuffers(writes)
	}

	if err := e.renderer.BeginFrame(); err != nil {
		switch renderer.SurfaceErrorActionFor(err) {
		case renderer.SurfaceActionReconfigure:
			e.renderer.Resize(e.window.Width(), e.window.Height())
		case renderer.SurfaceActionFatal:
			log.Printf("unrecoverable surface error: %v", err)
			e.signalQuit()
		}
		// Timeout and reconfigure both skip this frame's draws.
		return
	}

	sharedGroups := []bind_group_provider.BindGroupProvider{e.cam.BindGroupProvider()}

	if count := rs.AtomDrawCount(); count > 0 {
		if err := e.renderer.DrawInstanced(AtomPipelineKey, e.atomMesh, e.atomInstances, uint32(count), sharedGroups); err != nil {
			log.Printf("atom draw: %v", err)
		}
	}
	if count := rs.BondDrawCount(); count > 0 {
		if err := e.renderer.DrawInstanced(BondPipelineKey, e.bondMesh, e.bondInstances, uint32(count), sharedGroups); err != nil {
			log.Printf("bond draw: %v", err)
		}
	}

	e.renderer.EndFrame()
	e.renderer.Present()
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// logStatus logs the session status line whenever it changes.
func (e *engine) logStatus() {
	if e.session == nil {
		return
	}
	status := e.session.StatusLine()
	if status != e.lastStatus {
		log.Println(status)
		e.lastStatus = status
	}
}

// wireInput routes window events into the session and camera controller.
//
// Bindings: left mouse picks or drags per the active tool, middle mouse
// orbits, scroll zooms. Keys 1-4 switch tools, H/C/N/O pick the species,
// V toggles the representation, Z/Y undo and redo, Delete or X removes the
// selected atom, and Escape quits.
func (e *engine) wireInput() {
	w := e.window

	w.SetScrollCallback(func(delta float32) {
		e.cam.Controller().Zoom(delta)
	})

	w.SetLeftMouseDownCallback(func(x, y int32) {
		origin, dir := e.cam.ScreenRay(float32(x), float32(y), w.Width(), w.Height())
		if e.session.Tool() == viewer.ToolMove {
			e.session.BeginDrag(origin, dir)
			e.inputMu.Lock()
			e.dragging = true
			e.inputMu.Unlock()
			return
		}
		e.session.HandlePick(origin, dir)
	})

	w.SetLeftMouseUpCallback(func(x, y int32) {
		e.inputMu.Lock()
		wasDragging := e.dragging
		e.dragging = false
		e.inputMu.Unlock()
		if wasDragging {
			e.session.EndDrag()
		}
	})

	w.SetMiddleMouseDownCallback(func(x, y int32) {
		e.inputMu.Lock()
		e.middleDown = true
		e.lastMouseX, e.lastMouseY = x, y
		e.inputMu.Unlock()
	})

	w.SetMiddleMouseUpCallback(func(x, y int32) {
		e.inputMu.Lock()
		e.middleDown = false
		e.inputMu.Unlock()
	})

	w.SetMouseMoveCallback(func(x, y int32) {
		e.inputMu.Lock()
		dragging := e.dragging
		middleDown := e.middleDown
		dx := float32(x - e.lastMouseX)
		dy := float32(y - e.lastMouseY)
		e.lastMouseX, e.lastMouseY = x, y
		e.inputMu.Unlock()

		if dragging {
			origin, dir := e.cam.ScreenRay(float32(x), float32(y), w.Width(), w.Height())
			e.session.DragTo(origin, dir)
			return
		}
		if middleDown {
			ctrl := e.cam.Controller()
			ctrl.SetAzimuth(ctrl.Azimuth() + dx*ctrl.MouseSensitivity())
			ctrl.SetElevation(ctrl.Elevation() - dy*ctrl.MouseSensitivity())
		}
	})

	w.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.Key1:
			e.session.SetTool(viewer.ToolSelect)
		case common.Key2:
			e.session.SetTool(viewer.ToolAddAtom)
		case common.Key3:
			e.session.SetTool(viewer.ToolAddBond)
		case common.Key4:
			e.session.SetTool(viewer.ToolMove)
		case common.KeyH:
			e.session.SetSpecies(molecule.SpeciesHydrogen)
		case common.KeyC:
			e.session.SetSpecies(molecule.SpeciesCarbon)
		case common.KeyN:
			e.session.SetSpecies(molecule.SpeciesNitrogen)
		case common.KeyO:
			e.session.SetSpecies(molecule.SpeciesOxygen)
		case common.KeyV:
			if e.session.Sync().Representation() == instance.RepresentationBallAndStick {
				e.session.SetRepresentation(instance.RepresentationSpaceFilling)
			} else {
				e.session.SetRepresentation(instance.RepresentationBallAndStick)
			}
		case common.KeyZ:
			e.session.Undo()
		case common.KeyY:
			e.session.Redo()
		case common.KeyDelete, common.KeyX:
			e.session.DeleteSelection()
		case common.KeyQ:
			e.cam.Controller().OrbitLeft()
		case common.KeyE:
			e.cam.Controller().OrbitRight()
		case common.KeyEsc:
			e.signalQuit()
			_ = w.Close()
		}
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Send to channel for immediate update in running engine loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
