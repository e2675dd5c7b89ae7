package main

import (
	"flag"
	"log"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/mol-go/engine"
	"github.com/Carmen-Shannon/mol-go/engine/camera"
	"github.com/Carmen-Shannon/mol-go/engine/history"
	"github.com/Carmen-Shannon/mol-go/engine/instance"
	"github.com/Carmen-Shannon/mol-go/engine/light"
	"github.com/Carmen-Shannon/mol-go/engine/mesh"
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/renderer"
	bgp "github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/mol-go/engine/viewer"
	"github.com/Carmen-Shannon/mol-go/engine/window"
)

func main() {
	configPath := flag.String("config", "molview.yml", "path to the viewer config file")
	inputPath := flag.String("open", "", "XYZ file to open (overrides the config)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)

	rendererOptions := []renderer.RendererBuilderOption{
		renderer.WithMSAA(msaaFor(cfg.Render.MSAA)),
	}
	if cfg.Render.PresentMode == "uncapped" {
		rendererOptions = append(rendererOptions, renderer.WithPresentMode(renderer.PresentModeUncapped))
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions...)

	// Group 0 is shared by both pipelines: the camera uniform feeds the
	// vertex stage and the light uniform feeds the fragment stage.
	sceneLayout := wgpu.BindGroupLayoutDescriptor{
		Label: "scene_uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    uint32(instance.CameraBinding),
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    uint32(instance.LightBinding),
				Visibility: wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	}

	atomVert := shader.NewShader("atom_vert", shader.ShaderTypeVertex, cfg.Shaders.Atom,
		shader.WithVertexLayouts(mesh.VertexLayout(), instance.AtomVertexLayout()),
		shader.WithBindGroupLayout(0, sceneLayout),
	)
	atomFrag := shader.NewShader("atom_frag", shader.ShaderTypeFragment, cfg.Shaders.Atom)
	bondVert := shader.NewShader("bond_vert", shader.ShaderTypeVertex, cfg.Shaders.Bond,
		shader.WithVertexLayouts(mesh.VertexLayout(), instance.BondVertexLayout()),
		shader.WithBindGroupLayout(0, sceneLayout),
	)
	bondFrag := shader.NewShader("bond_frag", shader.ShaderTypeFragment, cfg.Shaders.Bond)

	if err := r.RegisterPipelines(
		pipeline.NewPipeline(engine.AtomPipelineKey,
			pipeline.WithVertexShader(atomVert),
			pipeline.WithFragmentShader(atomFrag),
		),
		pipeline.NewPipeline(engine.BondPipelineKey,
			pipeline.WithVertexShader(bondVert),
			pipeline.WithFragmentShader(bondFrag),
		),
	); err != nil {
		log.Fatalf("register pipelines: %v", err)
	}

	// Shared camera and light uniforms live on one provider.
	sceneProvider := bgp.NewBindGroupProvider("scene_uniforms")
	if err := r.InitBindGroup(sceneProvider, sceneLayout, map[int]uint64{
		instance.CameraBinding: uint64(instance.CameraUniformSize),
		instance.LightBinding:  uint64(light.LightUniformSize),
	}); err != nil {
		log.Fatalf("init scene uniforms: %v", err)
	}

	// Unit meshes; instances scale and orient them in the vertex shader.
	sphere := mesh.NewUVSphere(mesh.SphereSegments, mesh.SphereRings)
	cylinder := mesh.NewCylinder(mesh.CylinderSegments)

	atomMesh := bgp.NewBindGroupProvider("atom_mesh")
	if err := r.InitMeshBuffers(atomMesh, sphere.VertexData(), sphere.IndexData(), sphere.IndexCount()); err != nil {
		log.Fatalf("init sphere mesh: %v", err)
	}
	bondMesh := bgp.NewBindGroupProvider("bond_mesh")
	if err := r.InitMeshBuffers(bondMesh, cylinder.VertexData(), cylinder.IndexData(), cylinder.IndexCount()); err != nil {
		log.Fatalf("init cylinder mesh: %v", err)
	}

	store := molecule.NewStore()
	atomInstances := bgp.NewBindGroupProvider("atom_instances")
	bondInstances := bgp.NewBindGroupProvider("bond_instances")
	sync := instance.NewRenderSync(store,
		instance.WithAtomProvider(atomInstances),
		instance.WithBondProvider(bondInstances),
		instance.WithCameraProvider(sceneProvider),
		instance.WithRepresentation(representationFor(cfg.Render.Representation)),
	)
	if err := r.InitInstanceBuffer(atomInstances, instance.InstanceBinding,
		uint64(sync.AtomCapacity()*instance.AtomInstanceSize)); err != nil {
		log.Fatalf("init atom instances: %v", err)
	}
	if err := r.InitInstanceBuffer(bondInstances, instance.InstanceBinding,
		uint64(sync.BondCapacity()*instance.BondInstanceSize)); err != nil {
		log.Fatalf("init bond instances: %v", err)
	}

	// The key light never changes at runtime, so its uniform is written once.
	keyLight := light.NewLight()
	lightUniform := light.UniformFor(keyLight)
	r.WriteBuffers([]bgp.BufferWrite{{
		Provider: sceneProvider,
		Binding:  instance.LightBinding,
		Offset:   0,
		Data:     lightUniform.Marshal(),
	}})

	session := viewer.NewSession(
		viewer.WithStore(store),
		viewer.WithSync(sync),
		viewer.WithHistory(history.NewEngine(store, history.WithCapacity(cfg.Editor.HistoryCapacity))),
		viewer.WithPlaceDepth(cfg.Editor.PlaceDepth),
	)

	cam := camera.NewCamera(
		camera.WithFov(float32(45.0*math.Pi/180.0)),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithNear(0.1),
		camera.WithFar(500),
		camera.WithBindGroupProvider(sceneProvider),
		camera.WithController(camera.NewCameraController(
			camera.WithTarget(0, 0, 0),
		)),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(cam),
		engine.WithSession(session),
		engine.WithAtomDraw(atomMesh, atomInstances),
		engine.WithBondDraw(bondMesh, bondInstances),
		engine.WithProfiling(cfg.Profiling),
		engine.WithTickRate(cfg.TickRate),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
	)

	if cfg.Input.Path != "" {
		if cfg.Input.Watch {
			if err := session.Watch(cfg.Input.Path); err != nil {
				log.Printf("watch %s: %v", cfg.Input.Path, err)
			}
		}
		session.Open(cfg.Input.Path)
	}

	eng.Run()
}

// msaaFor maps a config sample count onto a supported MSAA level, falling
// back to 4x for unrecognized values.
func msaaFor(samples uint32) renderer.MSAASampleCount {
	switch samples {
	case 1:
		return renderer.MSAAOff
	case 4:
		return renderer.MSAA4x
	case 8:
		return renderer.MSAA8x
	case 16:
		return renderer.MSAA16x
	default:
		return renderer.MSAA4x
	}
}

// representationFor maps the config string onto a display mode.
func representationFor(name string) instance.Representation {
	if name == "space-filling" {
		return instance.RepresentationSpaceFilling
	}
	return instance.RepresentationBallAndStick
}
