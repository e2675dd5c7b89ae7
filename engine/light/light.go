package light

import "math"

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction [3]float32
	color     [3]float32
	intensity float32
	ambient   float32
}

// Light defines the interface for the viewer's directional key light.
//
// A single distant light is enough for molecular shading: it gives every
// sphere and cylinder a consistent lit side, and the ambient term keeps the
// dark side readable instead of black. The light is marshaled into a uniform
// buffer shared with the camera and written once at startup (and again only
// when changed).
type Light interface {
	// Direction returns the normalized world-space direction the light travels in.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the diffuse term.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Ambient returns the ambient contribution in [0, 1] applied uniformly to
	// all fragments regardless of orientation.
	//
	// Returns:
	//   - float32: the ambient strength
	Ambient() float32

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetAmbient sets the ambient contribution.
	//
	// Parameters:
	//   - ambient: the ambient strength in [0, 1]
	SetAmbient(ambient float32)
}

var _ Light = &lightImpl{}

// NewLight creates a new directional Light with sensible defaults and any
// provided options applied. The default light comes over the viewer's left
// shoulder so sphere silhouettes read clearly against the dark background.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: normalize3(-0.4, -0.6, -0.7),
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		ambient:   0.25,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.ambient = ambient
}

// normalize3 returns the unit vector for (x, y, z), or the zero vector when
// the input has no length.
func normalize3(x, y, z float32) [3]float32 {
	length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if length < 1e-8 {
		return [3]float32{}
	}
	return [3]float32{x / length, y / length, z / length}
}
