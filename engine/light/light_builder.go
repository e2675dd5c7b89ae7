package light

// LightBuilderOption is a functional option used to configure a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection sets the light direction. The vector is normalized.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that sets the light direction
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize3(x, y, z)
	}
}

// WithColor sets the RGB color of the light.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - LightBuilderOption: a function that sets the light color
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity sets the scalar intensity multiplier for the diffuse term.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that sets the light intensity
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithAmbient sets the ambient contribution applied uniformly to all fragments.
//
// Parameters:
//   - ambient: the ambient strength in [0, 1]
//
// Returns:
//   - LightBuilderOption: a function that sets the ambient strength
func WithAmbient(ambient float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = ambient
	}
}
