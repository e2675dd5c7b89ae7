package light

import (
	"math"
	"testing"
)

func TestNewLightNormalizesDirection(t *testing.T) {
	l := NewLight(WithDirection(0, -10, 0))
	dir := l.Direction()
	if dir != ([3]float32{0, -1, 0}) {
		t.Fatalf("direction = %v, want (0,-1,0)", dir)
	}

	l.SetDirection(3, 0, 4)
	dir = l.Direction()
	length := math.Sqrt(float64(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2]))
	if math.Abs(length-1) > 1e-6 {
		t.Errorf("direction length = %f, want 1", length)
	}
}

func TestZeroDirectionStaysZero(t *testing.T) {
	l := NewLight(WithDirection(0, 0, 0))
	if l.Direction() != ([3]float32{}) {
		t.Errorf("zero-length direction should normalize to the zero vector, got %v", l.Direction())
	}
}

func TestUniformPacksIntensityAndAmbient(t *testing.T) {
	l := NewLight(
		WithDirection(0, -1, 0),
		WithColor(0.5, 0.25, 1),
		WithIntensity(0.8),
		WithAmbient(0.3),
	)
	u := UniformFor(l)

	if u.Direction != ([4]float32{0, -1, 0, 0.8}) {
		t.Errorf("direction = %v, want intensity packed in w", u.Direction)
	}
	if u.Color != ([4]float32{0.5, 0.25, 1, 0.3}) {
		t.Errorf("color = %v, want ambient packed in w", u.Color)
	}
	if got := len(u.Marshal()); got != LightUniformSize {
		t.Errorf("marshalled size = %d, want %d", got, LightUniformSize)
	}
}
