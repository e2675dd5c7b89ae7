package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// LightUniform is the GPU-side layout of the directional light, padded to
// vec4 boundaries to satisfy WGSL uniform alignment rules.
//
// Field packing:
//   - Direction: xyz is the normalized light direction, w is the diffuse intensity
//   - Color: xyz is the light color, w is the ambient strength
type LightUniform struct {
	Direction [4]float32
	Color     [4]float32
}

// LightUniformSize is the size in bytes of the LightUniform struct.
const LightUniformSize = int(unsafe.Sizeof(LightUniform{}))

// UniformFor packs a Light into its GPU uniform layout.
//
// Parameters:
//   - l: the light to pack
//
// Returns:
//   - LightUniform: the packed uniform data
func UniformFor(l Light) LightUniform {
	dir := l.Direction()
	col := l.Color()
	return LightUniform{
		Direction: [4]float32{dir[0], dir[1], dir[2], l.Intensity()},
		Color:     [4]float32{col[0], col[1], col[2], l.Ambient()},
	}
}

// Marshal serializes the LightUniform into little-endian bytes suitable for a
// GPU buffer write.
//
// Returns:
//   - []byte: the serialized uniform data, LightUniformSize bytes long
func (u LightUniform) Marshal() []byte {
	data := make([]byte, LightUniformSize)
	offset := 0
	for _, f := range u.Direction {
		binary.LittleEndian.PutUint32(data[offset:], math.Float32bits(f))
		offset += 4
	}
	for _, f := range u.Color {
		binary.LittleEndian.PutUint32(data[offset:], math.Float32bits(f))
		offset += 4
	}
	return data
}
