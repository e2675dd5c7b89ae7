package renderer

import (
	"errors"
	"testing"
)

func TestSurfaceErrorActionFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want SurfaceErrorAction
	}{
		{"nil error", nil, SurfaceActionNone},
		{"lost surface", errors.New("Surface image is already acquired: surface lost"), SurfaceActionReconfigure},
		{"outdated surface", errors.New("surface is outdated, needs reconfiguration"), SurfaceActionReconfigure},
		{"acquire timeout", errors.New("timeout acquiring next surface texture"), SurfaceActionSkipFrame},
		{"timed out", errors.New("operation timed out"), SurfaceActionSkipFrame},
		{"out of memory", errors.New("Device out of memory"), SurfaceActionFatal},
		{"oom variant", errors.New("wgpu: OutOfMemory"), SurfaceActionFatal},
		{"unknown error", errors.New("something unexpected"), SurfaceActionReconfigure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SurfaceErrorActionFor(tt.err); got != tt.want {
				t.Errorf("SurfaceErrorActionFor(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
