package camera

import (
	"math"
	"testing"
)

func TestScreenRayThroughCenterPointsAtTarget(t *testing.T) {
	ctrl := NewCameraController(
		WithTarget(0, 0, 0),
		WithRadius(10),
		WithElevation(0),
		WithAzimuth(0),
	)
	cam := NewCamera(
		WithController(ctrl),
		WithAspect(16.0/9.0),
	)
	cam.Update()

	origin, dir := cam.ScreenRay(1920/2, 1080/2, 1920, 1080)

	// The controller places the camera at (0, 0, radius) for azimuth and
	// elevation zero; the center ray must run toward -Z.
	if math.Abs(float64(origin[2]-10)) > 0.1 {
		t.Fatalf("ray origin %v, want near (0, 0, 10)", origin)
	}
	if dir[2] >= 0 {
		t.Fatalf("center ray direction %v must point toward the target", dir)
	}
	if math.Abs(float64(dir[0])) > 1e-3 || math.Abs(float64(dir[1])) > 1e-3 {
		t.Fatalf("center ray direction %v must be axial", dir)
	}
}

func TestScreenRayOffCenterDiverges(t *testing.T) {
	ctrl := NewCameraController(WithTarget(0, 0, 0), WithRadius(10), WithElevation(0))
	cam := NewCamera(WithController(ctrl), WithAspect(1))
	cam.Update()

	_, left := cam.ScreenRay(0, 540, 1080, 1080)
	_, right := cam.ScreenRay(1080, 540, 1080, 1080)
	if left[0] >= 0 || right[0] <= 0 {
		t.Fatalf("edge rays did not diverge horizontally: left %v right %v", left, right)
	}
}

func TestOrbitKeepsRadius(t *testing.T) {
	ctrl := NewCameraController(WithTarget(1, 2, 3), WithRadius(8))
	before := ctrl.Radius()
	for i := 0; i < 10; i++ {
		ctrl.OrbitLeft()
		ctrl.OrbitUp()
	}
	if got := ctrl.Radius(); got != before {
		t.Fatalf("orbiting changed radius %f -> %f", before, got)
	}

	px, py, pz := ctrl.Position()
	tx, ty, tz := ctrl.Target()
	dx, dy, dz := px-tx, py-ty, pz-tz
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	if math.Abs(dist-float64(before)) > 1e-3 {
		t.Fatalf("position drifted off the orbit sphere: %f vs %f", dist, before)
	}
}

func TestZoomClampsToBounds(t *testing.T) {
	ctrl := NewCameraController(WithRadius(10))
	for i := 0; i < 1000; i++ {
		ctrl.Zoom(1)
	}
	if got := ctrl.Radius(); got != ctrl.MinRadius() {
		t.Fatalf("zoom in did not clamp to min radius: %f", got)
	}
	for i := 0; i < 1000; i++ {
		ctrl.Zoom(-1)
	}
	if got := ctrl.Radius(); got != ctrl.MaxRadius() {
		t.Fatalf("zoom out did not clamp to max radius: %f", got)
	}
}
