package camera

import (
	"math"
	"testing"

	"github.com/stridekit/strider/internal/physics"
)

func TestRotateAccumulatesPitch(t *testing.T) {
	c := New()
	c.Rotate(physics.AxisRight, 15)
	c.Rotate(physics.AxisRight, -5)

	if got := c.Pitch(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("Pitch() = %.6f, want 10", got)
	}
}

func TestYawAxisRotationIgnored(t *testing.T) {
	c := New()
	c.Rotate(physics.AxisUp, 90)

	if got := c.Pitch(); got != 0 {
		t.Fatalf("Pitch() = %.6f after yaw-axis rotate, want 0", got)
	}
}

func TestPitchIsUnclamped(t *testing.T) {
	c := New()
	for i := 0; i < 10; i++ {
		c.Rotate(physics.AxisRight, 45)
	}

	if got := c.Pitch(); math.Abs(got-450) > 1e-9 {
		t.Fatalf("Pitch() = %.6f, want 450 (no clamping)", got)
	}
}

func TestLookDirectionLevel(t *testing.T) {
	c := New()
	dir := c.LookDirection(0)

	if math.Abs(dir.Z-1) > 1e-9 || math.Abs(dir.Y) > 1e-9 {
		t.Fatalf("LookDirection(0) = %+v, want +Z", dir)
	}
}

func TestLookDirectionPitchedDown(t *testing.T) {
	c := New()
	c.Rotate(physics.AxisRight, 90)
	dir := c.LookDirection(0)

	if math.Abs(dir.Y+1) > 1e-9 {
		t.Fatalf("LookDirection pitched 90 = %+v, want -Y", dir)
	}
}
