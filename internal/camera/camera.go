package camera

import "github.com/stridekit/strider/internal/physics"

// Camera accumulates pitch independently of the body's yaw. Rotations arrive
// as (axis, degrees) pairs; only the pitch axis contributes.
//
// Pitch is deliberately unclamped: the controller forwards raw look deltas
// and full vertical rotation is allowed, matching the free-look behavior of
// the movement core.
type Camera struct {
	pitch float64
}

func New() *Camera {
	return &Camera{}
}

func (c *Camera) Rotate(axis physics.Vec3, degrees float64) {
	if c == nil {
		return
	}
	c.pitch += axis.X * degrees
}

func (c *Camera) Pitch() float64 {
	if c == nil {
		return 0
	}
	return c.pitch
}

// LookDirection combines the owning body's yaw with the camera pitch into a
// unit view direction.
func (c *Camera) LookDirection(yawDeg float64) physics.Vec3 {
	return physics.DirectionFromYawPitch(yawDeg, c.Pitch())
}
