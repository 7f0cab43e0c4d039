package physics

// BodyConfig sizes a kinematic body and tunes its integration.
type BodyConfig struct {
	HalfWidth float64
	Height    float64
	Gravity   float64
}

func (c BodyConfig) withDefaults() BodyConfig {
	if c.HalfWidth <= 0 {
		c.HalfWidth = DefaultHalfWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Gravity <= 0 {
		c.Gravity = DefaultGravity
	}
	return c
}

// KinematicBody is a collision-resolved rigid body moved by explicit position
// deltas. The only force-style motion it carries is an impulse velocity,
// integrated with gravity on Step. Not safe for concurrent use; all calls are
// expected on the simulation thread.
type KinematicBody struct {
	solids Solid
	cfg    BodyConfig
	pos    Vec3
	vel    Vec3
	yaw    float64
}

func NewKinematicBody(solids Solid, cfg BodyConfig, start Vec3) *KinematicBody {
	return &KinematicBody{
		solids: solids,
		cfg:    cfg.withDefaults(),
		pos:    start,
	}
}

func (b *KinematicBody) Position() Vec3 {
	if b == nil {
		return Vec3{}
	}
	return b.pos
}

func (b *KinematicBody) Velocity() Vec3 {
	if b == nil {
		return Vec3{}
	}
	return b.vel
}

func (b *KinematicBody) Yaw() float64 {
	if b == nil {
		return 0
	}
	return b.yaw
}

// Basis returns the horizontal forward/right unit vectors for the body's
// current yaw.
func (b *KinematicBody) Basis() (forward, right Vec3) {
	if b == nil {
		return BasisFromYaw(0)
	}
	return BasisFromYaw(b.yaw)
}

// Rotate turns the body around the given axis. A kinematic body only has a
// yaw degree of freedom, so the rotation contributes through the axis' Y
// component.
func (b *KinematicBody) Rotate(axis Vec3, degrees float64) {
	if b == nil {
		return
	}
	b.yaw += axis.Y * degrees
	for b.yaw > 180 {
		b.yaw -= 360
	}
	for b.yaw <= -180 {
		b.yaw += 360
	}
}

// MoveTo slides the body toward target, clipping the delta against solid
// cells axis by axis.
func (b *KinematicBody) MoveTo(target Vec3) {
	if b == nil {
		return
	}
	delta := target.Sub(b.pos)
	b.pos, _ = ResolveMovement(b.pos, delta, b.cfg.HalfWidth, b.cfg.Height, b.solids)
}

// ApplyImpulse adds an instantaneous velocity change.
func (b *KinematicBody) ApplyImpulse(v Vec3) {
	if b == nil {
		return
	}
	b.vel = b.vel.Add(v)
}

// Grounded sweeps the body box at origin downward by maxDist and reports
// whether a solid cell stops it short.
func (b *KinematicBody) Grounded(origin Vec3, maxDist float64) bool {
	if b == nil || b.solids == nil {
		return false
	}
	if maxDist <= 0 {
		maxDist = DefaultGroundProbe
	}
	box := BodyAABB(origin, b.cfg.HalfWidth, b.cfg.Height)
	allowed := sweepAxis(box, 1, -maxDist, b.solids)
	return allowed > -maxDist+AxisTolerance
}

// Step integrates impulse velocity and gravity over one fixed tick. Landing
// zeroes the vertical velocity; residual horizontal impulse decays with the
// resolved movement.
func (b *KinematicBody) Step(dt float64) {
	if b == nil || dt <= 0 {
		return
	}

	onGround := b.Grounded(b.pos, groundContactProbe)
	if !onGround || b.vel.Y > 0 {
		b.vel.Y -= b.cfg.Gravity * dt
	} else if b.vel.Y < 0 {
		b.vel.Y = 0
	}

	delta := b.vel.Scale(dt)
	var residual Vec3
	b.pos, residual = ResolveMovement(b.pos, delta, b.cfg.HalfWidth, b.cfg.Height, b.solids)

	// Carry back only the components that kept moving.
	if nearlyZero(residual.X) {
		b.vel.X = 0
	}
	if nearlyZero(residual.Y) {
		b.vel.Y = 0
	}
	if nearlyZero(residual.Z) {
		b.vel.Z = 0
	}
}

// SetPosition teleports the body without collision resolution.
func (b *KinematicBody) SetPosition(pos Vec3) {
	if b == nil {
		return
	}
	b.pos = pos
	b.vel = Vec3{}
}

// groundContactProbe is the short contact sweep used by integration, distinct
// from the longer probe callers pass to Grounded for jump/crouch eligibility.
const groundContactProbe = 1e-3
