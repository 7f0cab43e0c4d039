package physics

const (
	DefaultHalfWidth = 0.3
	DefaultHeight    = 1.8

	// DefaultGravity is the downward acceleration applied to airborne
	// bodies, in length-units per second squared.
	DefaultGravity = 20.0

	// DefaultGroundProbe is how far below the body's feet the grounded
	// sweep reaches.
	DefaultGroundProbe = 1.1

	AxisTolerance = 1e-9
)
