package physics

import "math"

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

var (
	AxisUp    = Vec3{Y: 1}
	AxisRight = Vec3{X: 1}
)

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) IsZero() bool {
	return nearlyZero(v.X) && nearlyZero(v.Y) && nearlyZero(v.Z)
}

// Normalized returns the unit vector, or the zero vector unchanged.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if nearlyZero(length) {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

// BasisFromYaw derives the horizontal forward/right unit vectors for a yaw
// angle in degrees. Yaw 0 faces +Z.
func BasisFromYaw(yawDeg float64) (forward, right Vec3) {
	yawRad := yawDeg * math.Pi / 180.0
	forward = Vec3{X: -math.Sin(yawRad), Z: math.Cos(yawRad)}
	right = Vec3{X: math.Cos(yawRad), Z: math.Sin(yawRad)}
	return forward, right
}

// DirectionFromYawPitch converts view angles in degrees to a unit direction.
func DirectionFromYawPitch(yawDeg, pitchDeg float64) Vec3 {
	yawRad := yawDeg * math.Pi / 180.0
	pitchRad := pitchDeg * math.Pi / 180.0
	return Vec3{
		X: -math.Sin(yawRad) * math.Cos(pitchRad),
		Y: -math.Sin(pitchRad),
		Z: math.Cos(yawRad) * math.Cos(pitchRad),
	}
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= AxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= AxisTolerance
}
