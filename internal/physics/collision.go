package physics

import "math"

// Solid answers whether the unit cell at integer coordinates blocks movement.
type Solid interface {
	IsSolid(x, y, z int) bool
}

type AABB struct {
	Min Vec3
	Max Vec3
}

// BodyAABB builds the collision box for a body standing at pos. The position
// is the center of the feet.
func BodyAABB(pos Vec3, halfWidth, height float64) AABB {
	return AABB{
		Min: Vec3{X: pos.X - halfWidth, Y: pos.Y, Z: pos.Z - halfWidth},
		Max: Vec3{X: pos.X + halfWidth, Y: pos.Y + height, Z: pos.Z + halfWidth},
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y &&
		a.Min.Z < b.Max.Z && a.Max.Z > b.Min.Z
}

// Overlaps reports whether the box intersects any solid cell.
func Overlaps(box AABB, solids Solid) bool {
	if solids == nil {
		return false
	}
	min := components(box.Min)
	max := components(box.Max)
	for x := cellMin(min[0]); x <= cellMax(max[0]); x++ {
		for y := cellMin(min[1]); y <= cellMax(max[1]); y++ {
			for z := cellMin(min[2]); z <= cellMax(max[2]); z++ {
				if !solids.IsSolid(x, y, z) {
					continue
				}
				cell := AABB{
					Min: Vec3{X: float64(x), Y: float64(y), Z: float64(z)},
					Max: Vec3{X: float64(x + 1), Y: float64(y + 1), Z: float64(z + 1)},
				}
				if box.Intersects(cell) {
					return true
				}
			}
		}
	}
	return false
}

// ResolveMovement sweeps a body box through the world one axis at a time
// (Y first, then X, then Z) and returns the resolved position together with
// the residual delta. A component blocked by a solid cell comes back as zero
// so callers can tell which axes collided.
func ResolveMovement(pos, delta Vec3, halfWidth, height float64, solids Solid) (Vec3, Vec3) {
	newPos := components(pos)
	residual := components(delta)

	for _, axis := range [3]int{1, 0, 2} {
		box := BodyAABB(vec(newPos), halfWidth, height)
		allowed := sweepAxis(box, axis, residual[axis], solids)
		newPos[axis] += allowed
		if !nearlyEqual(allowed, residual[axis]) {
			residual[axis] = 0
		}
	}

	return vec(newPos), vec(residual)
}

// sweepAxis returns how far the box may travel along one axis before hitting
// a solid cell. The other two axes bound the set of candidate cells.
func sweepAxis(box AABB, axis int, delta float64, solids Solid) float64 {
	if solids == nil || nearlyZero(delta) {
		return delta
	}

	min := components(box.Min)
	max := components(box.Max)

	var lo, hi [3]int
	for i := 0; i < 3; i++ {
		lo[i] = cellMin(min[i])
		hi[i] = cellMax(max[i])
	}
	if delta > 0 {
		lo[axis] = int(math.Floor(max[axis]))
		hi[axis] = int(math.Floor(max[axis] + delta))
	} else {
		lo[axis] = int(math.Floor(min[axis] + delta))
		hi[axis] = int(math.Floor(min[axis] - AxisTolerance))
	}

	allowed := delta
	var cell [3]int
	for cell[0] = lo[0]; cell[0] <= hi[0]; cell[0]++ {
		for cell[1] = lo[1]; cell[1] <= hi[1]; cell[1]++ {
			for cell[2] = lo[2]; cell[2] <= hi[2]; cell[2]++ {
				if !solids.IsSolid(cell[0], cell[1], cell[2]) {
					continue
				}
				if delta > 0 {
					candidate := float64(cell[axis]) - max[axis]
					if candidate < allowed {
						allowed = candidate
					}
				} else {
					candidate := float64(cell[axis]+1) - min[axis]
					if candidate > allowed {
						allowed = candidate
					}
				}
			}
		}
	}
	return allowed
}

func components(v Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func vec(c [3]float64) Vec3 {
	return Vec3{X: c[0], Y: c[1], Z: c[2]}
}

func cellMin(v float64) int {
	return int(math.Floor(v + AxisTolerance))
}

func cellMax(v float64) int {
	return int(math.Floor(v - AxisTolerance))
}
