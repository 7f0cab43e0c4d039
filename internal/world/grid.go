package world

import "sync"

// Grid is a sparse set of solid unit cells. It backs the reference physics
// body in the demo arena and in tests. Reads and writes may come from the
// simulation thread and the config reloader, hence the lock.
type Grid struct {
	mu    sync.RWMutex
	cells map[[3]int]struct{}
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[[3]int]struct{})}
}

func (g *Grid) IsSolid(x, y, z int) bool {
	if g == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.cells[[3]int{x, y, z}]
	return ok
}

func (g *Grid) SetSolid(x, y, z int) {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.cells[[3]int{x, y, z}] = struct{}{}
	g.mu.Unlock()
}

func (g *Grid) Clear(x, y, z int) {
	if g == nil {
		return
	}
	g.mu.Lock()
	delete(g.cells, [3]int{x, y, z})
	g.mu.Unlock()
}

func (g *Grid) SolidCount() int {
	if g == nil {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// FillFloor lays a solid slab at height y covering the given footprint.
func (g *Grid) FillFloor(minX, maxX, minZ, maxZ, y int) {
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			g.SetSolid(x, y, z)
		}
	}
}

// FillBox fills the inclusive volume between the two corners.
func (g *Grid) FillBox(minX, minY, minZ, maxX, maxY, maxZ int) {
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				g.SetSolid(x, y, z)
			}
		}
	}
}

// Arena builds a square demo level: a floor at y=-1 with a perimeter wall
// two cells high and a few raised platforms to jump onto.
func Arena(size int) *Grid {
	if size < 8 {
		size = 8
	}
	half := size / 2
	g := NewGrid()
	g.FillFloor(-half, half, -half, half, -1)
	for x := -half; x <= half; x++ {
		g.FillBox(x, 0, -half, x, 1, -half)
		g.FillBox(x, 0, half, x, 1, half)
	}
	for z := -half; z <= half; z++ {
		g.FillBox(-half, 0, z, -half, 1, z)
		g.FillBox(half, 0, z, half, 1, z)
	}
	g.FillBox(3, 0, 3, 5, 0, 5)
	g.FillBox(-6, 0, 2, -4, 1, 4)
	return g
}
