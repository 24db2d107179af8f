// Package grid implements the uniform spatial hash used for neighbor
// queries. Cell size equals the smoothing radius, so every particle
// within the influence radius of a query point lies in the 3x3x3 block
// of cells around it.
package grid

import (
	"math"

	"fluidlab/internal/vec"
)

type cell struct{ x, y, z int32 }

// Grid buckets particle indices by position. It holds no ownership:
// Rebuild discards all prior grouping, and neighbor queries read the
// then-current buckets only. Bucket slices are truncated rather than
// freed between rebuilds so steady-state stepping does not allocate.
type Grid struct {
	cellSize float64
	cells    map[cell][]int
	where    []cell // cell of each particle as of the last rebuild
}

func New() *Grid {
	return &Grid{cells: make(map[cell][]int)}
}

// Rebuild re-buckets every particle by its current position. A
// particle exactly on a cell boundary lands in exactly one cell via
// floor division of the scaled coordinate.
func (g *Grid) Rebuild(pos []vec.Vec3, cellSize float64) {
	g.cellSize = cellSize
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	if cap(g.where) < len(pos) {
		g.where = make([]cell, len(pos))
	}
	g.where = g.where[:len(pos)]

	for i, p := range pos {
		c := g.cellOf(p)
		g.cells[c] = append(g.cells[c], i)
		g.where[i] = c
	}
}

// ForNeighbors calls fn for every candidate index in the 27-cell block
// around particle i's cell, including i itself. Candidates are yielded
// in a fixed order (cell offset order, then insertion order within a
// bucket), which keeps the downstream force accumulation
// deterministic. Callers must still apply the radius test; cells only
// bound the candidate set.
func (g *Grid) ForNeighbors(i int, fn func(j int)) {
	c := g.where[i]
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				bucket := g.cells[cell{c.x + dx, c.y + dy, c.z + dz}]
				for _, j := range bucket {
					fn(j)
				}
			}
		}
	}
}

// ForNeighborsOf is ForNeighbors for an arbitrary position rather than
// a stored particle.
func (g *Grid) ForNeighborsOf(p vec.Vec3, fn func(j int)) {
	c := g.cellOf(p)
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				bucket := g.cells[cell{c.x + dx, c.y + dy, c.z + dz}]
				for _, j := range bucket {
					fn(j)
				}
			}
		}
	}
}

func (g *Grid) cellOf(p vec.Vec3) cell {
	return cell{
		x: int32(math.Floor(p.X / g.cellSize)),
		y: int32(math.Floor(p.Y / g.cellSize)),
		z: int32(math.Floor(p.Z / g.cellSize)),
	}
}
