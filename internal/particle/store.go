// Package particle holds the contiguous per-particle state for the
// fluid. It is pure data: slices in structure-of-arrays layout, owned
// by the simulator for its whole lifetime. The force slice is a
// per-step scratch accumulator reused across steps.
package particle

import (
	"math"

	"fluidlab/internal/vec"
)

type Store struct {
	Count int

	Pos   []vec.Vec3
	Vel   []vec.Vec3
	Force []vec.Vec3

	Density  []float64
	Pressure []float64
	Mass     []float64
}

// New allocates state for count particles, all with the given mass.
// Mass is fixed at creation; the count never changes afterwards.
func New(count int, mass float64) *Store {
	s := &Store{
		Count:    count,
		Pos:      make([]vec.Vec3, count),
		Vel:      make([]vec.Vec3, count),
		Force:    make([]vec.Vec3, count),
		Density:  make([]float64, count),
		Pressure: make([]float64, count),
		Mass:     make([]float64, count),
	}
	for i := range s.Mass {
		s.Mass[i] = mass
	}
	return s
}

// InitLattice seeds positions on a cubic lattice centered in the
// domain, row-major in particle index order. The layout is fully
// deterministic so two stores built from the same config are
// identical.
func (s *Store) InitLattice(b vec.Bounds, spacing float64) {
	side := int(math.Ceil(math.Cbrt(float64(s.Count))))
	if side < 1 {
		side = 1
	}
	extent := float64(side-1) * spacing
	half := extent / 2
	origin := b.Center().Sub(vec.Vec3{X: half, Y: half, Z: half})

	for i := 0; i < s.Count; i++ {
		ix := i % side
		iy := (i / side) % side
		iz := i / (side * side)
		p := origin.Add(vec.Vec3{
			X: float64(ix) * spacing,
			Y: float64(iy) * spacing,
			Z: float64(iz) * spacing,
		})
		s.Pos[i] = clampTo(p, b)
		s.Vel[i] = vec.Vec3{}
	}
}

// PositionsSnapshot flattens positions to 3 scalars per particle in
// stable index order, for readback by a host or renderer.
func (s *Store) PositionsSnapshot() []float64 {
	out := make([]float64, 3*s.Count)
	for i, p := range s.Pos {
		out[3*i] = p.X
		out[3*i+1] = p.Y
		out[3*i+2] = p.Z
	}
	return out
}

// ResetForces zeroes the accumulators before a force pass.
func (s *Store) ResetForces() {
	for i := range s.Force {
		s.Force[i] = vec.Vec3{}
	}
}

func clampTo(p vec.Vec3, b vec.Bounds) vec.Vec3 {
	p.X = math.Min(math.Max(p.X, b.Min.X), b.Max.X)
	p.Y = math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y)
	p.Z = math.Min(math.Max(p.Z, b.Min.Z), b.Max.Z)
	return p
}
