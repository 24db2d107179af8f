// Package forces computes the SPH force model: a density/pressure pass
// followed by a pressure + viscosity + external force pass, both over
// grid neighbors. Per-particle accumulation is parallel across worker
// goroutines; every worker writes only its own particles' fields and
// reads the shared arrays, so no synchronization beyond the pass
// barrier is needed and results do not depend on the partition.
package forces

import (
	"math"
	"runtime"
	"sync"

	"fluidlab/internal/grid"
	"fluidlab/internal/kernel"
	"fluidlab/internal/particle"
	"fluidlab/internal/vec"
)

// Pairs closer than this are treated as coincident: the kernel is
// evaluated at this separation and the pair is pushed apart along a
// fixed axis, keeping the force finite and the pair antisymmetric.
const minSeparation = 1e-7

// PointForce is a user-applied radial force with linear falloff, e.g.
// an interactive drag. Positive strength attracts toward the center.
type PointForce struct {
	Center   vec.Vec3
	Radius   float64
	Strength float64
}

type Model struct {
	Kern           kernel.Kernel
	RestDensity    float64
	GasStiffness   float64
	Viscosity      float64
	SurfaceTension float64
	Gravity        vec.Vec3

	// Workers caps the goroutines per pass; 0 means GOMAXPROCS.
	Workers int

	PointForces []PointForce
}

// DensityPressure accumulates each particle's density as the
// mass-weighted kernel sum over neighbors, including the particle's
// own contribution, then derives pressure from the equation of state
// p = k*(rho - rho0) clamped to >= 0. The clamp forbids attractive
// pressure, a stability choice rather than a tunable.
func (m *Model) DensityPressure(st *particle.Store, g *grid.Grid) {
	h2 := m.Kern.H2
	m.parallelFor(st.Count, func(i int) {
		rho := 0.0
		g.ForNeighbors(i, func(j int) {
			r2 := st.Pos[i].Sub(st.Pos[j]).LenSq()
			if r2 < h2 {
				rho += st.Mass[j] * m.Kern.Poly6(r2)
			}
		})
		st.Density[i] = rho

		p := m.GasStiffness * (rho - m.RestDensity)
		if p < 0 {
			p = 0
		}
		st.Pressure[i] = p
	})
}

// Accumulate writes each particle's total force: symmetric pressure
// gradient, viscosity Laplacian on relative velocity, optional
// cohesion, gravity and any point forces. Densities and pressures must
// be current, so DensityPressure runs to completion first.
func (m *Model) Accumulate(st *particle.Store, g *grid.Grid) {
	h2 := m.Kern.H2
	m.parallelFor(st.Count, func(i int) {
		mi := st.Mass[i]
		rhoi := st.Density[i]
		pi := st.Pressure[i]

		f := m.Gravity.Scale(mi)

		g.ForNeighbors(i, func(j int) {
			if j == i {
				return
			}
			d := st.Pos[i].Sub(st.Pos[j])
			r2 := d.LenSq()
			if r2 >= h2 {
				return
			}

			r := math.Sqrt(r2)
			var dir vec.Vec3
			if r < minSeparation {
				r = minSeparation
				if i < j {
					dir = vec.Vec3{X: 1}
				} else {
					dir = vec.Vec3{X: -1}
				}
			} else {
				dir = d.Scale(1 / r)
			}

			mj := st.Mass[j]
			rhoj := st.Density[j]

			// Pressure: -mi*mj*(pi/rhoi^2 + pj/rhoj^2) * gradW. The
			// symmetrized term makes the pair force exactly equal and
			// opposite, so internal forces conserve momentum.
			pterm := -mi * mj * (pi/(rhoi*rhoi) + st.Pressure[j]/(rhoj*rhoj)) * m.Kern.SpikyGrad(r)
			f = f.Add(dir.Scale(pterm))

			// Viscosity damps relative motion; antisymmetric in (vj-vi).
			vterm := m.Viscosity * mi * mj * m.Kern.ViscosityLap(r) / (rhoi * rhoj)
			f = f.Add(st.Vel[j].Sub(st.Vel[i]).Scale(vterm))

			if m.SurfaceTension != 0 {
				f = f.Add(dir.Scale(-m.SurfaceTension * mi * mj * m.Kern.Poly6(r2)))
			}
		})

		for _, pf := range m.PointForces {
			d := pf.Center.Sub(st.Pos[i])
			dist := d.Len()
			if dist < pf.Radius && dist > 0 {
				falloff := pf.Strength * (1 - dist/pf.Radius)
				f = f.Add(d.Scale(falloff * mi / dist))
			}
		}

		st.Force[i] = f
	})
}

func (m *Model) parallelFor(n int, body func(i int)) {
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			body(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				body(i)
			}
		}(start, end)
	}
	wg.Wait()
}
