// Package metrics provides step observers that summarize particle
// state over a run: total momentum, kinetic energy and the density
// range. Each metric implements fluid.Observer, so it can be attached
// directly to a simulator.
package metrics

import (
	"math"

	"fluidlab/internal/particle"
)

type Metric interface {
	Name() string
	OnStep(st *particle.Store, t float64)
	Value() float64
	Reset()
}

// Momentum tracks the magnitude of total linear momentum. With
// gravity off and no objects it should stay constant: the pairwise
// force terms cancel exactly.
type Momentum struct {
	px, py, pz float64
	maxDrift   float64
	initial    float64
	samples    int
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) OnStep(st *particle.Store, t float64) {
	m.px, m.py, m.pz = 0, 0, 0
	for i := 0; i < st.Count; i++ {
		m.px += st.Mass[i] * st.Vel[i].X
		m.py += st.Mass[i] * st.Vel[i].Y
		m.pz += st.Mass[i] * st.Vel[i].Z
	}
	mag := math.Sqrt(m.px*m.px + m.py*m.py + m.pz*m.pz)
	if m.samples == 0 {
		m.initial = mag
	}
	if drift := math.Abs(mag - m.initial); drift > m.maxDrift {
		m.maxDrift = drift
	}
	m.samples++
}

// Value is the current momentum magnitude.
func (m *Momentum) Value() float64 {
	return math.Sqrt(m.px*m.px + m.py*m.py + m.pz*m.pz)
}

// MaxDrift is the largest deviation from the initial magnitude seen.
func (m *Momentum) MaxDrift() float64 { return m.maxDrift }

func (m *Momentum) Reset() { *m = Momentum{} }

// KineticEnergy tracks 0.5 * sum(m * v^2) at the latest step.
type KineticEnergy struct {
	current float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) OnStep(st *particle.Store, t float64) {
	e := 0.0
	for i := 0; i < st.Count; i++ {
		e += 0.5 * st.Mass[i] * st.Vel[i].LenSq()
	}
	k.current = e
}

func (k *KineticEnergy) Value() float64 { return k.current }

func (k *KineticEnergy) Reset() { k.current = 0 }

// DensityRange tracks the extreme densities observed over the run.
// Value reports the maximum; Min reports the smallest.
type DensityRange struct {
	min, max float64
	samples  int
}

func NewDensityRange() *DensityRange { return &DensityRange{} }

func (d *DensityRange) Name() string { return "density_max" }

func (d *DensityRange) OnStep(st *particle.Store, t float64) {
	for i := 0; i < st.Count; i++ {
		rho := st.Density[i]
		if d.samples == 0 && i == 0 {
			d.min, d.max = rho, rho
			continue
		}
		if rho < d.min {
			d.min = rho
		}
		if rho > d.max {
			d.max = rho
		}
	}
	d.samples++
}

func (d *DensityRange) Value() float64 { return d.max }

func (d *DensityRange) Min() float64 { return d.min }

func (d *DensityRange) Reset() { *d = DensityRange{} }
