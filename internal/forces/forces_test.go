package forces

import (
	"math"
	"testing"

	"fluidlab/internal/grid"
	"fluidlab/internal/kernel"
	"fluidlab/internal/particle"
	"fluidlab/internal/vec"
)

func newModel(h float64) *Model {
	return &Model{
		Kern:         kernel.New(h),
		RestDensity:  1000,
		GasStiffness: 200,
		Viscosity:    0.5,
	}
}

func rebuild(st *particle.Store, h float64) *grid.Grid {
	g := grid.New()
	g.Rebuild(st.Pos, h)
	return g
}

func TestIsolatedParticleSelfDensity(t *testing.T) {
	h := 0.1
	m := newModel(h)
	st := particle.New(1, 2.0)
	st.Pos[0] = vec.Vec3{X: 5, Y: 5, Z: 5}

	m.DensityPressure(st, rebuild(st, h))

	want := 2.0 * m.Kern.Poly6(0)
	if math.Abs(st.Density[0]-want) > 1e-12 {
		t.Errorf("density = %g, want self-contribution %g", st.Density[0], want)
	}
	if st.Density[0] <= 0 {
		t.Error("isolated particle density must stay positive")
	}
}

func TestPressureClampedNonNegative(t *testing.T) {
	h := 0.1
	m := newModel(h)
	// A lone particle is far below rest density, so the raw EOS value
	// is negative and must clamp to zero.
	st := particle.New(1, 1.0)

	m.DensityPressure(st, rebuild(st, h))

	if st.Pressure[0] != 0 {
		t.Errorf("pressure = %g, want 0 (clamped)", st.Pressure[0])
	}
}

func TestPairForcesAntisymmetric(t *testing.T) {
	h := 0.5
	m := newModel(h)
	m.SurfaceTension = 0.1

	st := particle.New(2, 1.0)
	st.Pos[0] = vec.Vec3{X: 0.1}
	st.Pos[1] = vec.Vec3{X: 0.3}
	st.Vel[0] = vec.Vec3{Y: 1}
	st.Vel[1] = vec.Vec3{Y: -2}

	g := rebuild(st, h)
	m.DensityPressure(st, g)
	st.ResetForces()
	m.Accumulate(st, g)

	sum := st.Force[0].Add(st.Force[1])
	if sum.Len() > 1e-12 {
		t.Errorf("pair forces not equal and opposite: sum = %v", sum)
	}
}

func TestCoincidentPairFiniteAndRepulsive(t *testing.T) {
	h := 0.5
	m := newModel(h)
	m.RestDensity = 0 // any density pressurizes, so the pair must repel

	st := particle.New(2, 1.0)
	st.Pos[0] = vec.Vec3{X: 1, Y: 1, Z: 1}
	st.Pos[1] = vec.Vec3{X: 1, Y: 1, Z: 1}

	g := rebuild(st, h)
	m.DensityPressure(st, g)
	st.ResetForces()
	m.Accumulate(st, g)

	for i := 0; i < 2; i++ {
		if !st.Force[i].IsFinite() {
			t.Fatalf("force[%d] not finite: %v", i, st.Force[i])
		}
	}
	if st.Force[0].X <= 0 || st.Force[1].X >= 0 {
		t.Errorf("coincident pair not pushed apart: f0=%v f1=%v", st.Force[0], st.Force[1])
	}
	if st.Force[0].X != -st.Force[1].X {
		t.Errorf("fallback direction broke antisymmetry: %v vs %v", st.Force[0], st.Force[1])
	}
}

func TestViscosityDampsRelativeMotion(t *testing.T) {
	h := 0.5
	m := newModel(h)
	m.GasStiffness = 0 // isolate the viscosity term

	st := particle.New(2, 1.0)
	st.Pos[0] = vec.Vec3{}
	st.Pos[1] = vec.Vec3{X: 0.2}
	st.Vel[0] = vec.Vec3{X: 1}
	st.Vel[1] = vec.Vec3{X: -1}

	g := rebuild(st, h)
	m.DensityPressure(st, g)
	st.ResetForces()
	m.Accumulate(st, g)

	// Viscosity must pull each velocity toward the other's.
	if st.Force[0].X >= 0 {
		t.Errorf("force on faster particle should oppose motion: %v", st.Force[0])
	}
	if st.Force[1].X <= 0 {
		t.Errorf("force on slower particle should follow motion: %v", st.Force[1])
	}
}

func TestGravityScalesWithMass(t *testing.T) {
	h := 0.1
	m := newModel(h)
	m.Gravity = vec.Vec3{Y: -9.81}

	st := particle.New(1, 3.0)
	g := rebuild(st, h)
	m.DensityPressure(st, g)
	st.ResetForces()
	m.Accumulate(st, g)

	if math.Abs(st.Force[0].Y-(-9.81*3.0)) > 1e-12 {
		t.Errorf("gravity force = %v, want mass-scaled", st.Force[0])
	}
}

func TestPointForceAttracts(t *testing.T) {
	h := 0.1
	m := newModel(h)
	m.PointForces = []PointForce{{Center: vec.Vec3{X: 1}, Radius: 2, Strength: 10}}

	st := particle.New(1, 1.0)
	g := rebuild(st, h)
	m.DensityPressure(st, g)
	st.ResetForces()
	m.Accumulate(st, g)

	if st.Force[0].X <= 0 {
		t.Errorf("point force should attract toward +X: %v", st.Force[0])
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	h := 0.2
	serial := newModel(h)
	serial.Workers = 1
	parallel := newModel(h)
	parallel.Workers = 8

	a := particle.New(125, 1.0)
	b := particle.New(125, 1.0)
	bounds := vec.Bounds{Min: vec.Vec3{}, Max: vec.Vec3{X: 1, Y: 1, Z: 1}}
	a.InitLattice(bounds, 0.08)
	b.InitLattice(bounds, 0.08)

	ga := rebuild(a, h)
	gb := rebuild(b, h)

	serial.DensityPressure(a, ga)
	parallel.DensityPressure(b, gb)
	a.ResetForces()
	b.ResetForces()
	serial.Accumulate(a, ga)
	parallel.Accumulate(b, gb)

	for i := 0; i < a.Count; i++ {
		if a.Density[i] != b.Density[i] {
			t.Fatalf("density[%d] differs: %g vs %g", i, a.Density[i], b.Density[i])
		}
		if a.Force[i] != b.Force[i] {
			t.Fatalf("force[%d] differs: %v vs %v", i, a.Force[i], b.Force[i])
		}
	}
}

func BenchmarkDensityPass(b *testing.B) {
	h := 0.1
	m := newModel(h)
	st := particle.New(2048, 1.0)
	bounds := vec.Bounds{Min: vec.Vec3{}, Max: vec.Vec3{X: 2, Y: 2, Z: 2}}
	st.InitLattice(bounds, 0.06)
	g := rebuild(st, h)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.DensityPressure(st, g)
	}
}
