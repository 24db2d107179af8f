package integrate

import (
	"math"
	"testing"

	"fluidlab/internal/particle"
	"fluidlab/internal/vec"
)

func TestVelocityUpdatesBeforePosition(t *testing.T) {
	// With constant force, one symplectic step must land at
	// x0 + (v0 + a*dt)*dt, not x0 + v0*dt as explicit Euler would.
	st := particle.New(1, 2.0)
	st.Pos[0] = vec.Vec3{X: 1}
	st.Vel[0] = vec.Vec3{X: 3}
	st.Force[0] = vec.Vec3{X: 4} // a = 2

	var integ SemiImplicitEuler
	dt := 0.5
	integ.Step(st, dt)

	wantV := 3.0 + 2.0*dt
	wantX := 1.0 + wantV*dt
	if math.Abs(st.Vel[0].X-wantV) > 1e-12 {
		t.Errorf("vx = %f, want %f", st.Vel[0].X, wantV)
	}
	if math.Abs(st.Pos[0].X-wantX) > 1e-12 {
		t.Errorf("x = %f, want %f (semi-implicit ordering)", st.Pos[0].X, wantX)
	}
}

func TestZeroForceKeepsVelocity(t *testing.T) {
	st := particle.New(2, 1.0)
	st.Vel[0] = vec.Vec3{Y: -1}

	var integ SemiImplicitEuler
	integ.Step(st, 0.01)

	if st.Vel[0] != (vec.Vec3{Y: -1}) {
		t.Errorf("velocity changed without force: %v", st.Vel[0])
	}
	if math.Abs(st.Pos[0].Y-(-0.01)) > 1e-15 {
		t.Errorf("position = %v, want drift by v*dt", st.Pos[0])
	}
	if st.Pos[1] != (vec.Vec3{}) {
		t.Errorf("resting particle moved: %v", st.Pos[1])
	}
}
