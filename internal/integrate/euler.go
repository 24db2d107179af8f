// Package integrate advances particle state from accumulated forces.
package integrate

import "fluidlab/internal/particle"

// SemiImplicitEuler is the symplectic variant: velocity is updated
// from acceleration first, then position from the new velocity. The
// ordering is what keeps the stiff, spring-like pressure forces
// stable; plain explicit Euler diverges for the same dt.
type SemiImplicitEuler struct{}

// Step applies acceleration = force / mass over dt. No substepping or
// dt clamping happens here: the caller picks a stable dt.
func (SemiImplicitEuler) Step(st *particle.Store, dt float64) {
	for i := 0; i < st.Count; i++ {
		st.Vel[i] = st.Vel[i].Add(st.Force[i].Scale(dt / st.Mass[i]))
		st.Pos[i] = st.Pos[i].Add(st.Vel[i].Scale(dt))
	}
}
