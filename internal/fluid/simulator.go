// Package fluid orchestrates the SPH pipeline: spatial index rebuild,
// density/pressure and force passes, collision resolution, then
// symplectic integration. The simulator owns the particle store and
// the object list for its whole lifetime; the particle count is fixed
// at construction.
package fluid

import (
	"fmt"
	"math"

	"fluidlab/internal/collide"
	"fluidlab/internal/config"
	"fluidlab/internal/forces"
	"fluidlab/internal/grid"
	"fluidlab/internal/integrate"
	"fluidlab/internal/particle"
	"fluidlab/internal/vec"
)

// Observer is notified after each completed step with read access to
// the particle store. Observers must not mutate it.
type Observer interface {
	OnStep(st *particle.Store, t float64)
}

type Simulator struct {
	cfg   config.Config
	store *particle.Store
	index *grid.Grid
	model *forces.Model
	res   *collide.Resolver
	integ integrate.SemiImplicitEuler

	observers []Observer
	steps     int
	time      float64
}

// New constructs a simulator from a validated config. Particles are
// seeded on a lattice at half the smoothing radius, the spacing that
// puts the initial density near rest density; the initial density
// field is computed so readback is meaningful before the first step.
func New(cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := particle.New(cfg.ParticleCount, cfg.ParticleMass)
	st.InitLattice(cfg.Bounds, cfg.SmoothingRadius*0.5)

	s := &Simulator{
		cfg:   *cfg,
		store: st,
		index: grid.New(),
		model: newModelFor(cfg),
		res: &collide.Resolver{
			Bounds:      cfg.Bounds,
			Restitution: cfg.Physics.Restitution,
			Friction:    cfg.Physics.Friction,
		},
	}

	s.index.Rebuild(st.Pos, cfg.SmoothingRadius)
	s.model.DensityPressure(st, s.index)
	return s, nil
}

// Step advances the simulation by dt. The pipeline stages run strictly
// in order: index rebuild, density/pressure, forces, collision
// resolution on pre-integration positions, then integration. dt must
// be finite and positive; an invalid dt is rejected before any state
// mutation, so a failed step leaves the simulation unchanged.
func (s *Simulator) Step(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimestep, dt)
	}

	for _, o := range s.res.Objects {
		if mv, ok := o.(collide.Mover); ok {
			mv.Advance(dt)
		}
	}

	s.index.Rebuild(s.store.Pos, s.cfg.SmoothingRadius)
	s.model.DensityPressure(s.store, s.index)
	s.store.ResetForces()
	s.model.Accumulate(s.store, s.index)
	s.res.Resolve(s.store.Pos, s.store.Vel, dt)
	s.integ.Step(s.store, dt)

	// Point forces are one-shot; re-apply each step if held.
	s.model.PointForces = s.model.PointForces[:0]

	s.steps++
	s.time += dt
	for _, ob := range s.observers {
		ob.OnStep(s.store, s.time)
	}
	return nil
}

// Positions returns a flat snapshot of 3 scalars per particle in
// stable index order.
func (s *Simulator) Positions() []float64 { return s.store.PositionsSnapshot() }

// Particles exposes the store for read-only consumers (metrics, viz).
func (s *Simulator) Particles() *particle.Store { return s.store }

func (s *Simulator) Config() config.Config { return s.cfg }

func (s *Simulator) Steps() int { return s.steps }

func (s *Simulator) Time() float64 { return s.time }

// AddObject appends static or kinematic collision geometry. Objects
// are resolved in insertion order.
func (s *Simulator) AddObject(o collide.Object) {
	s.res.Objects = append(s.res.Objects, o)
}

func (s *Simulator) Objects() []collide.Object { return s.res.Objects }

func (s *Simulator) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// ApplyForce schedules a radial user force for the next step only.
// Positive strength attracts particles toward the center.
func (s *Simulator) ApplyForce(center vec.Vec3, radius, strength float64) {
	s.model.PointForces = append(s.model.PointForces, forces.PointForce{
		Center:   center,
		Radius:   radius,
		Strength: strength,
	})
}

// SetWorkers caps the force-pass goroutines, mainly for tests and
// benchmarks. Zero restores the default.
func (s *Simulator) SetWorkers(n int) { s.model.Workers = n }
