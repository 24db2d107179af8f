package fluid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"fluidlab/internal/collide"
	"fluidlab/internal/config"
	"fluidlab/internal/forces"
	"fluidlab/internal/grid"
	"fluidlab/internal/kernel"
	"fluidlab/internal/particle"
	"fluidlab/internal/vec"
)

// Seed format: a "FLSEED<version>:" prefix followed by base64 of a
// JSON record carrying the config, physics params, full particle state
// in index order, the object list and the step counter. The record is
// self-describing: a decoder seeing an unknown prefix or version field
// fails instead of guessing. Round-trip is exact, not best-effort: a
// restored simulator continues the original trajectory bit for bit.
const (
	seedVersion = 1
	seedPrefix  = "FLSEED1:"
)

type seedRecord struct {
	Version int           `json:"version"`
	Config  config.Config `json:"config"`
	Steps   int           `json:"steps"`
	Time    float64       `json:"time"`

	// Flat particle state, 3 scalars per particle for vectors.
	Pos      []float64 `json:"pos"`
	Vel      []float64 `json:"vel"`
	Density  []float64 `json:"density"`
	Pressure []float64 `json:"pressure"`
	Mass     []float64 `json:"mass"`

	Objects []objectRecord `json:"objects,omitempty"`
}

type objectRecord struct {
	Type   string    `json:"type"`
	Normal *vec.Vec3 `json:"normal,omitempty"`
	Offset float64   `json:"offset,omitempty"`
	Center *vec.Vec3 `json:"center,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Vel    *vec.Vec3 `json:"vel,omitempty"`
	Min    *vec.Vec3 `json:"min,omitempty"`
	Max    *vec.Vec3 `json:"max,omitempty"`
}

// ToSeed serializes the complete simulation state as a shareable
// string.
func (s *Simulator) ToSeed() (string, error) {
	st := s.store
	rec := seedRecord{
		Version:  seedVersion,
		Config:   s.cfg,
		Steps:    s.steps,
		Time:     s.time,
		Pos:      flatten(st.Pos),
		Vel:      flatten(st.Vel),
		Density:  append([]float64(nil), st.Density...),
		Pressure: append([]float64(nil), st.Pressure...),
		Mass:     append([]float64(nil), st.Mass...),
	}

	for _, o := range s.res.Objects {
		or, err := encodeObject(o)
		if err != nil {
			return "", err
		}
		rec.Objects = append(rec.Objects, or)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("fluid: encoding seed: %w", err)
	}
	return seedPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// FromSeed reconstructs a simulator from a seed string. Malformed data
// or an unknown version fails explicitly; no partial simulator is
// produced.
func FromSeed(seed string) (*Simulator, error) {
	payload, ok := strings.CutPrefix(seed, seedPrefix)
	if !ok {
		if strings.HasPrefix(seed, "FLSEED") {
			return nil, fmt.Errorf("%w: %s", ErrSeedVersion, prefixOf(seed))
		}
		return nil, fmt.Errorf("%w: missing prefix", ErrBadSeed)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSeed, err)
	}

	var rec seedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSeed, err)
	}
	if rec.Version != seedVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSeedVersion, rec.Version)
	}
	if err := rec.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSeed, err)
	}

	n := rec.Config.ParticleCount
	if len(rec.Pos) != 3*n || len(rec.Vel) != 3*n ||
		len(rec.Density) != n || len(rec.Pressure) != n || len(rec.Mass) != n {
		return nil, fmt.Errorf("%w: particle state length mismatch", ErrBadSeed)
	}

	st := particle.New(n, rec.Config.ParticleMass)
	unflatten(rec.Pos, st.Pos)
	unflatten(rec.Vel, st.Vel)
	copy(st.Density, rec.Density)
	copy(st.Pressure, rec.Pressure)
	copy(st.Mass, rec.Mass)

	s := &Simulator{
		cfg:   rec.Config,
		store: st,
		index: grid.New(),
		steps: rec.Steps,
		time:  rec.Time,
	}
	s.model = newModelFor(&rec.Config)
	s.res = &collide.Resolver{
		Bounds:      rec.Config.Bounds,
		Restitution: rec.Config.Physics.Restitution,
		Friction:    rec.Config.Physics.Friction,
	}
	for i, or := range rec.Objects {
		o, err := decodeObject(or)
		if err != nil {
			return nil, fmt.Errorf("%w: object %d: %v", ErrBadSeed, i, err)
		}
		s.res.Objects = append(s.res.Objects, o)
	}

	s.index.Rebuild(st.Pos, rec.Config.SmoothingRadius)
	return s, nil
}

func encodeObject(o collide.Object) (objectRecord, error) {
	switch t := o.(type) {
	case *collide.Plane:
		n := t.Normal
		return objectRecord{Type: "plane", Normal: &n, Offset: t.Offset}, nil
	case *collide.Sphere:
		c, v := t.Center, t.Vel
		return objectRecord{Type: "sphere", Center: &c, Radius: t.Radius, Vel: &v}, nil
	case *collide.Box:
		lo, hi := t.Min, t.Max
		return objectRecord{Type: "box", Min: &lo, Max: &hi}, nil
	default:
		return objectRecord{}, fmt.Errorf("fluid: unserializable object %T", o)
	}
}

func decodeObject(or objectRecord) (collide.Object, error) {
	switch or.Type {
	case "plane":
		if or.Normal == nil {
			return nil, fmt.Errorf("plane without normal")
		}
		return &collide.Plane{Normal: *or.Normal, Offset: or.Offset}, nil
	case "sphere":
		if or.Center == nil {
			return nil, fmt.Errorf("sphere without center")
		}
		s := &collide.Sphere{Center: *or.Center, Radius: or.Radius}
		if or.Vel != nil {
			s.Vel = *or.Vel
		}
		return s, nil
	case "box":
		if or.Min == nil || or.Max == nil {
			return nil, fmt.Errorf("box without extents")
		}
		return &collide.Box{Min: *or.Min, Max: *or.Max}, nil
	default:
		return nil, fmt.Errorf("unknown object type %q", or.Type)
	}
}

func flatten(vs []vec.Vec3) []float64 {
	out := make([]float64, 3*len(vs))
	for i, v := range vs {
		out[3*i] = v.X
		out[3*i+1] = v.Y
		out[3*i+2] = v.Z
	}
	return out
}

func unflatten(flat []float64, out []vec.Vec3) {
	for i := range out {
		out[i] = vec.Vec3{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
	}
}

func prefixOf(seed string) string {
	if idx := strings.IndexByte(seed, ':'); idx > 0 && idx < 16 {
		return seed[:idx]
	}
	return seed[:min(len(seed), 16)]
}

func newModelFor(cfg *config.Config) *forces.Model {
	return &forces.Model{
		Kern:           kernel.New(cfg.SmoothingRadius),
		RestDensity:    cfg.RestDensity,
		GasStiffness:   cfg.Physics.GasStiffness,
		Viscosity:      cfg.Physics.Viscosity,
		SurfaceTension: cfg.Physics.SurfaceTension,
		Gravity:        cfg.Gravity,
	}
}
