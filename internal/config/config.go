// Package config defines the simulation configuration and the tunable
// physics parameters, with YAML loading and named presets.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fluidlab/internal/vec"
)

// Validation errors for simulator construction.
var (
	ErrNoParticles = errors.New("config: particle count must be positive")
	ErrBadRadius   = errors.New("config: smoothing radius must be positive")
	ErrBadMass     = errors.New("config: particle mass must be positive")
	ErrBadBounds   = errors.New("config: domain bounds must have positive extent")
)

// Config is the structural simulation configuration. It is immutable
// after simulator construction: no live reconfiguration.
type Config struct {
	ParticleCount   int        `yaml:"particle_count" json:"particle_count"`
	SmoothingRadius float64    `yaml:"smoothing_radius" json:"smoothing_radius"`
	RestDensity     float64    `yaml:"rest_density" json:"rest_density"`
	ParticleMass    float64    `yaml:"particle_mass" json:"particle_mass"`
	Gravity         vec.Vec3   `yaml:"gravity" json:"gravity"`
	Bounds          vec.Bounds `yaml:"bounds" json:"bounds"`

	Physics Params `yaml:"physics" json:"physics"`
}

// Params holds the tunable force and contact coefficients. They
// default independently of the structural config so physics can be
// retuned without re-deriving particle counts or radii.
type Params struct {
	GasStiffness   float64 `yaml:"gas_stiffness" json:"gas_stiffness"`
	Viscosity      float64 `yaml:"viscosity" json:"viscosity"`
	SurfaceTension float64 `yaml:"surface_tension" json:"surface_tension"`
	Restitution    float64 `yaml:"restitution" json:"restitution"`
	Friction       float64 `yaml:"friction" json:"friction"`
}

func DefaultParams() Params {
	return Params{
		GasStiffness:   60.0,
		Viscosity:      0.18,
		SurfaceTension: 0.0,
		Restitution:    0.3,
		Friction:       0.05,
	}
}

func Default() *Config {
	return &Config{
		ParticleCount:   1000,
		SmoothingRadius: 0.1,
		RestDensity:     1000.0,
		ParticleMass:    0.12,
		Gravity:         vec.Vec3{Y: -9.81},
		Bounds: vec.Bounds{
			Min: vec.Vec3{X: -1, Y: 0, Z: -1},
			Max: vec.Vec3{X: 1, Y: 2, Z: 1},
		},
		Physics: DefaultParams(),
	}
}

// Validate checks the invariants a simulator constructor relies on.
func (c *Config) Validate() error {
	if c.ParticleCount <= 0 {
		return ErrNoParticles
	}
	if c.SmoothingRadius <= 0 {
		return ErrBadRadius
	}
	if c.ParticleMass <= 0 {
		return ErrBadMass
	}
	if !c.Bounds.Valid() {
		return ErrBadBounds
	}
	return nil
}

// Load reads a YAML config, layered over defaults so partial files
// stay valid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
