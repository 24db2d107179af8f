package config

import (
	"sort"

	"fluidlab/internal/vec"
)

// Presets are ready-made scenes for the CLI.
var Presets = map[string]*Config{
	// A block of fluid released against one wall of a long tank.
	"dam-break": {
		ParticleCount:   2744,
		SmoothingRadius: 0.1,
		RestDensity:     1000.0,
		ParticleMass:    0.12,
		Gravity:         vec.Vec3{Y: -9.81},
		Bounds: vec.Bounds{
			Min: vec.Vec3{X: -2, Y: 0, Z: -0.5},
			Max: vec.Vec3{X: 2, Y: 2, Z: 0.5},
		},
		Physics: Params{
			GasStiffness: 80.0,
			Viscosity:    0.25,
			Restitution:  0.2,
			Friction:     0.1,
		},
	},
	// A compact blob falling under gravity with cohesion enabled.
	"droplet": {
		ParticleCount:   729,
		SmoothingRadius: 0.08,
		RestDensity:     1000.0,
		ParticleMass:    0.1,
		Gravity:         vec.Vec3{Y: -9.81},
		Bounds: vec.Bounds{
			Min: vec.Vec3{X: -1, Y: 0, Z: -1},
			Max: vec.Vec3{X: 1, Y: 3, Z: 1},
		},
		Physics: Params{
			GasStiffness:   50.0,
			Viscosity:      0.3,
			SurfaceTension: 0.05,
			Restitution:    0.4,
			Friction:       0.05,
		},
	},
	// A tall column collapsing into a shallow pool.
	"column": {
		ParticleCount:   1728,
		SmoothingRadius: 0.1,
		RestDensity:     1000.0,
		ParticleMass:    0.12,
		Gravity:         vec.Vec3{Y: -9.81},
		Bounds: vec.Bounds{
			Min: vec.Vec3{X: -0.6, Y: 0, Z: -0.6},
			Max: vec.Vec3{X: 0.6, Y: 4, Z: 0.6},
		},
		Physics: Params{
			GasStiffness: 70.0,
			Viscosity:    0.2,
			Restitution:  0.1,
			Friction:     0.15,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
// Copying keeps callers from mutating the shared table.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
