package config

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluidlab/internal/vec"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.ParticleCount <= 0 {
		t.Error("particle count should be positive")
	}
	if cfg.SmoothingRadius <= 0 {
		t.Error("smoothing radius should be positive")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero particles", func(c *Config) { c.ParticleCount = 0 }, ErrNoParticles},
		{"negative particles", func(c *Config) { c.ParticleCount = -5 }, ErrNoParticles},
		{"zero radius", func(c *Config) { c.SmoothingRadius = 0 }, ErrBadRadius},
		{"negative radius", func(c *Config) { c.SmoothingRadius = -0.1 }, ErrBadRadius},
		{"zero mass", func(c *Config) { c.ParticleMass = 0 }, ErrBadMass},
		{"inverted bounds", func(c *Config) { c.Bounds.Max = c.Bounds.Min.Sub(vec.Vec3{X: 1, Y: 1, Z: 1}) }, ErrBadBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	orig := GetPreset("droplet")
	require.NotNil(t, orig)
	require.NoError(t, Save(path, orig))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("dam-break")
	require.NotNil(t, a)
	a.ParticleCount = 1

	b := GetPreset("dam-break")
	require.NotNil(t, b)
	assert.NotEqual(t, 1, b.ParticleCount, "preset table was mutated through a copy")
}

func TestGetPresetUnknown(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestPresetsAllValid(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}
