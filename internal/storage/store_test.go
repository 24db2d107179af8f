package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fluidlab/internal/config"
	"fluidlab/internal/fluid"
)

func testSim(t *testing.T) *fluid.Simulator {
	t.Helper()
	cfg := config.Default()
	cfg.ParticleCount = 8
	sim, err := fluid.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestSaveAndList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	sim := testSim(t)
	runID, err := store.Save("dam-break", 0.004, sim, map[string]float64{"kinetic_energy": 1.5})
	if err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != runID {
		t.Errorf("run id = %s, want %s", runs[0].ID, runID)
	}
	if runs[0].Scene != "dam-break" {
		t.Errorf("scene = %s", runs[0].Scene)
	}
	if runs[0].ParticleCount != 8 {
		t.Errorf("particle count = %d, want 8", runs[0].ParticleCount)
	}
	if runs[0].Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("metrics not persisted: %v", runs[0].Metrics)
	}
}

func TestSeedRoundTripThroughStore(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	sim := testSim(t)
	if err := sim.Step(0.004); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("droplet", 0.004, sim, nil)
	if err != nil {
		t.Fatal(err)
	}

	seed, err := store.LoadSeed(runID)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := fluid.FromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Steps() != sim.Steps() {
		t.Errorf("restored steps = %d, want %d", restored.Steps(), sim.Steps())
	}
}

func TestPositionsCSV(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	sim := testSim(t)
	runID, err := store.Save("column", 0.004, sim, nil)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, runID, "positions.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Header plus one row per particle.
	if len(rows) != 1+8 {
		t.Errorf("csv rows = %d, want 9", len(rows))
	}
}

func TestLoadPositionsRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	sim := testSim(t)
	runID, err := store.Save("column", 0.004, sim, nil)
	if err != nil {
		t.Fatal(err)
	}

	positions, err := store.LoadPositions(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 8 {
		t.Fatalf("loaded %d positions, want 8", len(positions))
	}

	flat := sim.Positions()
	for i, p := range positions {
		for k := 0; k < 3; k++ {
			if p[k] != flat[3*i+k] {
				t.Fatalf("position %d axis %d = %g, want %g", i, k, p[k], flat[3*i+k])
			}
		}
	}
}

func TestListEmptyDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"))
	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
