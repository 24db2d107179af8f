// Package storage persists simulation runs under a data directory:
// one subdirectory per run holding metadata, the final state seed and
// a CSV snapshot of particle positions.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"fluidlab/internal/fluid"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scene         string             `json:"scene"`
	Timestamp     time.Time          `json:"timestamp"`
	Dt            float64            `json:"dt"`
	Steps         int                `json:"steps"`
	ParticleCount int                `json:"particle_count"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes one completed run. The seed captures the full final
// state, so any saved run can be resumed or replayed exactly.
func (s *Store) Save(scene string, dt float64, sim *fluid.Simulator, metricVals map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Scene:         scene,
		Timestamp:     time.Now(),
		Dt:            dt,
		Steps:         sim.Steps(),
		ParticleCount: sim.Config().ParticleCount,
		Metrics:       metricVals,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	seed, err := sim.ToSeed()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "seed.txt"), []byte(seed), 0644); err != nil {
		return "", err
	}

	if err := s.writePositions(filepath.Join(runDir, "positions.csv"), sim); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writePositions(path string, sim *fluid.Simulator) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}

	flat := sim.Positions()
	for i := 0; i+2 < len(flat); i += 3 {
		row := []string{
			strconv.FormatFloat(flat[i], 'g', -1, 64),
			strconv.FormatFloat(flat[i+1], 'g', -1, 64),
			strconv.FormatFloat(flat[i+2], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns metadata for all saved runs, newest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Metadata(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Metadata(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return meta, nil
}

// LoadSeed returns the saved seed string for a run.
func (s *Store) LoadSeed(runID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "seed.txt"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadPositions reads the final particle positions of a run, one
// [x y z] row per particle in index order.
func (s *Store) LoadPositions(runID string) ([][3]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("storage: run %s: empty positions file", runID)
	}

	out := make([][3]float64, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		if len(row) != 3 {
			return nil, fmt.Errorf("storage: run %s: bad positions row %v", runID, row)
		}
		var p [3]float64
		for k, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s: %w", runID, err)
			}
			p[k] = v
		}
		out = append(out, p)
	}
	return out, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
