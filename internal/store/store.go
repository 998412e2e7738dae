// Package store persists simulation runs to disk: one directory per run
// holding metadata and the normalized results, plus CSV and JSON exports
// for sweep frames.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/solver"
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
	ID        string             `json:"id"`
	DesignID  string             `json:"design_id"`
	Topology  string             `json:"topology"`
	Case      string             `json:"case"`
	Timestamp time.Time          `json:"timestamp"`
	Variables map[string]float64 `json:"variables"`
	Materials motor.Materials    `json:"materials"`
	Completed int                `json:"completed"`
	Failed    int                `json:"failed"`
}

// SaveRun writes one run directory with metadata.json and results.json
// and returns the run ID.
func (s *Store) SaveRun(m motor.Model, caseLabel string, results []*solver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", m.ID(), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	variables := make(map[string]float64)
	for _, v := range m.Variables() {
		variables[v.Name] = v.Value
	}

	meta := RunMetadata{
		ID:        runID,
		DesignID:  m.ID(),
		Topology:  string(m.Topology()),
		Case:      caseLabel,
		Timestamp: time.Now(),
		Variables: variables,
		Materials: m.Materials(),
	}
	for _, r := range results {
		if r.Completed() {
			meta.Completed++
		} else {
			meta.Failed++
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "results.json"), results); err != nil {
		return "", err
	}
	return runID, nil
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

// List returns the metadata of every stored run. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadResults(runID string) ([]*solver.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "results.json"))
	if err != nil {
		return nil, err
	}

	var results []*solver.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}
