package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/linmotor/internal/motor"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Motor.Topology != "tubular" {
		t.Errorf("expected topology tubular, got %s", cfg.Motor.Topology)
	}
	if cfg.Solver.Timeout <= 0 {
		t.Error("solver timeout should be positive")
	}
	if cfg.Solver.Workers <= 0 {
		t.Error("worker count should be positive")
	}
	if cfg.Sweep.Samples <= 0 {
		t.Error("sweep samples should be positive")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
motor:
  topology: flat
  variables:
    air_gap: 2.5
solver:
  binary: /opt/femm/bin/femm
  timeout: 30s
  retries: 5
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Motor.Topology != "flat" {
		t.Errorf("expected flat, got %s", cfg.Motor.Topology)
	}
	if cfg.Motor.Variables["air_gap"] != 2.5 {
		t.Errorf("expected air_gap 2.5, got %f", cfg.Motor.Variables["air_gap"])
	}
	if time.Duration(cfg.Solver.Timeout) != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", time.Duration(cfg.Solver.Timeout))
	}
	if cfg.Solver.Retries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.Solver.Retries)
	}
	// Untouched fields keep their defaults.
	if cfg.Solver.Workers != DefaultWorkers {
		t.Errorf("expected default workers, got %d", cfg.Solver.Workers)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Motor.Variables = map[string]float64{"num_slots": 12}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Motor.Variables["num_slots"] != 12 {
		t.Error("variables did not survive a save/load round trip")
	}
}

func TestBuildModel(t *testing.T) {
	cfg := DefaultConfig()
	m, err := cfg.BuildModel()
	if err != nil {
		t.Fatalf("building model: %v", err)
	}
	if m.Topology() != motor.Tubular {
		t.Errorf("expected tubular, got %s", m.Topology())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("default config should build a valid model: %v", err)
	}
}

func TestLibraryBuiltinFallback(t *testing.T) {
	cfg := DefaultConfig()
	lib, err := cfg.Library()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Lookup("NdFeB"); err != nil {
		t.Error("builtin library should carry NdFeB")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tubular", "dense")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Motor.Variables["num_slots"] != 12 {
		t.Errorf("expected num_slots 12, got %f", cfg.Motor.Variables["num_slots"])
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("tubular", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "baseline") != nil {
		t.Error("expected nil for nonexistent topology")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("tubular")) == 0 {
		t.Error("expected presets for tubular")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent topology")
	}
}

func TestPresetModelsValidate(t *testing.T) {
	for topology, presets := range Presets {
		for name, cfg := range presets {
			m, err := cfg.BuildModel()
			if err != nil {
				t.Errorf("%s/%s: build failed: %v", topology, name, err)
				continue
			}
			if err := m.Validate(); err != nil {
				t.Errorf("%s/%s: invalid preset design: %v", topology, name, err)
			}
		}
	}
}
