package motor

import (
	"errors"
	"reflect"
	"testing"
)

func testMaterials() Materials {
	return Materials{
		Pole:      "NdFeB",
		PoleGrade: "N42",
		Slot:      "Copper wire",
	}
}

func TestBuildUnknownTopology(t *testing.T) {
	_, err := Build("radial", nil, testMaterials())
	if err == nil {
		t.Error("expected error for unknown topology")
	}
}

func TestBuildUnknownVariable(t *testing.T) {
	_, err := Build(Tubular, map[string]float64{"magnet_girth": 5}, testMaterials())
	var unknown *UnknownVariableError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownVariableError, got %v", err)
	}
	if unknown.Variable != "magnet_girth" {
		t.Errorf("expected offending variable magnet_girth, got %s", unknown.Variable)
	}
}

func TestDefaultsValidate(t *testing.T) {
	for _, top := range Topologies() {
		m, err := Build(top, nil, testMaterials())
		if err != nil {
			t.Fatalf("%s: build failed: %v", top, err)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%s: default design should validate, got %v", top, err)
		}
	}
}

func TestValidateNamesOffendingVariable(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		values   map[string]float64
		variable string
	}{
		{"tubular air gap too small", Tubular, map[string]float64{"air_gap": 0.01}, "air_gap"},
		{"tubular negative slot width", Tubular, map[string]float64{"slot_width": -3}, "slot_width"},
		{"flat pole height too large", Flat, map[string]float64{"pole_height": 500}, "pole_height"},
		{"flat wire too thick", Flat, map[string]float64{"wire_diameter": 10}, "wire_diameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.topology, tt.values, testMaterials())
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			var invalid *InvalidDesignError
			if !errors.As(m.Validate(), &invalid) {
				t.Fatalf("expected InvalidDesignError, got %v", m.Validate())
			}
			if invalid.Variable != tt.variable {
				t.Errorf("expected variable %q named, got %q", tt.variable, invalid.Variable)
			}
		})
	}
}

func TestValidateStructuralConstraints(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]float64
		variable string
	}{
		{"slots not multiple of three", map[string]float64{"num_slots": 10}, "num_slots"},
		{"odd pole count", map[string]float64{"num_poles": 7}, "num_poles"},
		{"fractional slot count", map[string]float64{"num_slots": 8.5}, "num_slots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewTubular(tt.values, testMaterials())
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			var invalid *InvalidDesignError
			if !errors.As(m.Validate(), &invalid) {
				t.Fatalf("expected InvalidDesignError, got %v", m.Validate())
			}
			if invalid.Variable != tt.variable {
				t.Errorf("expected variable %q named, got %q", tt.variable, invalid.Variable)
			}
		})
	}
}

func TestGeometryDeterministic(t *testing.T) {
	for _, top := range Topologies() {
		m, err := Build(top, nil, testMaterials())
		if err != nil {
			t.Fatalf("%s: build failed: %v", top, err)
		}
		first, err := m.Geometry()
		if err != nil {
			t.Fatalf("%s: geometry failed: %v", top, err)
		}
		second, err := m.Geometry()
		if err != nil {
			t.Fatalf("%s: second geometry failed: %v", top, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: geometry not deterministic", top)
		}
	}
}

func TestGeometryRejectsInvalidDesign(t *testing.T) {
	m, err := NewTubular(map[string]float64{"air_gap": 0.01}, testMaterials())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := m.Geometry(); err == nil {
		t.Error("expected geometry to reject an out-of-range design")
	}
}

func TestFingerprintStability(t *testing.T) {
	a, err := NewTubular(map[string]float64{"air_gap": 1.5}, testMaterials())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTubular(map[string]float64{"air_gap": 1.5}, testMaterials())
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewTubular(map[string]float64{"air_gap": 1.6}, testMaterials())
	if err != nil {
		t.Fatal(err)
	}

	if a.ID() != b.ID() {
		t.Error("identical designs should share an ID")
	}
	if a.ID() == c.ID() {
		t.Error("different designs should not share an ID")
	}
}

func TestVariablesAreCopies(t *testing.T) {
	m, err := NewFlat(nil, testMaterials())
	if err != nil {
		t.Fatal(err)
	}
	vars := m.Variables()
	vars[0].Value = -999

	fresh := m.Variables()
	if fresh[0].Value == -999 {
		t.Error("mutating the returned slice must not affect the model")
	}
}

func TestSpecs(t *testing.T) {
	specs, err := Specs(Tubular)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) == 0 {
		t.Fatal("expected variable specs for tubular")
	}

	if _, err := Specs("radial"); err == nil {
		t.Error("expected error for unknown topology")
	}
}
