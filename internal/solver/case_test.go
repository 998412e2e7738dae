package solver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
)

func testModel(t *testing.T) motor.Model {
	t.Helper()
	m, err := motor.NewTubular(nil, motor.Materials{
		Pole:      "NdFeB",
		PoleGrade: "N42",
		Slot:      "Copper wire",
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func onePoint() []OperatingPoint {
	return []OperatingPoint{{Currents: [3]float64{1, -0.5, -0.5}}}
}

func TestCaseValidate(t *testing.T) {
	loss := 12.5
	tests := []struct {
		name    string
		c       Case
		wantErr bool
	}{
		{"magnetic only", Case{Domains: []Domain{Magnetic}, Points: onePoint()}, false},
		{"magnetic and thermal", Case{Domains: []Domain{Magnetic, Thermal}, Points: onePoint()}, false},
		{"thermal with override", Case{Domains: []Domain{Thermal}, Points: onePoint(), LossOverride: &loss}, false},
		{"no domains", Case{Points: onePoint()}, true},
		{"unknown domain", Case{Domains: []Domain{"acoustic"}, Points: onePoint()}, true},
		{"no points", Case{Domains: []Domain{Magnetic}}, true},
		{"thermal without heat source", Case{Domains: []Domain{Thermal}, Points: onePoint()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequiredInputs(t *testing.T) {
	c := Case{Domains: []Domain{Magnetic, Thermal}, Points: onePoint()}
	inputs := c.RequiredInputs()

	want := map[string]bool{
		"position": true, "phase_currents": true,
		"ambient_temperature": true, "heat_source": true,
	}
	for _, in := range inputs {
		if !want[in] {
			t.Errorf("unexpected input %q", in)
		}
		delete(want, in)
	}
	for missing := range want {
		t.Errorf("missing input %q", missing)
	}
}

func TestSatisfiableMagnetic(t *testing.T) {
	c := Case{Domains: []Domain{Magnetic}, Points: onePoint()}
	if err := c.Satisfiable(testModel(t), material.Builtin()); err != nil {
		t.Errorf("builtin materials should satisfy magnetic: %v", err)
	}
}

func TestSatisfiableThermalMissingData(t *testing.T) {
	// A library whose magnet has no thermal section.
	dir := t.TempDir()
	path := filepath.Join(dir, "mats.toml")
	content := `
[[material]]
name = "Air"
tag = ""

[material.magnetic]
relative_permeability = 1.0

[material.thermal]
conductivity = 0.026
volumetric_heat_capacity = 0.0012

[[material]]
name = "NdFeB"
tag = "magnet"

[material.magnetic]
relative_permeability = 1.05

[material.grades.N42]
coercivity = 955000.0
remanence = 1.31

[[material]]
name = "Copper wire"
tag = "wire"

[material.magnetic]
relative_permeability = 1.0
conductivity = 58.0

[material.thermal]
conductivity = 385.0
volumetric_heat_capacity = 3.45
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	lib, err := material.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	c := Case{Domains: []Domain{Magnetic, Thermal}, Points: onePoint()}
	err = c.Satisfiable(testModel(t), lib)

	var unsupported *UnsupportedPhysicsError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedPhysicsError, got %v", err)
	}
	if unsupported.Material != "NdFeB" {
		t.Errorf("expected NdFeB named, got %q", unsupported.Material)
	}
	if unsupported.Domain != Thermal {
		t.Errorf("expected thermal domain, got %q", unsupported.Domain)
	}
}

func TestSatisfiableUnknownMaterial(t *testing.T) {
	m, err := motor.NewTubular(nil, motor.Materials{
		Pole: "Unobtainium", Slot: "Copper wire",
	})
	if err != nil {
		t.Fatal(err)
	}
	c := Case{Domains: []Domain{Magnetic}, Points: onePoint()}
	if err := c.Satisfiable(m, material.Builtin()); err == nil {
		t.Error("expected error for unknown material")
	}
}
