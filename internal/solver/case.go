package solver

import (
	"fmt"

	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
)

// Domain is one physics domain a case can request.
type Domain string

const (
	Magnetic Domain = "magnetic"
	Thermal  Domain = "thermal"
)

// OperatingPoint is one excitation and position to evaluate: instantaneous
// phase currents in amperes, armature displacement in millimeters and the
// ambient boundary temperature in degrees Celsius.
type OperatingPoint struct {
	Currents [3]float64
	Position float64
	Ambient  float64
}

// Case declares which physics domains to evaluate and at which operating
// points. Outputs selects named outputs; empty means the backend's default
// set for the requested domains. LossOverride supplies an explicit heat
// source in watts for thermal cases that do not compute magnetic losses.
type Case struct {
	Label        string
	Domains      []Domain
	Points       []OperatingPoint
	Outputs      []string
	LossOverride *float64
}

// Has reports whether the case requests the given domain.
func (c Case) Has(d Domain) bool {
	for _, dom := range c.Domains {
		if dom == d {
			return true
		}
	}
	return false
}

// Validate checks the case's own invariants: a non-empty domain set, at
// least one operating point, and a heat source for thermal physics. A
// thermal-only case with no magnetic solve and no loss override has
// nothing to heat the model with and is rejected.
func (c Case) Validate() error {
	if len(c.Domains) == 0 {
		return fmt.Errorf("physics case %q requests no domains", c.Label)
	}
	for _, d := range c.Domains {
		if d != Magnetic && d != Thermal {
			return fmt.Errorf("physics case %q requests unknown domain %q", c.Label, d)
		}
	}
	if len(c.Points) == 0 {
		return fmt.Errorf("physics case %q has no operating points", c.Label)
	}
	if c.Has(Thermal) && !c.Has(Magnetic) && c.LossOverride == nil {
		return fmt.Errorf("physics case %q requests thermal with no heat source: add a magnetic domain or a loss override", c.Label)
	}
	return nil
}

// RequiredInputs lists the operating-point fields a backend must consume
// for the requested domains.
func (c Case) RequiredInputs() []string {
	inputs := []string{"position"}
	if c.Has(Magnetic) {
		inputs = append(inputs, "phase_currents")
	}
	if c.Has(Thermal) {
		inputs = append(inputs, "ambient_temperature", "heat_source")
	}
	return inputs
}

// Satisfiable checks whether the model's material set carries the property
// data each requested domain needs, before any backend session is created.
// Thermal physics requires thermal conductivity on every region material.
func (c Case) Satisfiable(m motor.Model, lib *material.Library) error {
	for role, name := range m.Materials().Roles() {
		mat, err := lib.Lookup(name)
		if err != nil {
			return fmt.Errorf("region %q: %w", role, err)
		}
		if c.Has(Magnetic) && !mat.HasMagnetic() {
			return &UnsupportedPhysicsError{
				Domain:   Magnetic,
				Material: mat.Name,
				Property: "magnetic",
			}
		}
		if c.Has(Thermal) && !mat.HasThermal() {
			return &UnsupportedPhysicsError{
				Domain:   Thermal,
				Material: mat.Name,
				Property: "thermal conductivity",
			}
		}
	}
	return nil
}
