package motor

import (
	"github.com/san-kum/linmotor/internal/geom"
)

// Topology identifies a motor family. Each topology projects the same
// variable/material contract into a different coordinate system.
type Topology string

const (
	Flat    Topology = "flat"    // planar slab stack
	Tubular Topology = "tubular" // axisymmetric revolution
)

// Phases are the three winding circuits every model wires its slots into.
var Phases = [3]string{"pa", "pb", "pc"}

// Engine groups. The armature (slots) is the moving group in both
// topologies.
const (
	GroupBoundary = 0
	GroupSlot     = 1
	GroupPole     = 2
	GroupCore     = 3
)

// VarSpec declares one design variable: its unit and the closed range a
// value must lie in for the design to be simulated.
type VarSpec struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

// Variable is a design variable with its value bound.
type Variable struct {
	VarSpec
	Value float64
}

// Materials assigns a library material to each region role. Air defaults
// to "Air" when empty. Core is optional; an empty Core means no back iron.
type Materials struct {
	Pole      string
	PoleGrade string
	Slot      string
	Core      string
	Air       string
}

func (m Materials) air() string {
	if m.Air == "" {
		return "Air"
	}
	return m.Air
}

// Roles returns the occupied region roles and their material names.
func (m Materials) Roles() map[geom.Role]string {
	roles := map[geom.Role]string{
		geom.RolePole: m.Pole,
		geom.RoleSlot: m.Slot,
		geom.RoleAir:  m.air(),
	}
	if m.Core != "" {
		roles[geom.RoleCore] = m.Core
	}
	return roles
}

// Traits are the derived quantities solvers and sweeps need beyond raw
// geometry.
type Traits struct {
	// Circumference is the electrical travel for one full commutation
	// cycle set, pole pitch times pole count.
	Circumference float64
	Poles         int
	Slots         int
	PolePairs     int
	Turns         int
	// PeakCurrents holds the d-axis (flux) and q-axis (force) peaks.
	PeakCurrents [2]float64
	MovingGroup  int
	// Axisymmetric is true for revolution topologies, false for planar.
	Axisymmetric bool
	// Depth is the planar stack depth; zero for axisymmetric models.
	Depth float64
}

// Model is a solver-independent motor design. Implementations are immutable
// after construction: a new candidate is a new Model. Geometry and Traits
// are pure functions of the bound variables, recomputed on every call.
type Model interface {
	// ID is a stable fingerprint of topology, variables and materials.
	ID() string
	Topology() Topology
	// Variables returns the bound design variables in declaration order.
	Variables() []Variable
	// Value returns a variable by name; ok is false for unknown names.
	Value(name string) (float64, bool)
	Materials() Materials
	// Validate checks every variable against its declared range and the
	// topology's structural constraints. Returns *InvalidDesignError.
	Validate() error
	// Geometry projects the variables into an ordered region list.
	Geometry() ([]geom.Region, error)
	Traits() Traits
}
