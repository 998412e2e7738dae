package motor

import (
	"fmt"
	"sort"
)

// Builder constructs a model from a variable map and material assignment.
type Builder func(values map[string]float64, mats Materials) (Model, error)

var builders = map[Topology]Builder{
	Flat: func(values map[string]float64, mats Materials) (Model, error) {
		return NewFlat(values, mats)
	},
	Tubular: func(values map[string]float64, mats Materials) (Model, error) {
		return NewTubular(values, mats)
	},
}

// Register adds a topology builder. Existing topologies cannot be replaced.
func Register(top Topology, b Builder) error {
	if _, exists := builders[top]; exists {
		return fmt.Errorf("topology %q already registered", top)
	}
	builders[top] = b
	return nil
}

// Build constructs a model of the named topology.
func Build(top Topology, values map[string]float64, mats Materials) (Model, error) {
	b, ok := builders[top]
	if !ok {
		return nil, fmt.Errorf("unknown topology %q (available: %v)", top, Topologies())
	}
	return b(values, mats)
}

// Topologies lists registered topology names, sorted.
func Topologies() []Topology {
	tops := make([]Topology, 0, len(builders))
	for t := range builders {
		tops = append(tops, t)
	}
	sort.Slice(tops, func(i, j int) bool { return tops[i] < tops[j] })
	return tops
}

// Specs returns the variable declarations for a topology, so callers can
// enumerate names, units and ranges without building a model.
func Specs(top Topology) ([]VarSpec, error) {
	switch top {
	case Flat:
		out := make([]VarSpec, len(flatSpecs))
		copy(out, flatSpecs)
		return out, nil
	case Tubular:
		out := make([]VarSpec, len(tubularSpecs))
		copy(out, tubularSpecs)
		return out, nil
	default:
		return nil, fmt.Errorf("unknown topology %q", top)
	}
}
