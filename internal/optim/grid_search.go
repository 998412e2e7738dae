package optim

import (
	"context"

	"github.com/san-kum/linmotor/internal/orch"
	"github.com/san-kum/linmotor/internal/solver"
)

// Axis is one grid dimension: a variable name and the values to try.
type Axis struct {
	Name   string
	Values []float64
}

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes []Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Search evaluates the full cartesian product of the axes and returns the
// best scored candidate plus every candidate in grid order.
func (g *GridSearch) Search(ctx context.Context, o *orch.Orchestrator, build Builder, c solver.Case, objective Objective) (Candidate, []Candidate, error) {
	var assignments []map[string]float64
	g.enumerate(0, make(map[string]float64), &assignments)

	candidates, best, err := evaluate(ctx, o, build, c, objective, assignments)
	if err != nil {
		return Candidate{}, candidates, err
	}
	return candidates[best], candidates, nil
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		vars := make(map[string]float64, len(current))
		for k, v := range current {
			vars[k] = v
		}
		*out = append(*out, vars)
		return
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		current[axis.Name] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, axis.Name)
}
