// Package optim explores the design-variable space: grid and random
// search over declared variable ranges, scored by an objective over the
// normalized run results.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/orch"
	"github.com/san-kum/linmotor/internal/solver"
)

// Builder constructs a model from one variable assignment.
type Builder func(vars map[string]float64) (motor.Model, error)

// Objective scores a candidate's results; higher is better. ok is false
// when the results carry nothing to score.
type Objective func(results []*solver.Result) (score float64, ok bool)

// MeanScalar scores a candidate by the mean of a named scalar over its
// completed runs.
func MeanScalar(name string) Objective {
	return func(results []*solver.Result) (float64, bool) {
		var sum float64
		var n int
		for _, r := range results {
			if !r.Completed() {
				continue
			}
			if s, ok := r.Scalar(name); ok {
				sum += s.Value
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}
}

// Candidate is one evaluated point of the search space.
type Candidate struct {
	Variables map[string]float64
	Score     float64
	Scored    bool
	Results   []*solver.Result
	Err       error
}

// evaluate builds and runs every variable assignment through the
// orchestrator's pool, scores the outcomes and returns the candidates in
// input order plus the index of the best scored one.
func evaluate(ctx context.Context, o *orch.Orchestrator, build Builder, c solver.Case, objective Objective, assignments []map[string]float64) ([]Candidate, int, error) {
	candidates := make([]Candidate, len(assignments))

	var runnable []orch.Candidate
	var runnableIdx []int
	for i, vars := range assignments {
		candidates[i] = Candidate{Variables: vars}
		m, err := build(vars)
		if err != nil {
			candidates[i].Err = err
			continue
		}
		runnable = append(runnable, orch.Candidate{Model: m, Case: c})
		runnableIdx = append(runnableIdx, i)
	}

	results := o.Batch(ctx, runnable)
	for k, rs := range results {
		candidates[runnableIdx[k]].Results = rs
	}

	best := -1
	bestScore := math.Inf(-1)
	for i := range candidates {
		if candidates[i].Results == nil {
			continue
		}
		score, ok := objective(candidates[i].Results)
		if !ok {
			continue
		}
		candidates[i].Score = score
		candidates[i].Scored = true
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return candidates, -1, fmt.Errorf("optim: no candidate produced a score")
	}
	return candidates, best, nil
}
