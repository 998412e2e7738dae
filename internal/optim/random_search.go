package optim

import (
	"context"
	"math/rand"

	"github.com/san-kum/linmotor/internal/orch"
	"github.com/san-kum/linmotor/internal/solver"
)

// Bound is one sampled dimension: a variable name and its closed range.
type Bound struct {
	Name     string
	Min, Max float64
}

type RandomSearch struct {
	bounds  []Bound
	samples int
	rng     *rand.Rand
}

// NewRandomSearch samples the bounded space uniformly. The seed makes a
// search reproducible.
func NewRandomSearch(bounds []Bound, samples int, seed int64) *RandomSearch {
	return &RandomSearch{
		bounds:  bounds,
		samples: samples,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Search draws the configured number of samples and returns the best
// scored candidate plus every candidate in draw order.
func (r *RandomSearch) Search(ctx context.Context, o *orch.Orchestrator, build Builder, c solver.Case, objective Objective) (Candidate, []Candidate, error) {
	assignments := make([]map[string]float64, 0, r.samples)
	for i := 0; i < r.samples; i++ {
		vars := make(map[string]float64, len(r.bounds))
		for _, b := range r.bounds {
			vars[b.Name] = b.Min + r.rng.Float64()*(b.Max-b.Min)
		}
		assignments = append(assignments, vars)
	}

	candidates, best, err := evaluate(ctx, o, build, c, objective, assignments)
	if err != nil {
		return Candidate{}, candidates, err
	}
	return candidates[best], candidates, nil
}
