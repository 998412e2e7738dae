package orch

import (
	"context"
	"sync"

	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/solver"
)

// Candidate pairs one design with the case to run it under.
type Candidate struct {
	Model motor.Model
	Case  solver.Case
}

// Batch executes candidates with at most Workers solves in flight and
// returns their results indexed like the input. A malformed candidate
// fails in its own slot without touching the backend and without
// disturbing its neighbours.
func (o *Orchestrator) Batch(ctx context.Context, candidates []Candidate) [][]*solver.Result {
	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([][]*solver.Result, len(candidates))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, cand Candidate) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = o.Execute(ctx, cand.Model, cand.Case)
		}(i, cand)
	}
	wg.Wait()
	return results
}
