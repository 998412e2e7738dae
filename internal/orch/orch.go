// Package orch drives simulation runs through their lifecycle: validate
// the design and case up front, walk each operating point through the
// backend's prepare/run/extract phases, retry transient engine failures
// with a fresh session, and emit one normalized result per point.
package orch

import (
	"context"
	"log"
	"time"

	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/solver"
)

type Config struct {
	// Retries is the number of extra attempts granted to transient
	// failures (timeouts, engine crashes). Deterministic failures are
	// never retried.
	Retries int

	// Workers caps concurrent solves in Batch. Zero means one.
	Workers int

	// Trace, when set, observes every lifecycle transition.
	Trace func(Transition)
}

// Orchestrator owns one backend and runs cases against it.
type Orchestrator struct {
	backend solver.Solver
	lib     *material.Library
	cfg     Config
}

func New(backend solver.Solver, lib *material.Library, cfg Config) *Orchestrator {
	return &Orchestrator{backend: backend, lib: lib, cfg: cfg}
}

// Execute runs every operating point of the case against the model and
// returns one result per point, in point order. Validation happens once,
// before any backend call; an invalid design or unsatisfiable case yields
// failed results with zero attempts.
func (o *Orchestrator) Execute(ctx context.Context, m motor.Model, c solver.Case) []*solver.Result {
	if err := o.validate(m, c); err != nil {
		n := len(c.Points)
		if n == 0 {
			n = 1
		}
		results := make([]*solver.Result, n)
		for i := range results {
			results[i] = &solver.Result{
				DesignID: m.ID(),
				Case:     c.Label,
				Point:    i,
				Failure:  solver.NewFailure(err),
			}
		}
		return results
	}

	results := make([]*solver.Result, len(c.Points))
	for i := range c.Points {
		results[i] = o.runPoint(ctx, m, c, i)
	}
	return results
}

func (o *Orchestrator) validate(m motor.Model, c solver.Case) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return c.Satisfiable(m, o.lib)
}

// runPoint walks one operating point through the run lifecycle. The
// session opened for each attempt is closed on every exit path.
func (o *Orchestrator) runPoint(ctx context.Context, m motor.Model, c solver.Case, point int) *solver.Result {
	r := &run{
		designID: m.ID(),
		caseName: c.Label,
		point:    point,
		state:    Pending,
		trace:    o.cfg.Trace,
	}
	res := &solver.Result{DesignID: m.ID(), Case: c.Label, Point: point}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	maxAttempts := o.cfg.Retries + 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r.attempt = attempt
		res.Attempts = attempt
		if r.state == Pending {
			r.to(Preparing)
		}

		err := o.attempt(ctx, r, m, c, point, res)
		if err == nil {
			r.to(Completed)
			return res
		}

		class := solver.Classify(err)
		if class.Transient() && attempt < maxAttempts {
			log.Printf("warning: %s point %d attempt %d failed (%s), retrying", c.Label, point, attempt, class)
			// A transient failure during Prepare leaves the run already
			// in Preparing; only the later phases need to transition back.
			if r.state != Preparing {
				r.to(Preparing)
			}
			continue
		}

		res.Failure = solver.NewFailure(err)
		r.to(Failed)
		return res
	}
	return res
}

// attempt runs one prepare/run/extract pass. It enters with the run in
// Preparing; on a non-nil error the state matches the phase that failed
// and the caller decides between retry and Failed.
func (o *Orchestrator) attempt(ctx context.Context, r *run, m motor.Model, c solver.Case, point int, res *solver.Result) error {
	if err := ctx.Err(); err != nil {
		return solver.ErrCanceled
	}

	ses, err := o.backend.Prepare(ctx, m, c, point)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ses.Close(); cerr != nil {
			log.Printf("warning: closing session for %s point %d: %v", c.Label, point, cerr)
		}
	}()

	r.to(Running)
	raw, err := o.backend.Run(ctx, ses)
	if err != nil {
		return err
	}

	r.to(Extracting)
	domains, err := o.backend.Extract(raw, c)
	if err != nil {
		return err
	}
	res.Domains = domains
	return nil
}
