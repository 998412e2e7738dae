// Package sweep evaluates a design across a displacement range. It turns
// the motor's commutation profile into operating points, runs them through
// the orchestrator and returns position-ordered frames.
package sweep

import (
	"context"
	"fmt"

	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/orch"
	"github.com/san-kum/linmotor/internal/physics"
	"github.com/san-kum/linmotor/internal/solver"
)

type Config struct {
	// Travel is the displacement range in millimeters. Zero means one
	// full commutation cycle of the motor.
	Travel float64

	// Samples is the number of displacement steps; the sweep evaluates
	// Samples+1 positions starting at zero.
	Samples int

	// PhaseOffset shifts the electrical angle of the drive profile, in
	// radians, to align it with the magnet row.
	PhaseOffset float64

	Ambient float64
	Domains []solver.Domain
	Outputs []string
	Label   string
}

// Frame is one evaluated position of a sweep.
type Frame struct {
	Position float64        `json:"position"`
	Currents [3]float64     `json:"currents"`
	Result   *solver.Result `json:"result"`
}

// Completed reports whether every frame's run produced outputs.
func Completed(frames []Frame) bool {
	for _, f := range frames {
		if !f.Result.Completed() {
			return false
		}
	}
	return len(frames) > 0
}

// Displacement runs the design through a commutated displacement sweep.
// Frames come back in position order, one per sample, including failed
// runs.
func Displacement(ctx context.Context, o *orch.Orchestrator, m motor.Model, cfg Config) ([]Frame, error) {
	if cfg.Samples < 1 {
		return nil, fmt.Errorf("sweep: need at least 1 sample, got %d", cfg.Samples)
	}

	traits := m.Traits()
	travel := cfg.Travel
	if travel == 0 {
		travel = traits.Circumference
	}
	if travel <= 0 {
		return nil, fmt.Errorf("sweep: travel must be positive, got %g", travel)
	}

	step, profile := physics.Commutation(
		traits.Circumference, travel, traits.PolePairs,
		traits.PeakCurrents[0], traits.PeakCurrents[1],
		cfg.Samples, cfg.PhaseOffset,
	)

	c := solver.Case{
		Label:   cfg.Label,
		Domains: cfg.Domains,
		Outputs: cfg.Outputs,
	}
	if c.Label == "" {
		c.Label = "displacement"
	}
	if len(c.Domains) == 0 {
		c.Domains = []solver.Domain{solver.Magnetic}
	}
	for i, currents := range profile {
		c.Points = append(c.Points, solver.OperatingPoint{
			Currents: currents,
			Position: float64(i) * step,
			Ambient:  cfg.Ambient,
		})
	}

	results := o.Execute(ctx, m, c)

	frames := make([]Frame, 0, len(results))
	for i, res := range results {
		frames = append(frames, Frame{
			Position: c.Points[i].Position,
			Currents: c.Points[i].Currents,
			Result:   res,
		})
	}
	return frames, nil
}
