package orch

import "fmt"

// RunState tracks one simulation run through its lifecycle.
type RunState string

const (
	Pending    RunState = "pending"
	Preparing  RunState = "preparing"
	Running    RunState = "running"
	Extracting RunState = "extracting"
	Completed  RunState = "completed"
	Failed     RunState = "failed"
)

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool {
	return s == Completed || s == Failed
}

// allowed enumerates the legal lifecycle transitions. A transient failure
// sends Running back to Preparing for a fresh session; every other failure
// path ends in Failed.
func allowed(from, to RunState) bool {
	switch from {
	case Pending:
		return to == Preparing || to == Failed
	case Preparing:
		return to == Running || to == Failed
	case Running:
		return to == Extracting || to == Preparing || to == Failed
	case Extracting:
		return to == Completed || to == Failed
	default:
		return false
	}
}

// Transition is one observed state change of a run, tagged by the run's
// identity and attempt number.
type Transition struct {
	DesignID string
	Case     string
	Point    int
	Attempt  int
	From, To RunState
}

// run holds the mutable lifecycle state of a single point solve.
type run struct {
	designID string
	caseName string
	point    int
	attempt  int
	state    RunState
	trace    func(Transition)
}

func (r *run) to(next RunState) {
	if !allowed(r.state, next) {
		panic(fmt.Sprintf("orch: disallowed transition %s -> %s", r.state, next))
	}
	if r.trace != nil {
		r.trace(Transition{
			DesignID: r.designID,
			Case:     r.caseName,
			Point:    r.point,
			Attempt:  r.attempt,
			From:     r.state,
			To:       next,
		})
	}
	r.state = next
}
