// Package solver defines the contract between the simulation orchestrator
// and finite-element backends: a three-phase prepare/run/extract interface,
// the normalized result schema, and the failure taxonomy. The split lets
// the orchestrator time-box and retry each phase independently, and lets
// tests substitute a fake backend without touching any external engine.
package solver

import (
	"context"
	"time"

	"github.com/san-kum/linmotor/internal/motor"
)

// Session is the live handle to one external engine invocation: its staged
// input files and working directory. Sessions are owned by a single run and
// never shared. Close releases everything the session staged, on every exit
// path.
type Session interface {
	WorkDir() string
	Close() error
}

// RawOutput is the engine's output as captured, before normalization.
// Values holds the parsed key/value pairs; Raw keeps the unparsed bytes for
// diagnostics when extraction fails.
type RawOutput struct {
	Values  map[string]float64
	Raw     []byte
	Stderr  []byte
	Elapsed time.Duration
}

// Solver is the contract every backend implements.
//
// Prepare builds the solver-native scene for one operating point of the
// case and returns the session holding it; translation failures are
// *TranslationError. Run executes the solve within ctx's deadline,
// reporting *TimeoutError or *CrashError. Extract normalizes raw output
// into per-domain results; missing fields are *ParseError with the raw
// output preserved. Extract must be pure: repeated calls on the same raw
// output yield identical results.
type Solver interface {
	Name() string
	Prepare(ctx context.Context, m motor.Model, c Case, point int) (Session, error)
	Run(ctx context.Context, s Session) (*RawOutput, error)
	Extract(raw *RawOutput, c Case) (map[Domain]*DomainResult, error)
}
