package solver

import (
	"errors"
	"fmt"

	"github.com/san-kum/linmotor/internal/motor"
)

// Failure classes for a simulation run. Deterministic classes indicate a
// contract mismatch retrying cannot fix; transient classes cover external
// engine instability and are worth a bounded retry.
type FailureClass string

const (
	ClassDesignInvalid      FailureClass = "design_invalid"
	ClassUnsupportedPhysics FailureClass = "unsupported_physics"
	ClassTranslation        FailureClass = "geometry_translation"
	ClassTimeout            FailureClass = "solver_timeout"
	ClassCrashed            FailureClass = "solver_crashed"
	ClassParse              FailureClass = "result_parse"
	ClassCanceled           FailureClass = "canceled"
	ClassUnknown            FailureClass = "unknown"
)

// Transient reports whether a failure class is worth retrying with a fresh
// session.
func (c FailureClass) Transient() bool {
	return c == ClassTimeout || c == ClassCrashed
}

// UnsupportedPhysicsError reports a physics domain requested against a
// model whose material set lacks the data that domain needs.
type UnsupportedPhysicsError struct {
	Domain   Domain
	Material string
	Property string
}

func (e *UnsupportedPhysicsError) Error() string {
	return fmt.Sprintf("physics %q unsupported: material %q has no %s data",
		e.Domain, e.Material, e.Property)
}

// TranslationError reports a shape or material with no backend-native
// equivalent, raised during prepare.
type TranslationError struct {
	Backend string
	Detail  string
	Wrapped error
}

func (e *TranslationError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: cannot translate %s: %v", e.Backend, e.Detail, e.Wrapped)
	}
	return fmt.Sprintf("%s: cannot translate %s", e.Backend, e.Detail)
}

func (e *TranslationError) Unwrap() error { return e.Wrapped }

// TimeoutError reports an external engine run exceeding its wall-clock
// budget.
type TimeoutError struct {
	Backend string
	Budget  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: solve exceeded wall-clock budget %s", e.Backend, e.Budget)
}

// CrashError reports an external engine process exiting abnormally.
type CrashError struct {
	Backend  string
	ExitCode int
	Stderr   string
}

func (e *CrashError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: engine crashed (exit %d): %s", e.Backend, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s: engine crashed (exit %d)", e.Backend, e.ExitCode)
}

// ParseError reports missing or malformed fields in raw engine output. Raw
// is retained for diagnostics.
type ParseError struct {
	Backend string
	Missing string
	Raw     *RawOutput
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: raw output missing expected field %q", e.Backend, e.Missing)
}

// Classify maps an error to its failure class via the taxonomy types.
func Classify(err error) FailureClass {
	if err == nil {
		return ""
	}

	var (
		design      *motor.InvalidDesignError
		unsupported *UnsupportedPhysicsError
		translation *TranslationError
		timeout     *TimeoutError
		crash       *CrashError
		parse       *ParseError
	)
	switch {
	case errors.As(err, &design):
		return ClassDesignInvalid
	case errors.As(err, &unsupported):
		return ClassUnsupportedPhysics
	case errors.As(err, &translation):
		return ClassTranslation
	case errors.As(err, &timeout):
		return ClassTimeout
	case errors.As(err, &crash):
		return ClassCrashed
	case errors.As(err, &parse):
		return ClassParse
	case errors.Is(err, ErrCanceled):
		return ClassCanceled
	default:
		return ClassUnknown
	}
}

// ErrCanceled indicates a run stopped at a phase boundary because its
// context was done.
var ErrCanceled = errors.New("solver: run canceled")
