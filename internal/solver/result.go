package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/linmotor/internal/geom"
)

// Scalar is one named, unit-tagged output quantity.
type Scalar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FieldSample is an optional sampled field: values over a declared
// coordinate grid.
type FieldSample struct {
	Name   string       `json:"name"`
	Unit   string       `json:"unit"`
	Grid   []geom.Point `json:"grid"`
	Values []float64    `json:"values"`
}

// Failure is the typed failure marker attached to a run or a domain in
// place of outputs. Raw carries the engine output when parsing failed.
type Failure struct {
	Class   FailureClass `json:"class"`
	Message string       `json:"message"`
	Raw     *RawOutput   `json:"-"`
}

// DomainResult holds one physics domain's outputs. Either Scalars carries
// every requested scalar for the domain, or Failure is set and Scalars is
// empty; partially populated domains never leave the backend.
type DomainResult struct {
	Scalars map[string]Scalar `json:"scalars,omitempty"`
	Fields  []FieldSample     `json:"fields,omitempty"`
	Failure *Failure          `json:"failure,omitempty"`
}

// Result is the normalized output of one run, tagged by the originating
// design, case and operating point. Created only by the orchestrator after
// a run completes or records its failure; immutable thereafter.
type Result struct {
	DesignID string `json:"design_id"`
	Case     string `json:"case"`
	Point    int    `json:"point"`

	Domains map[Domain]*DomainResult `json:"domains,omitempty"`

	// Failure is set when the run failed before extraction could attach
	// per-domain results (validation, translation, timeout, crash).
	Failure *Failure `json:"failure,omitempty"`

	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Completed reports whether the run produced outputs for every requested
// domain.
func (r *Result) Completed() bool {
	if r.Failure != nil {
		return false
	}
	for _, d := range r.Domains {
		if d.Failure != nil {
			return false
		}
	}
	return len(r.Domains) > 0
}

// Scalar returns a named scalar from any domain.
func (r *Result) Scalar(name string) (Scalar, bool) {
	for _, d := range r.Domains {
		if s, ok := d.Scalars[name]; ok {
			return s, true
		}
	}
	return Scalar{}, false
}

// FailureClassOf returns the run-level failure class, or the first domain
// failure when the run itself succeeded.
func (r *Result) FailureClassOf() (FailureClass, bool) {
	if r.Failure != nil {
		return r.Failure.Class, true
	}
	for _, d := range r.Domains {
		if d.Failure != nil {
			return d.Failure.Class, true
		}
	}
	return "", false
}

// NewFailure builds a failure marker from an error, classifying it and
// preserving raw output for parse failures.
func NewFailure(err error) *Failure {
	f := &Failure{
		Class:   Classify(err),
		Message: err.Error(),
	}
	var parse *ParseError
	if errors.As(err, &parse) {
		f.Raw = parse.Raw
	}
	return f
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Class, f.Message)
}
