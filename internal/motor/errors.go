package motor

import "fmt"

// InvalidDesignError reports a design variable outside its declared range,
// or a structural constraint violation, naming the offending variable.
type InvalidDesignError struct {
	Variable string
	Value    float64
	Min      float64
	Max      float64
	Reason   string
}

func (e *InvalidDesignError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid design: variable %q = %g: %s", e.Variable, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid design: variable %q = %g outside range [%g, %g]",
		e.Variable, e.Value, e.Min, e.Max)
}

// UnknownVariableError reports a variable name absent from the topology's
// declared set.
type UnknownVariableError struct {
	Topology Topology
	Variable string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("topology %q has no design variable %q", e.Topology, e.Variable)
}
