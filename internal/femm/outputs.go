package femm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/linmotor/internal/solver"
)

// outputSpec describes one named output the adapter can compute: the
// physics domain it belongs to and its unit.
type outputSpec struct {
	Domain solver.Domain
	Unit   string
}

// Catalog of every output name this backend knows how to extract. The
// per-phase circuit outputs follow the phase naming of the motor package.
var outputCatalog = map[string]outputSpec{
	"force_stress_tensor":   {solver.Magnetic, "N"},
	"force_lorentz":         {solver.Magnetic, "N"},
	"flux_linkage_pa":       {solver.Magnetic, "Wb"},
	"flux_linkage_pb":       {solver.Magnetic, "Wb"},
	"flux_linkage_pc":       {solver.Magnetic, "Wb"},
	"circuit_voltage_pa":    {solver.Magnetic, "V"},
	"circuit_voltage_pb":    {solver.Magnetic, "V"},
	"circuit_voltage_pc":    {solver.Magnetic, "V"},
	"circuit_inductance_pa": {solver.Magnetic, "H"},
	"circuit_inductance_pb": {solver.Magnetic, "H"},
	"circuit_inductance_pc": {solver.Magnetic, "H"},
	"circuit_power":         {solver.Magnetic, "W"},
	"loss_joule":            {solver.Magnetic, "W"},
	"temp_avg":              {solver.Thermal, "C"},
	"temp_peak":             {solver.Thermal, "C"},
}

// DefaultOutputs returns the outputs computed when a case does not name
// its own set.
func DefaultOutputs(domains []solver.Domain) []string {
	var out []string
	for _, d := range domains {
		switch d {
		case solver.Magnetic:
			out = append(out,
				"force_stress_tensor", "force_lorentz",
				"flux_linkage_pa", "flux_linkage_pb", "flux_linkage_pc",
				"circuit_power", "loss_joule")
		case solver.Thermal:
			out = append(out, "temp_avg", "temp_peak")
		}
	}
	return out
}

// requestedOutputs resolves a case's output names against the catalog.
func requestedOutputs(c solver.Case) ([]string, error) {
	names := c.Outputs
	if len(names) == 0 {
		names = DefaultOutputs(c.Domains)
	}
	for _, n := range names {
		spec, ok := outputCatalog[n]
		if !ok {
			return nil, &solver.TranslationError{
				Backend: backendName,
				Detail:  fmt.Sprintf("output %q", n),
			}
		}
		if !c.Has(spec.Domain) {
			return nil, &solver.TranslationError{
				Backend: backendName,
				Detail:  fmt.Sprintf("output %q needs domain %q, not requested by the case", n, spec.Domain),
			}
		}
	}
	return names, nil
}

// parseValues reads the engine's key=value output lines. Unparseable lines
// are skipped; missing keys are caught during extraction.
func parseValues(raw []byte) map[string]float64 {
	values := make(map[string]float64)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			continue
		}
		values[strings.TrimSpace(key)] = f
	}
	return values
}

// Extract normalizes raw engine output into per-domain results. Each
// requested domain either receives every one of its scalars or a parse
// failure marker with the raw output retained; partially filled domains
// never escape. The error return is non-nil only when no requested domain
// could be populated. Extract is pure: the same raw output always yields
// the same results.
func (e *Engine) Extract(raw *solver.RawOutput, c solver.Case) (map[solver.Domain]*solver.DomainResult, error) {
	names, err := requestedOutputs(c)
	if err != nil {
		return nil, err
	}

	values := raw.Values
	if values == nil {
		values = parseValues(raw.Raw)
	}

	byDomain := make(map[solver.Domain][]string)
	for _, n := range names {
		spec := outputCatalog[n]
		byDomain[spec.Domain] = append(byDomain[spec.Domain], n)
	}

	results := make(map[solver.Domain]*solver.DomainResult, len(byDomain))
	var firstErr error
	populated := 0

	for domain, domainNames := range byDomain {
		dr := &solver.DomainResult{Scalars: make(map[string]solver.Scalar, len(domainNames))}
		for _, n := range domainNames {
			v, ok := values[n]
			if !ok {
				perr := &solver.ParseError{Backend: backendName, Missing: n, Raw: raw}
				dr = &solver.DomainResult{Failure: solver.NewFailure(perr)}
				if firstErr == nil {
					firstErr = perr
				}
				break
			}
			dr.Scalars[n] = solver.Scalar{Name: n, Value: v, Unit: outputCatalog[n].Unit}
		}
		if dr.Failure == nil {
			populated++
		}
		results[domain] = dr
	}

	if populated == 0 && firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
