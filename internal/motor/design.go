package motor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// design carries the state shared by all topologies: the bound variable
// set, material assignment and the identity fingerprint.
type design struct {
	topology Topology
	vars     []Variable
	index    map[string]int
	mats     Materials
	id       string
}

// bind pairs a topology's variable specs with caller-supplied values,
// falling back to spec defaults. Unknown names are rejected so a typo in an
// optimizer's variable map cannot silently leave a default in place.
func bind(top Topology, specs []VarSpec, values map[string]float64, mats Materials) (design, error) {
	d := design{
		topology: top,
		vars:     make([]Variable, 0, len(specs)),
		index:    make(map[string]int, len(specs)),
		mats:     mats,
	}

	known := make(map[string]bool, len(specs))
	for i, spec := range specs {
		known[spec.Name] = true
		v := Variable{VarSpec: spec, Value: spec.Default}
		if val, ok := values[spec.Name]; ok {
			v.Value = val
		}
		d.vars = append(d.vars, v)
		d.index[spec.Name] = i
	}

	for name := range values {
		if !known[name] {
			return design{}, &UnknownVariableError{Topology: top, Variable: name}
		}
	}

	d.id = fingerprint(d)
	return d, nil
}

func (d *design) ID() string           { return d.id }
func (d *design) Topology() Topology   { return d.topology }
func (d *design) Materials() Materials { return d.mats }

func (d *design) Variables() []Variable {
	out := make([]Variable, len(d.vars))
	copy(out, d.vars)
	return out
}

func (d *design) Value(name string) (float64, bool) {
	i, ok := d.index[name]
	if !ok {
		return 0, false
	}
	return d.vars[i].Value, true
}

// val returns a variable the topology itself declared; absence is a
// programming error, not user input.
func (d *design) val(name string) float64 {
	i, ok := d.index[name]
	if !ok {
		panic(fmt.Sprintf("motor: topology %q missing declared variable %q", d.topology, name))
	}
	return d.vars[i].Value
}

func (d *design) count(name string) int {
	return int(math.Round(d.val(name)))
}

// validateRanges checks every variable in declaration order.
func (d *design) validateRanges() error {
	for _, v := range d.vars {
		if v.Value < v.Min || v.Value > v.Max {
			return &InvalidDesignError{
				Variable: v.Name,
				Value:    v.Value,
				Min:      v.Min,
				Max:      v.Max,
			}
		}
	}
	return nil
}

// validateCount checks that a count-valued variable holds an integer.
func (d *design) validateCount(name string) error {
	v := d.val(name)
	if math.Abs(v-math.Round(v)) > 1e-9 {
		return &InvalidDesignError{
			Variable: name,
			Value:    v,
			Reason:   "must be an integer count",
		}
	}
	return nil
}

// fingerprint hashes topology, ordered variables and materials into a short
// stable design identity.
func fingerprint(d design) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", d.topology)
	for _, v := range d.vars {
		fmt.Fprintf(h, "%s=%.12g\n", v.Name, v.Value)
	}
	fmt.Fprintf(h, "%s|%s|%s|%s|%s\n",
		d.mats.Pole, d.mats.PoleGrade, d.mats.Slot, d.mats.Core, d.mats.air())
	return hex.EncodeToString(h.Sum(nil))[:12]
}
