package material

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrNotFound indicates a material name absent from the library.
	ErrNotFound = errors.New("material: not found in library")

	// ErrMissingParam indicates a tag-required parameter was not supplied.
	ErrMissingParam = errors.New("material: required parameter missing")
)

// Magnetic holds the properties the magnetic solver needs. Coercivity and
// remanence are zero for non-magnet materials; grade selection fills them
// in for magnets.
type Magnetic struct {
	RelativePermeability float64 `toml:"relative_permeability"`
	Coercivity           float64 `toml:"coercivity"`
	Remanence            float64 `toml:"remanence"`
	Conductivity         float64 `toml:"conductivity"`
}

// Thermal holds heat-flow properties. A nil Thermal on a material means the
// material cannot participate in thermal simulations.
type Thermal struct {
	Conductivity           float64 `toml:"conductivity"`
	VolumetricHeatCapacity float64 `toml:"volumetric_heat_capacity"`
}

type Physical struct {
	Density      float64 `toml:"density"`
	WireDiameter float64 `toml:"wire_diameter"`
}

// Material is one library entry. Tag selects which parameters Use requires:
// "magnet" needs a grade, "wire" needs a wire diameter, anything else is
// generic.
type Material struct {
	Name     string              `toml:"name"`
	Tag      string              `toml:"tag"`
	Magnetic *Magnetic           `toml:"magnetic"`
	Thermal  *Thermal            `toml:"thermal"`
	Physical *Physical           `toml:"physical"`
	Grades   map[string]Magnetic `toml:"grades"`
}

// HasMagnetic reports whether the material carries magnetic property data.
func (m Material) HasMagnetic() bool { return m.Magnetic != nil }

// HasThermal reports whether the material carries thermal property data.
func (m Material) HasThermal() bool { return m.Thermal != nil }

// Params carries the tag-specific parameters Use may require.
type Params struct {
	Grade        string
	WireDiameter float64
}

type libraryFile struct {
	Material []Material `toml:"material"`
}

// Library resolves material names to property sets and tracks which
// materials a model actually used, so adapters only register those. One
// library may serve concurrent solves; usage tracking is synchronized.
type Library struct {
	materials []Material

	mu   sync.Mutex
	used []string
}

//go:embed materials.toml
var builtin []byte

// Builtin loads the material library shipped with the package.
func Builtin() *Library {
	lib, err := parse(builtin)
	if err != nil {
		// The embedded library is fixed at build time; a parse failure
		// here is a packaging bug, not a runtime condition.
		panic(fmt.Sprintf("material: embedded library invalid: %v", err))
	}
	return lib
}

// Load reads an external TOML material library.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading material library: %w", err)
	}
	lib, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing material library %s: %w", path, err)
	}
	return lib, nil
}

func parse(data []byte) (*Library, error) {
	var file libraryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &Library{materials: file.Material}, nil
}

// Lookup finds a material by name, case-insensitive. The returned copy is
// safe to modify.
func (l *Library) Lookup(name string) (Material, error) {
	lower := strings.ToLower(name)
	for _, m := range l.materials {
		if strings.ToLower(m.Name) == lower {
			return m.clone(), nil
		}
	}
	return Material{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Use retrieves a material and applies its tag-required parameters: magnets
// need a grade from the material's grade table, wires need a wire diameter.
func (l *Library) Use(name string, params Params) (Material, error) {
	m, err := l.Lookup(name)
	if err != nil {
		return Material{}, err
	}

	switch strings.ToLower(m.Tag) {
	case "magnet":
		if params.Grade == "" {
			return Material{}, fmt.Errorf("%w: material %q requires a grade", ErrMissingParam, m.Name)
		}
		grade, ok := m.Grades[params.Grade]
		if !ok {
			return Material{}, fmt.Errorf("material %q has no grade %q", m.Name, params.Grade)
		}
		if m.Magnetic == nil {
			m.Magnetic = &Magnetic{}
		}
		if grade.Coercivity != 0 {
			m.Magnetic.Coercivity = grade.Coercivity
		}
		if grade.Remanence != 0 {
			m.Magnetic.Remanence = grade.Remanence
		}
		if grade.RelativePermeability != 0 {
			m.Magnetic.RelativePermeability = grade.RelativePermeability
		}
	case "wire":
		if params.WireDiameter <= 0 {
			return Material{}, fmt.Errorf("%w: material %q requires a positive wire diameter", ErrMissingParam, m.Name)
		}
		if m.Physical == nil {
			m.Physical = &Physical{}
		}
		m.Physical.WireDiameter = params.WireDiameter
	}

	l.track(m.Name)
	return m, nil
}

// Used returns the names of materials retrieved through Use, in first-use
// order.
func (l *Library) Used() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.used))
	copy(out, l.used)
	return out
}

// Names lists every material in the library.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.materials))
	for _, m := range l.materials {
		names = append(names, m.Name)
	}
	return names
}

func (l *Library) track(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.used {
		if u == name {
			return
		}
	}
	l.used = append(l.used, name)
}

func (m Material) clone() Material {
	c := m
	if m.Magnetic != nil {
		mag := *m.Magnetic
		c.Magnetic = &mag
	}
	if m.Thermal != nil {
		th := *m.Thermal
		c.Thermal = &th
	}
	if m.Physical != nil {
		ph := *m.Physical
		c.Physical = &ph
	}
	return c
}
