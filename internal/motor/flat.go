package motor

import (
	"github.com/san-kum/linmotor/internal/geom"
	"github.com/san-kum/linmotor/internal/physics"
)

var flatSpecs = []VarSpec{
	{Name: "num_slots", Unit: "count", Min: 3, Max: 60, Default: 9},
	{Name: "num_poles", Unit: "count", Min: 2, Max: 40, Default: 6},
	{Name: "coil_width", Unit: "mm", Min: 1, Max: 100, Default: 12},
	{Name: "coil_height", Unit: "mm", Min: 1, Max: 100, Default: 15},
	{Name: "coil_spacing", Unit: "mm", Min: 0.1, Max: 20, Default: 3},
	{Name: "pole_width", Unit: "mm", Min: 1, Max: 100, Default: 10},
	{Name: "pole_height", Unit: "mm", Min: 0.5, Max: 50, Default: 5},
	{Name: "air_gap", Unit: "mm", Min: 0.1, Max: 10, Default: 1},
	{Name: "axial_length", Unit: "mm", Min: 1, Max: 500, Default: 40},
	{Name: "back_iron_height", Unit: "mm", Min: 0, Max: 50, Default: 0},
	{Name: "wire_diameter", Unit: "mm", Min: 0.05, Max: 3, Default: 0.5},
	{Name: "waste_factor", Unit: "ratio", Min: 0, Max: 1, Default: 0.25},
	{Name: "current_flux_peak", Unit: "A", Min: 0, Max: 100, Default: 0},
	{Name: "current_force_peak", Unit: "A", Min: 0, Max: 200, Default: 10},
}

// FlatMotor is a planar linear motor: a row of coils above a magnet track,
// extruded by the axial length. The coil row is the moving armature.
type FlatMotor struct {
	design
}

// NewFlat binds the flat variable set. Missing values take defaults;
// unknown names are rejected.
func NewFlat(values map[string]float64, mats Materials) (*FlatMotor, error) {
	d, err := bind(Flat, flatSpecs, values, mats)
	if err != nil {
		return nil, err
	}
	return &FlatMotor{design: d}, nil
}

func (m *FlatMotor) Validate() error {
	if err := m.validateRanges(); err != nil {
		return err
	}
	for _, name := range []string{"num_slots", "num_poles"} {
		if err := m.validateCount(name); err != nil {
			return err
		}
	}
	if slots := m.count("num_slots"); slots%len(Phases) != 0 {
		return &InvalidDesignError{
			Variable: "num_slots",
			Value:    float64(slots),
			Reason:   "must be a multiple of 3 for three-phase windings",
		}
	}
	if poles := m.count("num_poles"); poles%2 != 0 {
		return &InvalidDesignError{
			Variable: "num_poles",
			Value:    float64(poles),
			Reason:   "must be even (whole pole pairs)",
		}
	}
	if m.mats.Core != "" && m.val("back_iron_height") <= 0 {
		return &InvalidDesignError{
			Variable: "back_iron_height",
			Value:    m.val("back_iron_height"),
			Reason:   "must be positive when a core material is assigned",
		}
	}
	return nil
}

type flatDerived struct {
	slots     int
	poles     int
	turns     int
	slotPitch float64
	polePitch float64
	trackLen  float64
}

func (m *FlatMotor) derived() flatDerived {
	var d flatDerived
	d.slots = m.count("num_slots")
	d.poles = m.count("num_poles")
	d.turns = physics.NumberTurns(
		m.val("coil_width"), m.val("coil_height"),
		m.val("wire_diameter"), m.val("waste_factor"),
	)
	d.slotPitch = m.val("coil_width") + m.val("coil_spacing")

	// Pole pitch follows from matching the magnet track span to the
	// armature span.
	d.polePitch = d.slotPitch * float64(d.slots) / float64(d.poles)
	d.trackLen = d.polePitch * float64(d.poles+4*outerPairs)
	return d
}

func (m *FlatMotor) Geometry() ([]geom.Region, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	d := m.derived()

	regions := make([]geom.Region, 0, d.slots+d.poles+4*outerPairs+1)

	// Coil row at y=0, phases cycling with alternating polarity.
	slotOrigins := geom.OriginPoints(d.slots, d.slotPitch, 0, 0, 0)
	for i, origin := range slotOrigins {
		turns := d.turns
		if i%2 == 1 {
			turns = -turns
		}
		profile := geom.Rect(origin, m.val("coil_width"), m.val("coil_height"))
		regions = append(regions, geom.Region{
			Profile:  profile,
			Role:     geom.RoleSlot,
			Material: m.mats.Slot,
			Group:    GroupSlot,
			Label:    geom.Centroid(profile),
			Circuit:  Phases[i%len(Phases)],
			Turns:    turns,
		})
	}

	// Magnet track below the air gap, alternating vertical magnetization,
	// extended past both armature ends.
	totalPoles := d.poles + 4*outerPairs
	poleY := -(m.val("air_gap") + m.val("pole_height"))
	poleOrigins := geom.OriginPoints(totalPoles, d.polePitch, 0,
		-2*float64(outerPairs)*d.polePitch, poleY)
	for i, origin := range poleOrigins {
		magnetization := 90.0
		if i%2 == 1 {
			magnetization = -90.0
		}
		profile := geom.Rect(origin, m.val("pole_width"), m.val("pole_height"))
		regions = append(regions, geom.Region{
			Profile:       profile,
			Role:          geom.RolePole,
			Material:      m.mats.Pole,
			Group:         GroupPole,
			Label:         geom.Centroid(profile),
			Magnetization: magnetization,
		})
	}

	// Optional back iron slab under the magnet track.
	if m.mats.Core != "" {
		ironH := m.val("back_iron_height")
		profile := geom.Rect(geom.Point{
			X: -2 * float64(outerPairs) * d.polePitch,
			Y: poleY - ironH,
		}, d.trackLen, ironH)
		regions = append(regions, geom.Region{
			Profile:  profile,
			Role:     geom.RoleCore,
			Material: m.mats.Core,
			Group:    GroupCore,
			Label:    geom.Centroid(profile),
		})
	}

	return regions, nil
}

func (m *FlatMotor) Traits() Traits {
	d := m.derived()
	return Traits{
		Circumference: d.polePitch * float64(d.poles),
		Poles:         d.poles,
		Slots:         d.slots,
		PolePairs:     d.poles / 2,
		Turns:         d.turns,
		PeakCurrents:  [2]float64{m.val("current_flux_peak"), m.val("current_force_peak")},
		MovingGroup:   GroupSlot,
		Axisymmetric:  false,
		Depth:         m.val("axial_length"),
	}
}
