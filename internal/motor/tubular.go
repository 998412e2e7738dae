package motor

import (
	"github.com/san-kum/linmotor/internal/geom"
	"github.com/san-kum/linmotor/internal/physics"
)

// outerPairs is the number of extra pole pairs drawn beyond each end of the
// armature so the end windings see a continuous magnet row.
const outerPairs = 2

var tubularSpecs = []VarSpec{
	{Name: "num_slots", Unit: "count", Min: 3, Max: 60, Default: 9},
	{Name: "num_poles", Unit: "count", Min: 2, Max: 40, Default: 6},
	{Name: "slot_width", Unit: "mm", Min: 1, Max: 100, Default: 10},
	{Name: "slot_height", Unit: "mm", Min: 1, Max: 100, Default: 10},
	{Name: "slot_spacing", Unit: "mm", Min: 0.1, Max: 20, Default: 2},
	{Name: "pole_radius", Unit: "mm", Min: 1, Max: 100, Default: 8},
	{Name: "air_gap", Unit: "mm", Min: 0.1, Max: 10, Default: 1},
	{Name: "wire_diameter", Unit: "mm", Min: 0.05, Max: 3, Default: 0.5},
	{Name: "waste_factor", Unit: "ratio", Min: 0, Max: 1, Default: 0.25},
	{Name: "current_flux_peak", Unit: "A", Min: 0, Max: 100, Default: 0},
	{Name: "current_force_peak", Unit: "A", Min: 0, Max: 200, Default: 10},
}

// TubularMotor is an axisymmetric linear motor: a central magnet stack on
// the axis with a coil sleeve around it. The x axis is radius, y is the
// axial direction.
type TubularMotor struct {
	design
}

// NewTubular binds the tubular variable set. Missing values take defaults;
// unknown names are rejected.
func NewTubular(values map[string]float64, mats Materials) (*TubularMotor, error) {
	d, err := bind(Tubular, tubularSpecs, values, mats)
	if err != nil {
		return nil, err
	}
	return &TubularMotor{design: d}, nil
}

func (m *TubularMotor) Validate() error {
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
	return nil
}

// derived recomputes the dependent geometry quantities from the current
// variable values. Never cached: Geometry and Traits both call it fresh.
func (m *TubularMotor) derived() tubularDerived {
	var d tubularDerived
	d.slots = m.count("num_slots")
	d.poles = m.count("num_poles")
	d.turns = physics.NumberTurns(
		m.val("slot_width"), m.val("slot_height"),
		m.val("wire_diameter"), m.val("waste_factor"),
	)
	d.slotPitch = m.val("slot_height") + m.val("slot_spacing")

	// The magnet stack is scaled so the pole row spans the same axial
	// length as the slot row.
	motorLength := d.slotPitch * float64(d.slots)
	d.poleHeight = motorLength / float64(d.poles)
	d.polePitch = d.poleHeight

	d.slotInnerRadius = m.val("pole_radius") + m.val("air_gap")
	return d
}

type tubularDerived struct {
	slots           int
	poles           int
	turns           int
	slotPitch       float64
	poleHeight      float64
	polePitch       float64
	slotInnerRadius float64
}

func (m *TubularMotor) Geometry() ([]geom.Region, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	d := m.derived()

	regions := make([]geom.Region, 0, d.slots+d.poles+4*outerPairs)

	// Armature coil sleeve, one slot per winding, phases cycling a-b-c
	// with alternating turn polarity.
	slotOrigins := geom.OriginPoints(d.slots, 0, d.slotPitch, d.slotInnerRadius, 0)
	for i, origin := range slotOrigins {
		turns := d.turns
		if i%2 == 1 {
			turns = -turns
		}
		profile := geom.Rect(origin, m.val("slot_width"), m.val("slot_height"))
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

	// Magnet stack on the axis, alternating axial magnetization, extended
	// by outer pairs past both ends.
	totalPoles := d.poles + 4*outerPairs
	poleOrigins := geom.OriginPoints(totalPoles, 0, d.polePitch,
		0, -2*float64(outerPairs)*d.polePitch)
	for i, origin := range poleOrigins {
		magnetization := 90.0
		if i%2 == 1 {
			magnetization = -90.0
		}
		profile := geom.Rect(origin, m.val("pole_radius"), d.poleHeight)
		regions = append(regions, geom.Region{
			Profile:       profile,
			Role:          geom.RolePole,
			Material:      m.mats.Pole,
			Group:         GroupPole,
			Label:         geom.Centroid(profile),
			Magnetization: magnetization,
		})
	}

	return regions, nil
}

func (m *TubularMotor) Traits() Traits {
	d := m.derived()
	return Traits{
		Circumference: d.poleHeight * float64(d.poles),
		Poles:         d.poles,
		Slots:         d.slots,
		PolePairs:     d.poles / 2,
		Turns:         d.turns,
		PeakCurrents:  [2]float64{m.val("current_flux_peak"), m.val("current_force_peak")},
		MovingGroup:   GroupSlot,
		Axisymmetric:  true,
	}
}
