package motor

import (
	"math"
	"testing"

	"github.com/san-kum/linmotor/internal/geom"
)

func TestTubularDerivedGeometry(t *testing.T) {
	m, err := NewTubular(map[string]float64{
		"num_slots":    9,
		"num_poles":    6,
		"slot_height":  10,
		"slot_spacing": 2,
	}, testMaterials())
	if err != nil {
		t.Fatal(err)
	}

	// slot pitch 12, motor length 108, pole height 108/6 = 18.
	traits := m.Traits()
	expected := 18.0 * 6
	if math.Abs(traits.Circumference-expected) > 1e-9 {
		t.Errorf("expected circumference %f, got %f", expected, traits.Circumference)
	}
	if traits.PolePairs != 3 {
		t.Errorf("expected 3 pole pairs, got %d", traits.PolePairs)
	}
	if !traits.Axisymmetric {
		t.Error("tubular should be axisymmetric")
	}
}

func TestTubularGeometryRegions(t *testing.T) {
	m, err := NewTubular(nil, testMaterials())
	if err != nil {
		t.Fatal(err)
	}
	regions, err := m.Geometry()
	if err != nil {
		t.Fatalf("geometry failed: %v", err)
	}

	var slots, poles int
	for _, r := range regions {
		switch r.Role {
		case geom.RoleSlot:
			slots++
			if r.Circuit == "" {
				t.Error("slot region missing circuit assignment")
			}
			if r.Turns == 0 {
				t.Error("slot region missing turns")
			}
		case geom.RolePole:
			poles++
			if r.Magnetization != 90 && r.Magnetization != -90 {
				t.Errorf("unexpected magnetization %f", r.Magnetization)
			}
		}
		if !geom.Closed(r.Profile) {
			t.Errorf("region profile not closed: %+v", r.Profile)
		}
	}

	if slots != 9 {
		t.Errorf("expected 9 slot regions, got %d", slots)
	}
	if poles != 6+4*outerPairs {
		t.Errorf("expected %d pole regions, got %d", 6+4*outerPairs, poles)
	}
}

func TestTubularSlotsClearMagnets(t *testing.T) {
	m, err := NewTubular(nil, testMaterials())
	if err != nil {
		t.Fatal(err)
	}
	regions, err := m.Geometry()
	if err != nil {
		t.Fatal(err)
	}

	poleRadius, _ := m.Value("pole_radius")
	airGap, _ := m.Value("air_gap")
	for _, r := range regions {
		if r.Role != geom.RoleSlot {
			continue
		}
		for _, pt := range r.Profile.Points {
			if pt.X < poleRadius+airGap-1e-9 {
				t.Fatalf("slot intrudes into air gap at x=%f", pt.X)
			}
		}
	}
}

func TestTubularPhaseCycling(t *testing.T) {
	m, err := NewTubular(nil, testMaterials())
	if err != nil {
		t.Fatal(err)
	}
	regions, err := m.Geometry()
	if err != nil {
		t.Fatal(err)
	}

	var circuits []string
	for _, r := range regions {
		if r.Role == geom.RoleSlot {
			circuits = append(circuits, r.Circuit)
		}
	}
	for i, c := range circuits {
		if c != Phases[i%3] {
			t.Errorf("slot %d: expected phase %s, got %s", i, Phases[i%3], c)
		}
	}
}
