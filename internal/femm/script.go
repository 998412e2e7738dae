package femm

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/linmotor/internal/geom"
	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/solver"
)

// scriptBuilder assembles the Lua script for one solve: the magnetic
// problem first, then (when requested) the heat-flow problem fed by the
// magnetic Joule loss or the case's explicit override. A thermal-only
// case with a loss override gets no magnetic problem at all.
type scriptBuilder struct {
	lib     *material.Library
	model   motor.Model
	regions []geom.Region
	c       solver.Case
	point   solver.OperatingPoint
	workDir string
	outPath string

	buf strings.Builder
}

func (b *scriptBuilder) build() (string, error) {
	mats, err := b.resolveMaterials()
	if err != nil {
		return "", err
	}
	for _, r := range b.regions {
		if !geom.Closed(r.Profile) {
			return "", &solver.TranslationError{
				Backend: backendName,
				Detail:  fmt.Sprintf("open %s profile in %s region", r.Profile.Shape, r.Role),
			}
		}
	}

	b.linef("-- generated model script")
	b.linef("out = openfile(%q, \"w\")", b.outPath)

	if b.c.Has(solver.Magnetic) || b.c.LossOverride == nil {
		if err := b.magneticProblem(mats); err != nil {
			return "", err
		}
	}
	if b.c.Has(solver.Thermal) {
		if err := b.thermalProblem(mats); err != nil {
			return "", err
		}
	}

	b.linef("closefile(out)")
	b.linef("quit()")
	return b.buf.String(), nil
}

// resolveMaterials looks up every region material, applying the model's
// magnet grade and wire diameter. Unknown materials are translation
// failures, not parse-time surprises.
func (b *scriptBuilder) resolveMaterials() (map[string]material.Material, error) {
	assigned := b.model.Materials()
	wireDiameter, _ := b.model.Value("wire_diameter")

	mats := make(map[string]material.Material)
	for _, r := range b.regions {
		if _, done := mats[r.Material]; done {
			continue
		}
		params := material.Params{}
		if r.Material == assigned.Pole {
			params.Grade = assigned.PoleGrade
		}
		if r.Material == assigned.Slot {
			params.WireDiameter = wireDiameter
		}
		m, err := b.lib.Use(r.Material, params)
		if err != nil {
			return nil, &solver.TranslationError{
				Backend: backendName,
				Detail:  fmt.Sprintf("material %q", r.Material),
				Wrapped: err,
			}
		}
		mats[r.Material] = m
	}

	airName := assigned.Roles()[geom.RoleAir]
	if _, done := mats[airName]; !done {
		air, err := b.lib.Use(airName, material.Params{})
		if err != nil {
			return nil, &solver.TranslationError{
				Backend: backendName,
				Detail:  fmt.Sprintf("air region material %q", airName),
				Wrapped: err,
			}
		}
		mats[air.Name] = air
	}
	return mats, nil
}

func (b *scriptBuilder) magneticProblem(mats map[string]material.Material) error {
	traits := b.model.Traits()

	b.linef("newdocument(0)")
	if traits.Axisymmetric {
		b.linef("mi_probdef(0, \"millimeters\", \"axi\", 1e-8)")
	} else {
		b.linef("mi_probdef(0, \"millimeters\", \"planar\", 1e-8, %g)", traits.Depth)
	}

	// Phase circuits carry this operating point's instantaneous currents.
	for i, phase := range motor.Phases {
		b.linef("mi_addcircprop(%q, %g, 1)", phase, b.point.Currents[i])
	}

	for name, m := range mats {
		mag := m.Magnetic
		if mag == nil {
			return &solver.TranslationError{
				Backend: backendName,
				Detail:  fmt.Sprintf("material %q has no magnetic data", name),
			}
		}
		b.linef("mi_addmaterial(%q, %g, %g, %g, 0, %g)",
			name, mag.RelativePermeability, mag.RelativePermeability,
			mag.Coercivity, mag.Conductivity)
	}

	for _, r := range b.regions {
		if err := b.drawRegion("mi", r); err != nil {
			return err
		}
	}

	// Shift the armature to this operating point's position.
	if b.point.Position != 0 {
		dx, dy := b.motion()
		b.linef("mi_selectgroup(%d)", traits.MovingGroup)
		b.linef("mi_movetranslate(%g, %g)", dx, dy)
		b.linef("mi_clearselected()")
	}

	cx, cy, radius := b.boundingCircle()
	b.linef("mi_makeABC(7, %g, %g, %g, 0)", radius, cx, cy)

	b.linef("mi_saveas(%q)", b.workDir+"/model.fem")
	b.linef("mi_analyze(1)")
	b.linef("mi_loadsolution()")

	// Post-processing: always capture joule loss into a variable so a
	// following thermal problem can use it as its heat source.
	b.linef("mo_groupselectblock(%d)", traits.MovingGroup)
	b.linef("fy_stress = mo_blockintegral(19)")
	b.linef("fy_lorentz = mo_blockintegral(12)")
	b.linef("mo_clearblock()")
	b.linef("power = 0")
	for _, phase := range motor.Phases {
		b.linef("i_%s, v_%s, flux_%s = mo_getcircuitproperties(%q)", phase, phase, phase, phase)
		b.linef("power = power + i_%s * v_%s", phase, phase)
	}
	// Static solve: every watt through the circuits is resistive.
	b.linef("joule = power")

	for _, phase := range motor.Phases {
		b.linef("ind_%s = 0", phase)
		b.linef("if i_%s ~= 0 then ind_%s = flux_%s / i_%s end", phase, phase, phase, phase)
	}

	b.writeOutput("force_stress_tensor", "fy_stress")
	b.writeOutput("force_lorentz", "fy_lorentz")
	for _, phase := range motor.Phases {
		b.writeOutput("flux_linkage_"+phase, "flux_"+phase)
		b.writeOutput("circuit_voltage_"+phase, "v_"+phase)
		b.writeOutput("circuit_inductance_"+phase, "ind_"+phase)
	}
	b.writeOutput("circuit_power", "power")
	b.writeOutput("loss_joule", "joule")
	b.linef("mo_close()")
	return nil
}

func (b *scriptBuilder) thermalProblem(mats map[string]material.Material) error {
	traits := b.model.Traits()

	// Heat source: case override wins, otherwise the Joule loss captured
	// from the magnetic solve above.
	if b.c.LossOverride != nil {
		b.linef("loss = %g", *b.c.LossOverride)
	} else {
		b.linef("loss = joule")
	}
	volume := b.slotVolume()
	if volume <= 0 {
		return &solver.TranslationError{
			Backend: backendName,
			Detail:  "slot volume for volumetric heating",
		}
	}

	b.linef("newdocument(2)")
	if traits.Axisymmetric {
		b.linef("hi_probdef(\"millimeters\", \"axi\", 1e-8)")
	} else {
		b.linef("hi_probdef(\"millimeters\", \"planar\", 1e-8, %g)", traits.Depth)
	}

	slotMaterial := b.model.Materials().Slot
	for name, m := range mats {
		th := m.Thermal
		if th == nil {
			return &solver.UnsupportedPhysicsError{
				Domain:   solver.Thermal,
				Material: name,
				Property: "thermal conductivity",
			}
		}
		if name == slotMaterial {
			// Joule loss distributed over the winding volume (m^3).
			b.linef("hi_addmaterial(%q, %g, %g, loss / %g, %g)",
				name, th.Conductivity, th.Conductivity, volume, th.VolumetricHeatCapacity)
		} else {
			b.linef("hi_addmaterial(%q, %g, %g, 0, %g)",
				name, th.Conductivity, th.Conductivity, th.VolumetricHeatCapacity)
		}
	}

	b.linef("hi_addboundprop(\"ambient\", 0, %g, 0, 0, 0, 0)", b.point.Ambient)

	for _, r := range b.regions {
		if err := b.drawRegion("hi", r); err != nil {
			return err
		}
	}

	// Enclosing air box with the ambient temperature pinned on its edges.
	minX, minY, maxX, maxY := b.bounds()
	growX, growY := (maxX-minX)*0.5, (maxY-minY)*0.5
	x1, y1 := minX-growX, minY-growY
	x2, y2 := maxX+growX, maxY+growY
	if traits.Axisymmetric && x1 < 0 {
		x1 = 0
	}
	b.linef("hi_drawrectangle(%g, %g, %g, %g)", x1, y1, x2, y2)
	b.linef("hi_addblocklabel(%g, %g)", x2-growX/2, y2-growY/2)
	b.linef("hi_selectlabel(%g, %g)", x2-growX/2, y2-growY/2)
	b.linef("hi_setblockprop(%q, 1, 0, %d)", b.model.Materials().Roles()[geom.RoleAir], motor.GroupBoundary)
	b.linef("hi_clearselected()")
	for _, seg := range [][2]float64{
		{(x1 + x2) / 2, y1}, {(x1 + x2) / 2, y2}, {x1, (y1 + y2) / 2}, {x2, (y1 + y2) / 2},
	} {
		b.linef("hi_selectsegment(%g, %g)", seg[0], seg[1])
	}
	b.linef("hi_setsegmentprop(\"ambient\", 0, 1, 0, %d)", motor.GroupBoundary)
	b.linef("hi_clearselected()")

	b.linef("hi_saveas(%q)", b.workDir+"/model.feh")
	b.linef("hi_analyze(1)")
	b.linef("hi_loadsolution()")

	// Winding temperature: average over the slot group, peak at the slot
	// block labels.
	b.linef("ho_groupselectblock(%d)", motor.GroupSlot)
	b.linef("t_int = ho_blockintegral(0)")
	b.linef("t_vol = ho_blockintegral(1)")
	b.linef("ho_clearblock()")
	b.linef("t_avg = t_int / t_vol")
	b.linef("t_peak = t_avg")
	for _, r := range b.regions {
		if r.Role != geom.RoleSlot {
			continue
		}
		b.linef("t_here = ho_gettemperature(%g, %g)", r.Label.X, r.Label.Y)
		b.linef("if t_here > t_peak then t_peak = t_here end")
	}

	b.writeOutput("temp_avg", "t_avg")
	b.writeOutput("temp_peak", "t_peak")
	b.linef("ho_close()")
	return nil
}

// drawRegion emits the draw + block label + property statements for one
// region under the given command prefix ("mi" magnetic, "hi" heat).
func (b *scriptBuilder) drawRegion(prefix string, r geom.Region) error {
	switch r.Profile.Shape {
	case geom.Rectangle:
		p := r.Profile.Points
		b.linef("%s_drawrectangle(%g, %g, %g, %g)", prefix, p[0].X, p[0].Y, p[2].X, p[2].Y)
	case geom.Polygon:
		pts := r.Profile.Points
		for i := range pts {
			next := pts[(i+1)%len(pts)]
			b.linef("%s_drawline(%g, %g, %g, %g)", prefix, pts[i].X, pts[i].Y, next.X, next.Y)
		}
	default:
		return &solver.TranslationError{
			Backend: backendName,
			Detail:  fmt.Sprintf("shape %s", r.Profile.Shape),
		}
	}

	b.linef("%s_addblocklabel(%g, %g)", prefix, r.Label.X, r.Label.Y)
	b.linef("%s_selectlabel(%g, %g)", prefix, r.Label.X, r.Label.Y)
	if prefix == "mi" {
		circuit := r.Circuit
		if circuit == "" {
			circuit = "<None>"
		}
		b.linef("mi_setblockprop(%q, 1, 0, %q, %g, %d, %d)",
			r.Material, circuit, r.Magnetization, r.Group, r.Turns)
	} else {
		b.linef("hi_setblockprop(%q, 1, 0, %d)", r.Material, r.Group)
	}
	b.linef("%s_clearselected()", prefix)
	return nil
}

// motion maps the operating point's scalar position onto the topology's
// travel axis: axial for tubular, lateral for flat.
func (b *scriptBuilder) motion() (dx, dy float64) {
	if b.model.Traits().Axisymmetric {
		return 0, b.point.Position
	}
	return b.point.Position, 0
}

func (b *scriptBuilder) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, r := range b.regions {
		for _, pt := range r.Profile.Points {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	return minX, minY, maxX, maxY
}

func (b *scriptBuilder) boundingCircle() (cx, cy, radius float64) {
	minX, minY, maxX, maxY := b.bounds()
	cx = (minX + maxX) / 2
	cy = (minY + maxY) / 2
	radius = 1.5 * math.Hypot(maxX-minX, maxY-minY) / 2
	if b.model.Traits().Axisymmetric {
		// The open boundary shells are centered on the axis.
		cx = 0
	}
	return cx, cy, radius
}

// slotVolume returns the total winding volume in cubic meters: extruded
// area for planar models, Pappus revolution for axisymmetric ones.
// Lengths are millimeters, hence the 1e-9 factor.
func (b *scriptBuilder) slotVolume() float64 {
	traits := b.model.Traits()
	total := 0.0
	for _, r := range b.regions {
		if r.Role != geom.RoleSlot {
			continue
		}
		area := geom.Area(r.Profile)
		if traits.Axisymmetric {
			total += 2 * math.Pi * geom.Centroid(r.Profile).X * area
		} else {
			total += area * traits.Depth
		}
	}
	return total * 1e-9
}

func (b *scriptBuilder) writeOutput(name, expr string) {
	b.linef("write(out, \"%s=\", %s, \"\\n\")", name, expr)
}

func (b *scriptBuilder) linef(format string, args ...any) {
	fmt.Fprintf(&b.buf, format+"\n", args...)
}
