package physics

import (
	"fmt"
	"math"
)

const epsilon = 1e-12

// NumberTurns estimates how many turns of round wire fit in a rectangular
// slot cross-section. wasteFactor inflates the wire diameter to account for
// insulation and packing inefficiency.
func NumberTurns(slotWidth, slotHeight, wireDiameter, wasteFactor float64) int {
	if wireDiameter <= 0 {
		return 0
	}
	slotArea := slotWidth * slotHeight
	effective := wireDiameter * (1 + wasteFactor)
	return int(math.Ceil(slotArea / (effective * effective)))
}

// CoilResistance returns the DC resistance in ohms of a coil with the given
// total wire length (m), wire diameter (m) and material conductivity (MS/m).
func CoilResistance(wireLength, wireDiameter, conductivity float64) float64 {
	if wireDiameter <= 0 || conductivity <= 0 {
		return 0
	}
	area := math.Pi * wireDiameter * wireDiameter / 4
	return wireLength / (conductivity * 1e6 * area)
}

// VolumetricHeating returns the Joule heat density in W/m^3 for a coil
// block carrying the given current.
func VolumetricHeating(current, resistance, volume float64) (float64, error) {
	if volume < epsilon {
		return 0, fmt.Errorf("coil volume too small for heating calculation: %g", volume)
	}
	return current * current * resistance / volume, nil
}
