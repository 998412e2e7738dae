package physics

import "math"

// MechanicalAngle converts a linear displacement along the armature travel
// into a mechanical angle in radians, normalized to [0, 2pi).
func MechanicalAngle(circumference, displacement float64) float64 {
	angle := 2 * math.Pi * displacement / circumference
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// ElectricalAngle converts a mechanical angle to the electrical angle seen
// by the windings.
func ElectricalAngle(polePairs int, mechAngle float64) float64 {
	return float64(polePairs) * mechAngle
}
