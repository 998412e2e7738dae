package physics

// Commutation generates the per-sample three-phase current profile for one
// traversal of the given travel distance. PeakD aligns flux, PeakQ produces
// force. phaseOffset shifts the electrical angle to align the profile with
// the magnet row.
//
// Returns the linear step size between samples and samples+1 current
// triples, one per displacement step starting at zero.
func Commutation(circumference, travel float64, polePairs int, peakD, peakQ float64, samples int, phaseOffset float64) (stepSize float64, profile [][3]float64) {
	stepSize = travel / float64(samples)
	profile = make([][3]float64, 0, samples+1)

	for step := 0; step <= samples; step++ {
		mech := MechanicalAngle(circumference, float64(step)*stepSize)
		elec := ElectricalAngle(polePairs, mech) + phaseOffset

		alpha, beta := InversePark(peakD, peakQ, elec)
		a, b, c := InverseClarke(alpha, beta)
		profile = append(profile, [3]float64{a, b, c})
	}

	return stepSize, profile
}
