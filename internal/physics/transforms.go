package physics

import "math"

// InversePark converts d-q frame currents to stationary alpha-beta frame
// currents for a 3-phase machine.
func InversePark(dCurrent, qCurrent, elecAngle float64) (alpha, beta float64) {
	alpha = dCurrent*math.Cos(elecAngle) - qCurrent*math.Sin(elecAngle)
	beta = dCurrent*math.Sin(elecAngle) + qCurrent*math.Cos(elecAngle)
	return alpha, beta
}

// InverseClarke converts stationary alpha-beta frame currents to three
// instantaneous phase currents. The three always sum to zero.
func InverseClarke(alpha, beta float64) (a, b, c float64) {
	a = alpha
	b = 0.5 * (math.Sqrt(3)*beta - alpha)
	c = 0.5 * (-math.Sqrt(3)*beta - alpha)
	return a, b, c
}
