package physics

import "math"

// Physical constants in CGS units, matching the radiative-transfer literature
// this code follows. InvC is 1/c in s/cm; geometry uses it to express path
// lengths in units of c*t_exp.
const (
	PlanckCGS    = 6.62606957e-27 // erg s
	BoltzmannCGS = 1.3806488e-16  // erg/K
	InvC         = 3.33564e-11    // s/cm
)

// BlackBodyIntensity returns the specific intensity of a black body,
// I(nu,T) = (2 h nu^3 / c^2) / (exp(h nu / kT) - 1), in CGS units.
// The caller guarantees nu > 0 and temp > 0; the result is undefined otherwise.
func BlackBodyIntensity(nu, temp float64) float64 {
	betaRad := 1 / (BoltzmannCGS * temp)
	coefficient := 2 * PlanckCGS * InvC * InvC
	return coefficient * nu * nu * nu / (math.Exp(PlanckCGS*nu*betaRad) - 1)
}
