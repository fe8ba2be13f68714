// Package integrator accumulates radiative transfer along individual rays
// through the envelope. Each path segment between two shell crossings defines
// a Doppler-shifted frequency window; every spectral line inside that window
// attenuates the accumulated intensity and injects its local source term.
package integrator

import (
	"github.com/avhall/go-formal-spectrum/pkg/geometry"
	"github.com/avhall/go-formal-spectrum/pkg/model"
)

// RayIntensity traces a single ray at impact parameter p for the observer
// frequency nu, starting from the boundary intensity (the black-body value
// for rays hitting the photosphere, 0 otherwise). expTau is the attenuation
// cache exp(-tau) and src the per-(line, shell) source terms; both share the
// optical-depth table's shape.
//
// The returned value carries the impact-parameter weight p for the subsequent
// integration over the plane of the sky.
func RayIntensity(env *model.Envelope, expTau, src *model.LineShellTable, nu, p float64, cr *geometry.Crossings, boundary float64) float64 {
	intensity := boundary
	lines := env.LineFrequencies

	for k := 0; k+1 < cr.Count; k++ {
		nuStart := nu * cr.Z[k]
		nuEnd := nu * cr.Z[k+1]

		// The segment belongs to the shell of its starting crossing.
		shell := cr.ShellID[k]
		tauRow := expTau.Row(shell)
		srcRow := src.Row(shell)

		// Walk the descending line list from the first line inside the
		// window until the first line that has shifted past it.
		for idx := model.LineIndexAtOrBelow(lines, nuStart); idx < len(lines); idx++ {
			if lines[idx] < nuEnd {
				break
			}
			intensity = intensity*tauRow[idx] + srcRow[idx]
		}
	}

	return intensity * p
}
