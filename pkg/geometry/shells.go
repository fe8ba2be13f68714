// Package geometry computes where a straight ray at a given impact parameter
// crosses the concentric shells of an expanding envelope. Path positions are
// expressed in the normalized coordinate z, with z = 1 at the point of
// closest approach and half-chords measured in units of c * t_explosion.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/avhall/go-formal-spectrum/pkg/model"
	"github.com/avhall/go-formal-spectrum/pkg/physics"
)

// HalfChordZ returns half the length of the chord a ray at impact parameter p
// cuts through a shell of outer radius r, normalized to unit length
// c * t_explosion. It returns 0 when the ray misses the shell.
func HalfChordZ(r, p, invT float64) float64 {
	if r <= p {
		return 0
	}
	return math.Sqrt(r*r-p*p) * physics.InvC * invT
}

// Crossings records every shell-boundary crossing of one ray. The backing
// arrays are sized for the worst case (two crossings per shell) and reused
// across Populate calls; only the first Count entries are meaningful.
type Crossings struct {
	Z       []float64 // normalized path coordinate per crossing
	ShellID []int     // shell the crossing belongs to
	Count   int
}

// NewCrossings allocates a crossing record for an envelope with the given
// number of shells.
func NewCrossings(shells int) *Crossings {
	return &Crossings{
		Z:       make([]float64, 2*shells),
		ShellID: make([]int, 2*shells),
	}
}

// Populate fills the crossing record for a ray at impact parameter p and
// returns the number of crossings.
//
// Rays inside the photosphere terminate on it and cross each shell boundary
// once, innermost first. Rays outside pass through the envelope and cross
// every intersected shell twice, at 1+z on the far side and 1-z on the near
// side; the layout mirrors the pairs around the point of closest approach so
// consecutive entries bound consecutive path segments.
func (c *Crossings) Populate(env *model.Envelope, p float64) int {
	r := env.ShellRadii
	n := len(r)
	invT := env.InverseTime

	if p <= env.Photosphere {
		for i := 0; i < n; i++ {
			c.Z[i] = 1 - HalfChordZ(r[i], p, invT)
			c.ShellID[i] = i
		}
		c.Count = n
		return n
	}

	// No photosphere intersection: each intersected shell contributes two
	// crossings. offset is the innermost shell the ray reaches.
	offset := -1
	for i := 0; i < n; i++ {
		z := HalfChordZ(r[i], p, invT)
		if z == 0 {
			continue
		}
		if offset == -1 {
			offset = i
		}
		far := n - i - 1
		near := n + i - 2*offset
		c.Z[far] = 1 + z
		c.ShellID[far] = i
		c.Z[near] = 1 - z
		c.ShellID[near] = i
	}
	if offset == -1 {
		// Grazing ray at p >= RMax: no shells, no crossings.
		c.Count = 0
		return 0
	}
	c.Count = 2 * (n - offset)
	return c.Count
}

// ImpactParameters returns n equally spaced impact parameters from 0 to rMax
// inclusive. Index 0 is the degenerate ray through the center; it only serves
// as the lower boundary of the trapezoid integration.
func ImpactParameters(rMax float64, n int) []float64 {
	p := make([]float64, n)
	floats.Span(p, 0, rMax)
	return p
}
