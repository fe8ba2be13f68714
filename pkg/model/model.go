// Package model holds the envelope model a formal-integral computation runs
// against: the shell structure of the homologously expanding ejecta, the
// sorted spectral line list, and the per-(line, shell) Sobolev optical depths
// produced by the upstream Monte Carlo simulation.
package model

import (
	"fmt"
	"sort"
)

// Envelope is the read-only description of the ejecta. Shells are ordered
// innermost to outermost; Photosphere is the inner radius of the innermost
// shell. LineFrequencies is sorted strictly descending and indexes the line
// axis of TauSobolev.
type Envelope struct {
	ShellRadii      []float64 // outer radius per shell, cm, strictly increasing
	Photosphere     float64   // cm
	InverseTime     float64   // 1 / t_explosion, 1/s
	LineFrequencies []float64 // Hz, strictly descending
	TauSobolev      *LineShellTable
}

// Shells returns the number of shells.
func (e *Envelope) Shells() int { return len(e.ShellRadii) }

// Lines returns the number of spectral lines.
func (e *Envelope) Lines() int { return len(e.LineFrequencies) }

// RMax returns the outer radius of the outermost shell.
func (e *Envelope) RMax() float64 { return e.ShellRadii[len(e.ShellRadii)-1] }

// Validate checks the structural preconditions the integrator relies on.
// A non-nil error means the model must not be used for computation.
func (e *Envelope) Validate() error {
	if len(e.ShellRadii) == 0 {
		return fmt.Errorf("model has no shells")
	}
	if e.Photosphere <= 0 {
		return fmt.Errorf("photosphere radius must be positive, got %g", e.Photosphere)
	}
	if e.Photosphere >= e.ShellRadii[0] {
		return fmt.Errorf("photosphere radius %g must lie below the innermost shell radius %g",
			e.Photosphere, e.ShellRadii[0])
	}
	for i := 1; i < len(e.ShellRadii); i++ {
		if e.ShellRadii[i] <= e.ShellRadii[i-1] {
			return fmt.Errorf("shell radii must be strictly increasing: r[%d]=%g, r[%d]=%g",
				i-1, e.ShellRadii[i-1], i, e.ShellRadii[i])
		}
	}
	if e.InverseTime <= 0 {
		return fmt.Errorf("inverse expansion time must be positive, got %g", e.InverseTime)
	}
	if len(e.LineFrequencies) == 0 {
		return fmt.Errorf("model has no spectral lines")
	}
	for i := 1; i < len(e.LineFrequencies); i++ {
		if e.LineFrequencies[i] >= e.LineFrequencies[i-1] {
			return fmt.Errorf("line frequencies must be strictly descending: nu[%d]=%g, nu[%d]=%g",
				i-1, e.LineFrequencies[i-1], i, e.LineFrequencies[i])
		}
	}
	if e.TauSobolev == nil {
		return fmt.Errorf("model has no optical-depth table")
	}
	if e.TauSobolev.Lines != len(e.LineFrequencies) || e.TauSobolev.Shells != len(e.ShellRadii) {
		return fmt.Errorf("optical-depth table is %dx%d, want %d lines x %d shells",
			e.TauSobolev.Lines, e.TauSobolev.Shells, len(e.LineFrequencies), len(e.ShellRadii))
	}
	return nil
}

// LineIndexAtOrBelow returns the index of the first line whose frequency is
// at or below target, searching a strictly descending frequency list.
// It returns len(freqs) when every line lies above target.
func LineIndexAtOrBelow(freqs []float64, target float64) int {
	return sort.Search(len(freqs), func(i int) bool {
		return freqs[i] <= target
	})
}
