package model

import (
	"fmt"
	"math"
)

// LineShellTable is a dense table with one value per (spectral line, shell)
// pair. Rows are per-shell slices of length Lines, so the line index is the
// fast axis; this matches the layout the upstream Monte Carlo simulation
// writes its Sobolev optical depths in.
type LineShellTable struct {
	Lines  int
	Shells int
	Data   []float64 // len = Lines * Shells, shell-major
}

// NewLineShellTable creates a zero-filled table of the given dimensions.
func NewLineShellTable(lines, shells int) *LineShellTable {
	return &LineShellTable{
		Lines:  lines,
		Shells: shells,
		Data:   make([]float64, lines*shells),
	}
}

// NewLineShellTableFromData wraps an existing shell-major slice. The slice is
// not copied; the caller must not mutate it while the table is in use.
func NewLineShellTableFromData(lines, shells int, data []float64) (*LineShellTable, error) {
	if len(data) != lines*shells {
		return nil, fmt.Errorf("table data has %d entries, want %d (%d lines x %d shells)",
			len(data), lines*shells, lines, shells)
	}
	return &LineShellTable{Lines: lines, Shells: shells, Data: data}, nil
}

// At returns the value for the given shell and line.
func (t *LineShellTable) At(shell, line int) float64 {
	return t.Data[shell*t.Lines+line]
}

// Row returns the per-line slice for one shell.
func (t *LineShellTable) Row(shell int) []float64 {
	offset := shell * t.Lines
	return t.Data[offset : offset+t.Lines]
}

// SameShape reports whether two tables have identical dimensions.
func (t *LineShellTable) SameShape(other *LineShellTable) bool {
	return t.Lines == other.Lines && t.Shells == other.Shells
}

// NewAttenuationTable builds the opacity cache: exp(-tau) for every
// (line, shell) entry of the optical-depth table. The input values are
// assumed finite and non-negative.
func NewAttenuationTable(tau *LineShellTable) *LineShellTable {
	att := NewLineShellTable(tau.Lines, tau.Shells)
	for i, v := range tau.Data {
		att.Data[i] = math.Exp(-v)
	}
	return att
}
