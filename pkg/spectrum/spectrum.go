// Package spectrum drives the formal integral: for every requested output
// frequency it sweeps a fan of rays across the envelope, accumulates
// radiative transfer along each ray, and integrates over impact parameter to
// produce the emergent luminosity.
package spectrum

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/avhall/go-formal-spectrum/pkg/geometry"
	"github.com/avhall/go-formal-spectrum/pkg/integrator"
	"github.com/avhall/go-formal-spectrum/pkg/model"
	"github.com/avhall/go-formal-spectrum/pkg/physics"
)

// Logger interface for integration progress output
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// Config contains configuration for the spectral integration
type Config struct {
	RayCount   int // Number of impact-parameter grid points (>= 2)
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		RayCount:   1000,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// Integrator computes emergent spectra from an envelope model. The model and
// the derived attenuation cache are shared read-only across workers; every
// worker owns its private scratch buffers.
type Integrator struct {
	env    *model.Envelope
	config Config
	logger Logger
}

// New creates a spectral integrator for the given envelope model.
func New(env *model.Envelope, config Config, logger Logger) *Integrator {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Integrator{
		env:    env,
		config: config,
		logger: logger,
	}
}

// scratch holds the per-worker mutable state for one frequency at a time.
// Buffers are allocated once per worker, never per frequency.
type scratch struct {
	impacts   []float64 // impact-parameter grid
	intensity []float64 // per-ray emergent intensity, index 0 fixed at 0
	crossings *geometry.Crossings
}

func (fi *Integrator) newScratch() *scratch {
	return &scratch{
		impacts:   geometry.ImpactParameters(fi.env.RMax(), fi.config.RayCount),
		intensity: make([]float64, fi.config.RayCount),
		crossings: geometry.NewCrossings(fi.env.Shells()),
	}
}

// Spectrum computes the emergent luminosity at every requested frequency.
// temp is the photosphere temperature in K and src the per-(line, shell)
// source-term table, which must match the optical-depth table's shape.
// Frequencies are partitioned into contiguous ranges across workers; the
// returned slice is owned by the caller.
func (fi *Integrator) Spectrum(ctx context.Context, temp float64, frequencies []float64, src *model.LineShellTable) ([]float64, error) {
	if err := fi.validate(temp, frequencies, src); err != nil {
		return nil, err
	}

	// Shared read-only state, built once before the parallel region.
	expTau := model.NewAttenuationTable(fi.env.TauSobolev)

	workers := fi.config.NumWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(frequencies) {
		workers = len(frequencies)
	}

	fi.logger.Printf("Computing formal integral: %d frequencies, %d rays, %d workers\n",
		len(frequencies), fi.config.RayCount, workers)
	start := time.Now()

	luminosities := make([]float64, len(frequencies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (len(frequencies) + workers - 1) / workers
	for lo := 0; lo < len(frequencies); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(frequencies))
		g.Go(func() error {
			sc := fi.newScratch()
			for i := lo; i < hi; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				// Disjoint indices per worker, no locking needed.
				luminosities[i] = fi.luminosityAt(frequencies[i], temp, expTau, src, sc)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fi.logger.Printf("Formal integral completed in %v\n", time.Since(start))
	return luminosities, nil
}

// luminosityAt computes the emergent luminosity for a single frequency by
// tracing every ray of the impact-parameter grid and integrating the
// p-weighted intensities with the trapezoid rule.
func (fi *Integrator) luminosityAt(nu, temp float64, expTau, src *model.LineShellTable, sc *scratch) float64 {
	rPh := fi.env.Photosphere
	boundary := physics.BlackBodyIntensity(nu, temp)

	// The central ray carries zero weight and only bounds the integration.
	sc.intensity[0] = 0
	for i := 1; i < len(sc.impacts); i++ {
		p := sc.impacts[i]
		sc.crossings.Populate(fi.env, p)

		initial := 0.0
		if p <= rPh {
			initial = boundary
		}
		sc.intensity[i] = integrator.RayIntensity(fi.env, expTau, src, nu, p, sc.crossings, initial)
	}

	h := fi.env.RMax() / float64(fi.config.RayCount)
	return 8 * math.Pi * math.Pi * trapezoidIntegration(sc.intensity, h)
}

// trapezoidIntegration integrates uniformly spaced samples with spacing h.
func trapezoidIntegration(samples []float64, h float64) float64 {
	n := len(samples)
	result := (samples[0] + samples[n-1]) / 2
	result += floats.Sum(samples[1 : n-1])
	return result * h
}

func (fi *Integrator) validate(temp float64, frequencies []float64, src *model.LineShellTable) error {
	if err := fi.env.Validate(); err != nil {
		return fmt.Errorf("invalid envelope model: %w", err)
	}
	if fi.config.RayCount < 2 {
		return fmt.Errorf("ray count must be at least 2, got %d", fi.config.RayCount)
	}
	if temp <= 0 {
		return fmt.Errorf("photosphere temperature must be positive, got %g", temp)
	}
	if len(frequencies) == 0 {
		return fmt.Errorf("no output frequencies requested")
	}
	for i, nu := range frequencies {
		if nu <= 0 || math.IsNaN(nu) {
			return fmt.Errorf("frequency %d must be positive, got %g", i, nu)
		}
	}
	if src == nil {
		return fmt.Errorf("missing source-term table")
	}
	if !src.SameShape(fi.env.TauSobolev) {
		return fmt.Errorf("source-term table is %dx%d, want %dx%d to match the optical-depth table",
			src.Lines, src.Shells, fi.env.TauSobolev.Lines, fi.env.TauSobolev.Shells)
	}
	return nil
}
