package integrator

import (
	"math"
	"testing"

	"github.com/avhall/go-formal-spectrum/pkg/geometry"
	"github.com/avhall/go-formal-spectrum/pkg/model"
)

// singleShellEnvelope builds a one-shell model with one line at nuLine and
// optical depth tau in that shell.
func singleShellEnvelope(nuLine, tau float64) *model.Envelope {
	tauTable := model.NewLineShellTable(1, 1)
	tauTable.Data[0] = tau
	return &model.Envelope{
		ShellRadii:      []float64{2e14},
		Photosphere:     1e14,
		InverseTime:     1.0 / 1e6,
		LineFrequencies: []float64{nuLine},
		TauSobolev:      tauTable,
	}
}

func TestRayIntensity_DegenerateRay(t *testing.T) {
	env := singleShellEnvelope(5e14, 1.0)
	expTau := model.NewAttenuationTable(env.TauSobolev)
	src := model.NewLineShellTable(1, 1)

	// A single-crossing record has no segments; only the boundary term and
	// the impact-parameter weight survive.
	cr := geometry.NewCrossings(1)
	cr.Populate(env, 5e13)
	if cr.Count != 1 {
		t.Fatalf("expected 1 crossing for a one-shell photosphere ray, got %d", cr.Count)
	}

	got := RayIntensity(env, expTau, src, 5e14, 5e13, cr, 3.0)
	want := 3.0 * 5e13
	if math.Abs(got-want) > 1e-9*want {
		t.Errorf("RayIntensity = %g, want %g", got, want)
	}
}

func TestRayIntensity_PureAttenuation(t *testing.T) {
	// One line resonant inside the first segment's Doppler window, zero
	// source terms: the boundary intensity is attenuated by exactly
	// exp(-tau) before the p weight.
	tau := 1.5
	tauTable := model.NewLineShellTable(1, 2)
	tauTable.Data[0] = tau
	tauTable.Data[1] = tau
	env := &model.Envelope{
		ShellRadii:      []float64{2e14, 3e14},
		Photosphere:     1e14,
		InverseTime:     1.0 / 1e6,
		LineFrequencies: []float64{5e14},
		TauSobolev:      tauTable,
	}

	nu := 5e14
	p := 5e13
	cr := geometry.NewCrossings(env.Shells())
	count := cr.Populate(env, p)
	if count != 2 {
		t.Fatalf("expected 2 crossings, got %d", count)
	}

	// Place the line in the middle of segment 0's window so exactly one
	// resonance event fires, in shell 0.
	env.LineFrequencies = []float64{nu * (cr.Z[0] + cr.Z[1]) / 2}
	expTau := model.NewAttenuationTable(env.TauSobolev)
	src := model.NewLineShellTable(1, 2)

	boundary := 2.0
	got := RayIntensity(env, expTau, src, nu, p, cr, boundary)

	want := boundary * math.Exp(-tau) * p
	if math.Abs(got-want) > 1e-9*math.Abs(want) {
		t.Errorf("RayIntensity = %g, want %g", got, want)
	}
}

func TestRayIntensity_NoResonantLines(t *testing.T) {
	// The only line lies far outside every Doppler window: intensity passes
	// through unchanged apart from the p weight.
	tauTable := model.NewLineShellTable(1, 2)
	tauTable.Data[0] = 50
	tauTable.Data[1] = 50
	env := &model.Envelope{
		ShellRadii:      []float64{2e14, 3e14},
		Photosphere:     1e14,
		InverseTime:     1.0 / 1e6,
		LineFrequencies: []float64{9e14},
		TauSobolev:      tauTable,
	}
	expTau := model.NewAttenuationTable(env.TauSobolev)
	src := model.NewLineShellTable(1, 2)

	nu := 1e14
	p := 1.5e14
	cr := geometry.NewCrossings(env.Shells())
	cr.Populate(env, p)

	boundary := 0.0
	got := RayIntensity(env, expTau, src, nu, p, cr, boundary)
	if got != 0 {
		t.Errorf("RayIntensity = %g, want 0 with no boundary term and no resonances", got)
	}
}

func TestRayIntensity_SourceInjectionOrder(t *testing.T) {
	// With tau -> infinity the attenuation wipes the incoming intensity, so
	// the result is the source term of the last resonance event times p.
	env := singleShellEnvelope(5e14, 1e3)
	expTau := model.NewAttenuationTable(env.TauSobolev)
	src := model.NewLineShellTable(1, 1)
	src.Data[0] = 7.5

	// An envelope ray through the single shell yields a symmetric
	// two-crossing record with the window (1+z, 1-z) straddling nu.
	nu := 5e14
	p := 1.5e14
	cr := geometry.NewCrossings(1)
	count := cr.Populate(env, p)
	if count != 2 {
		t.Fatalf("expected 2 crossings, got %d", count)
	}

	got := RayIntensity(env, expTau, src, nu, p, cr, 0)

	// The line resonates once inside the symmetric window (1+z, 1-z).
	want := src.Data[0] * p
	if math.Abs(got-want) > 1e-9*want {
		t.Errorf("RayIntensity = %g, want %g", got, want)
	}
}
