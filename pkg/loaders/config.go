package loaders

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/floats"
)

// FrequencyGrid describes the equally spaced output frequencies of a run.
type FrequencyGrid struct {
	Start float64 `toml:"start"` // Hz, inclusive
	Stop  float64 `toml:"stop"`  // Hz, inclusive
	Count int     `toml:"count"`
}

// Frequencies materializes the grid.
func (g FrequencyGrid) Frequencies() []float64 {
	if g.Count == 1 {
		return []float64{g.Start}
	}
	nu := make([]float64, g.Count)
	floats.Span(nu, g.Start, g.Stop)
	return nu
}

// RunConfig is the TOML run description the CLI consumes.
type RunConfig struct {
	Model       string        `toml:"model"`       // path to the msgpack model container
	Output      string        `toml:"output"`      // path for the CSV spectrum
	Temperature float64       `toml:"temperature"` // photosphere temperature, K
	RayCount    int           `toml:"ray_count"`
	Workers     int           `toml:"workers"` // 0 = use CPU count
	Frequency   FrequencyGrid `toml:"frequency"`
}

// LoadRunConfig reads and validates a TOML run configuration.
func LoadRunConfig(path string) (*RunConfig, error) {
	var config RunConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("reading run config %s: %w", path, err)
	}

	if config.Model == "" {
		return nil, fmt.Errorf("run config %s: model path is required", path)
	}
	if config.Temperature <= 0 {
		return nil, fmt.Errorf("run config %s: temperature must be positive, got %g", path, config.Temperature)
	}
	if config.RayCount < 2 {
		return nil, fmt.Errorf("run config %s: ray_count must be at least 2, got %d", path, config.RayCount)
	}
	if config.Frequency.Count < 1 {
		return nil, fmt.Errorf("run config %s: frequency count must be at least 1, got %d", path, config.Frequency.Count)
	}
	if config.Frequency.Start <= 0 || config.Frequency.Stop <= 0 {
		return nil, fmt.Errorf("run config %s: frequency bounds must be positive", path)
	}
	if config.Frequency.Count == 1 && config.Frequency.Start != config.Frequency.Stop {
		return nil, fmt.Errorf("run config %s: a single-point frequency grid needs start == stop", path)
	}
	return &config, nil
}
