package loaders

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRunConfig(t *testing.T) {
	path := writeConfig(t, `
model = "model.msgpack"
output = "spectrum.csv"
temperature = 11000.0
ray_count = 500
workers = 4

[frequency]
start = 2.0e14
stop = 8.0e14
count = 200
`)

	config, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig failed: %v", err)
	}

	if config.Model != "model.msgpack" {
		t.Errorf("Model = %q", config.Model)
	}
	if config.Temperature != 11000 {
		t.Errorf("Temperature = %g", config.Temperature)
	}
	if config.RayCount != 500 {
		t.Errorf("RayCount = %d", config.RayCount)
	}
	if config.Workers != 4 {
		t.Errorf("Workers = %d", config.Workers)
	}

	nu := config.Frequency.Frequencies()
	if len(nu) != 200 {
		t.Fatalf("Frequency grid has %d points, want 200", len(nu))
	}
	if nu[0] != 2e14 {
		t.Errorf("nu[0] = %g, want 2e14", nu[0])
	}
	if math.Abs(nu[199]-8e14) > 1e-9*8e14 {
		t.Errorf("nu[199] = %g, want 8e14", nu[199])
	}
}

func TestLoadRunConfig_SinglePointGrid(t *testing.T) {
	path := writeConfig(t, `
model = "model.msgpack"
temperature = 10000.0
ray_count = 100

[frequency]
start = 5.0e14
stop = 5.0e14
count = 1
`)

	config, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig failed: %v", err)
	}

	nu := config.Frequency.Frequencies()
	if len(nu) != 1 || nu[0] != 5e14 {
		t.Errorf("Frequencies() = %v, want [5e14]", nu)
	}
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing model", `
temperature = 10000.0
ray_count = 100
[frequency]
start = 2.0e14
stop = 8.0e14
count = 10
`},
		{"zero temperature", `
model = "m.msgpack"
temperature = 0.0
ray_count = 100
[frequency]
start = 2.0e14
stop = 8.0e14
count = 10
`},
		{"ray count too small", `
model = "m.msgpack"
temperature = 10000.0
ray_count = 1
[frequency]
start = 2.0e14
stop = 8.0e14
count = 10
`},
		{"no frequencies", `
model = "m.msgpack"
temperature = 10000.0
ray_count = 100
[frequency]
start = 2.0e14
stop = 8.0e14
count = 0
`},
		{"negative frequency bound", `
model = "m.msgpack"
temperature = 10000.0
ray_count = 100
[frequency]
start = -2.0e14
stop = 8.0e14
count = 10
`},
		{"single point with differing bounds", `
model = "m.msgpack"
temperature = 10000.0
ray_count = 100
[frequency]
start = 2.0e14
stop = 8.0e14
count = 1
`},
		{"malformed toml", `model = [unclosed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadRunConfig(path); err == nil {
				t.Error("Expected config error, got nil")
			}
		})
	}
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	if _, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
