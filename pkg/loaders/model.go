// Package loaders reads and writes the on-disk artifacts the CLI works with:
// the binary envelope-model container produced by the upstream Monte Carlo
// simulation and the TOML run configuration.
package loaders

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/avhall/go-formal-spectrum/pkg/model"
)

// Current schema version - increment when the container format changes
const modelSchemaVersion uint16 = 1

// ModelFile is the msgpack container for an envelope model. Tables are
// shell-major (one row of NumLines values per shell), matching the in-memory
// layout. LineSource is optional; a run configuration may supply source
// terms separately.
type ModelFile struct {
	Schema               uint16
	ShellRadii           []float64
	Photosphere          float64
	InverseExpansionTime float64
	LineFrequencies      []float64
	NumLines             int64
	NumShells            int64
	TauSobolev           []float64
	LineSource           []float64
}

// LoadModel reads an envelope model container. The returned source-term
// table is nil when the container carries none.
func LoadModel(path string) (*model.Envelope, *model.LineShellTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading model file: %w", err)
	}

	var file ModelFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("decoding model file %s: %w", path, err)
	}
	if file.Schema != modelSchemaVersion {
		return nil, nil, fmt.Errorf("model file %s has schema %d, want %d", path, file.Schema, modelSchemaVersion)
	}

	lines, err := safecast.Conv[int](file.NumLines)
	if err != nil {
		return nil, nil, fmt.Errorf("line count overflow: %w", err)
	}
	shells, err := safecast.Conv[int](file.NumShells)
	if err != nil {
		return nil, nil, fmt.Errorf("shell count overflow: %w", err)
	}

	if len(file.ShellRadii) != shells {
		return nil, nil, fmt.Errorf("model file declares %d shells but carries %d radii", shells, len(file.ShellRadii))
	}
	if len(file.LineFrequencies) != lines {
		return nil, nil, fmt.Errorf("model file declares %d lines but carries %d frequencies", lines, len(file.LineFrequencies))
	}

	tau, err := model.NewLineShellTableFromData(lines, shells, file.TauSobolev)
	if err != nil {
		return nil, nil, fmt.Errorf("optical-depth table: %w", err)
	}

	env := &model.Envelope{
		ShellRadii:      file.ShellRadii,
		Photosphere:     file.Photosphere,
		InverseTime:     file.InverseExpansionTime,
		LineFrequencies: file.LineFrequencies,
		TauSobolev:      tau,
	}
	if err := env.Validate(); err != nil {
		return nil, nil, fmt.Errorf("model file %s: %w", path, err)
	}

	var src *model.LineShellTable
	if len(file.LineSource) > 0 {
		src, err = model.NewLineShellTableFromData(lines, shells, file.LineSource)
		if err != nil {
			return nil, nil, fmt.Errorf("source-term table: %w", err)
		}
	}

	return env, src, nil
}

// SaveModel writes an envelope model container. src may be nil.
func SaveModel(path string, env *model.Envelope, src *model.LineShellTable) error {
	if err := env.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid model: %w", err)
	}

	file := ModelFile{
		Schema:               modelSchemaVersion,
		ShellRadii:           env.ShellRadii,
		Photosphere:          env.Photosphere,
		InverseExpansionTime: env.InverseTime,
		LineFrequencies:      env.LineFrequencies,
		NumLines:             int64(env.Lines()),
		NumShells:            int64(env.Shells()),
		TauSobolev:           env.TauSobolev.Data,
	}
	if src != nil {
		if !src.SameShape(env.TauSobolev) {
			return fmt.Errorf("source-term table is %dx%d, want %dx%d",
				src.Lines, src.Shells, env.TauSobolev.Lines, env.TauSobolev.Shells)
		}
		file.LineSource = src.Data
	}

	data, err := msgpack.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encoding model file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}
