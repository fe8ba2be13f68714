package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/avhall/go-formal-spectrum/pkg/loaders"
	"github.com/avhall/go-formal-spectrum/pkg/model"
	"github.com/avhall/go-formal-spectrum/pkg/spectrum"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "formalspec",
		Short: "Formal-integral spectral synthesis for supernova ejecta models",
		Long: "formalspec computes emergent spectra from homologously expanding\n" +
			"supernova envelopes by directly integrating the radiative transfer\n" +
			"equation along rays, using precomputed Sobolev optical depths.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newComputeCommand())
	root.AddCommand(newInfoCommand())
	return root
}

func newComputeCommand() *cobra.Command {
	var configPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a spectrum from a model and a run configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loaders.LoadRunConfig(configPath)
			if err != nil {
				return err
			}
			if outputPath != "" {
				config.Output = outputPath
			}
			if config.Output == "" {
				config.Output = "spectrum.csv"
			}
			return runCompute(cmd, config)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "run.toml", "Run configuration file (TOML)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV path (overrides the config)")
	return cmd
}

func runCompute(cmd *cobra.Command, config *loaders.RunConfig) error {
	env, src, err := loaders.LoadModel(config.Model)
	if err != nil {
		return err
	}
	if src == nil {
		// A model without source terms still defines a valid computation:
		// pure attenuation of the photospheric continuum.
		src = model.NewLineShellTable(env.Lines(), env.Shells())
	}

	fi := spectrum.New(env, spectrum.Config{
		RayCount:   config.RayCount,
		NumWorkers: config.Workers,
	}, spectrum.NewDefaultLogger())

	frequencies := config.Frequency.Frequencies()
	luminosities, err := fi.Spectrum(cmd.Context(), config.Temperature, frequencies, src)
	if err != nil {
		return err
	}

	if err := writeSpectrumCSV(config.Output, frequencies, luminosities); err != nil {
		return err
	}

	color.Green("Spectrum written to %s (%d frequencies)", config.Output, len(frequencies))
	return nil
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Print the dimensions of a model container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, src, err := loaders.LoadModel(args[0])
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			bold.Println(args[0])
			fmt.Printf("  shells:            %d\n", env.Shells())
			fmt.Printf("  lines:             %d\n", env.Lines())
			fmt.Printf("  photosphere:       %.4e cm\n", env.Photosphere)
			fmt.Printf("  outer radius:      %.4e cm\n", env.RMax())
			fmt.Printf("  inverse exp. time: %.4e 1/s\n", env.InverseTime)
			fmt.Printf("  source terms:      %v\n", src != nil)
			return nil
		},
	}
}

// writeSpectrumCSV writes one "frequency,luminosity" row per output point.
func writeSpectrumCSV(path string, frequencies, luminosities []float64) error {
	var sb strings.Builder
	sb.WriteString("frequency_hz,luminosity_erg_s_hz\n")
	for i := range frequencies {
		fmt.Fprintf(&sb, "%.10e,%.10e\n", frequencies[i], luminosities[i])
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing spectrum: %w", err)
	}
	return nil
}
