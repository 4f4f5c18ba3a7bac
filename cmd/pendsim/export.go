package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/export"
)

// output opens path for writing, or wraps stdout when path is empty.
func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newExportCmd(a *app, use, short string, write func(io.Writer, *export.Derived) error) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   use + " [run_id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, err := a.loadDerived(args[0])
			if err != nil {
				return err
			}
			w, err := output(cmd, outPath)
			if err != nil {
				return err
			}
			if err := write(w, d); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newExportJSONCmd(a *app) *cobra.Command {
	return newExportCmd(a, "export-json", "export run data to JSON", export.WriteJSON)
}

func newExportCSVCmd(a *app) *cobra.Command {
	return newExportCmd(a, "export-csv", "export run data to CSV", export.WriteCSV)
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, name := range presets {
				p := config.GetPreset(args[0], name)
				fmt.Fprintf(out, "  %-10s theta=%g omega=%g duration=%gs\n", name, p.InitState.Theta, p.InitState.Omega, p.Duration)
			}
			return nil
		},
	}
}
