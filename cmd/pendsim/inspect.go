package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/storage"
	"github.com/san-kum/pendsim/internal/viz"
)

// loadDerived reads a stored run and rebuilds its derived series.
func (a *app) loadDerived(id string) (*storage.Run, *export.Derived, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	run, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	d, err := experiment.DerivedFromRun(run)
	if err != nil {
		return nil, nil, err
	}
	return run, d, nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tSAMPLES\tINTEG\tDRIFT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%s\t%.2e\n",
					run.ID,
					run.Model,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Samples,
					run.Integrator,
					run.Metrics["energy_drift"],
				)
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(run.Meta)
		},
	}
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		pngPath string
		width   int
		height  int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angles and energies of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, d, err := a.loadDerived(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\nmodel: %s\nsamples: %d\n\n", run.Meta.ID, run.Meta.Model, len(d.T))

			for _, name := range run.Meta.StateNames {
				values, _ := d.Get(name)
				fmt.Fprintln(out, viz.ASCIIPlot(values, name+" vs time", width, height))
				fmt.Fprintln(out)
			}

			var energies [][]float64
			var lines []viz.Line
			for _, name := range []string{"potential", "kinetic", "total_energy"} {
				if values, ok := d.Get(name); ok {
					energies = append(energies, values)
					lines = append(lines, viz.Line{Label: name, Values: values})
				}
			}
			if len(energies) > 0 {
				fmt.Fprintln(out, viz.ASCIIPlots(energies, "potential / kinetic / total energy", width, height))
			}

			if pngPath != "" && len(lines) > 0 {
				if err := viz.SaveEnergyPlot(pngPath, run.Meta.Model+" energy", d.T, lines...); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nsaved %s\n", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "also save the energy plot as PNG")
	cmd.Flags().IntVar(&width, "width", 80, "chart width")
	cmd.Flags().IntVar(&height, "height", 10, "chart height")
	return cmd
}

func newPhaseCmd(a *app) *cobra.Command {
	var (
		xName, yName string
		svgPath      string
	)
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, d, err := a.loadDerived(args[0])
			if err != nil {
				return err
			}
			if xName == "" {
				xName = run.Meta.StateNames[0]
			}
			if yName == "" {
				yName = run.Meta.StateNames[1]
			}
			xs, ok := d.Get(xName)
			if !ok {
				return fmt.Errorf("run %s has no series %q", run.Meta.ID, xName)
			}
			ys, ok := d.Get(yName)
			if !ok {
				return fmt.Errorf("run %s has no series %q", run.Meta.ID, yName)
			}

			portrait, err := analysis.NewPhasePortrait(xs, ys)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s vs %s\n%s", yName, xName, portrait.ASCII(80, 24))

			if svgPath == "" {
				return nil
			}
			f, err := os.Create(svgPath)
			if err != nil {
				return err
			}
			if err := export.PathSVG(f, xs, ys, 800, 600, "#00ffff"); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&xName, "x", "", "series on the x axis (default: first angle)")
	cmd.Flags().StringVar(&yName, "y", "", "series on the y axis (default: first angular velocity)")
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the curve as SVG")
	return cmd
}
