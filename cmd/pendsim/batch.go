package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/automation"
	"github.com/san-kum/pendsim/internal/optim"
)

func newBatchCmd(a *app) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			results, err := automation.RunScenario(cmd.Context(), sc, a.log)
			if err != nil {
				return err
			}

			ids := make([]string, len(results))
			if !noSave {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				for i, res := range results {
					if ids[i], err = st.Save(res.Record()); err != nil {
						return err
					}
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STEP\tMODEL\tRUN ID\tENERGY DRIFT")
			for i, res := range results {
				id := ids[i]
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.3e\n", sc.Steps[i].Label(i), res.Config.Model, id, res.Metrics["energy_drift"])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		sim    simFlags
		param  string
		lo, hi float64
		steps  int
		metric string
	)
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "vary one setting over a range and tabulate a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.build(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
				Base: cfg, Param: param, Min: lo, Max: hi, Steps: steps,
			}, a.log)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\tFINAL THETA\n", strings.ToUpper(param), strings.ToUpper(metric))
			for _, r := range results {
				fmt.Fprintf(tw, "%.6g\t%.6g\t%.6f\n", r.Value, r.Metrics[metric], r.FinalState[0])
			}
			return tw.Flush()
		},
	}
	sim.register(cmd.Flags())
	cmd.Flags().StringVar(&param, "param", "damping", "setting to vary")
	cmd.Flags().Float64Var(&lo, "min", 0, "first value")
	cmd.Flags().Float64Var(&hi, "max", 1, "last value")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of values")
	cmd.Flags().StringVar(&metric, "metric", "energy_drift", "metric to tabulate")
	return cmd
}

// parseAxis reads name=lo:hi:n.
func parseAxis(s string) (optim.Axis, error) {
	name, rng, ok := strings.Cut(s, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return optim.Axis{}, fmt.Errorf("bad grid axis %q, want name=lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid axis %s: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid axis %s: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid axis %s: %w", name, err)
	}
	return optim.Span(name, lo, hi, n)
}

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		sim    simFlags
		grid   []string
		metric string
	)
	cmd := &cobra.Command{
		Use:   "optimize [model]",
		Short: "grid search for the settings that minimise a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.build(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			axes := make([]optim.Axis, len(grid))
			for i, s := range grid {
				if axes[i], err = parseAxis(s); err != nil {
					return err
				}
			}
			g, err := optim.NewGridSearch(a.log, axes...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "searching %d points for minimum %s...\n", g.Size(), metric)
			best, points, err := g.Search(cmd.Context(), cfg, metric)
			if err != nil {
				return err
			}
			failed := 0
			for _, p := range points {
				if p.Err != nil {
					failed++
				}
			}

			names := make([]string, 0, len(best.Params))
			for name := range best.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "best %s: %.6g\n", metric, best.Value)
			for _, name := range names {
				fmt.Fprintf(out, "  %s = %.6g\n", name, best.Params[name])
			}
			if failed > 0 {
				fmt.Fprintf(out, "%d of %d points failed\n", failed, len(points))
			}
			return nil
		},
	}
	sim.register(cmd.Flags())
	cmd.Flags().StringArrayVar(&grid, "grid", nil, "searched setting as name=lo:hi:n (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "energy_drift", "metric to minimise")
	_ = cmd.MarkFlagRequired("grid")
	return cmd
}
