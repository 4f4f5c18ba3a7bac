package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/viz"
)

// simFlags are the run options shared by run, compare and lyapunov.
type simFlags struct {
	configFile string
	preset     string
	integrator string
	duration   float64
	samples    int
	degrees    bool
	init       config.InitStateConfig
	params     config.ParamsConfig
	solver     config.SolverConfig
}

func (f *simFlags) register(fs *pflag.FlagSet) {
	d := config.DefaultConfig()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration")
	fs.StringVar(&f.integrator, "integrator", d.Integrator, "integrator: euler, rk4, rk45")
	fs.Float64Var(&f.duration, "time", d.Duration, "duration in seconds")
	fs.IntVar(&f.samples, "samples", d.Samples, "number of evenly spaced samples")
	fs.BoolVar(&f.degrees, "degrees", false, "initial angles are in degrees")

	fs.Float64Var(&f.init.Theta, "theta", d.InitState.Theta, "initial angle (first rod)")
	fs.Float64Var(&f.init.Omega, "omega", d.InitState.Omega, "initial angular velocity (first rod), rad/s")
	fs.Float64Var(&f.init.Theta2, "theta2", d.InitState.Theta2, "initial angle of the second rod")
	fs.Float64Var(&f.init.Omega2, "omega2", d.InitState.Omega2, "initial angular velocity of the second rod, rad/s")

	fs.Float64Var(&f.params.Mass, "mass", d.Params.Mass, "bob mass (pendulum)")
	fs.Float64Var(&f.params.Length, "length", d.Params.Length, "rod length (pendulum)")
	fs.Float64Var(&f.params.Damping, "damping", d.Params.Damping, "viscous damping (pendulum)")
	fs.Float64Var(&f.params.M1, "m1", d.Params.M1, "first bob mass (double_pendulum)")
	fs.Float64Var(&f.params.M2, "m2", d.Params.M2, "second bob mass (double_pendulum)")
	fs.Float64Var(&f.params.L1, "l1", d.Params.L1, "first rod length (double_pendulum)")
	fs.Float64Var(&f.params.L2, "l2", d.Params.L2, "second rod length (double_pendulum)")
	fs.Float64Var(&f.params.Gravity, "gravity", d.Params.Gravity, "gravitational acceleration")

	fs.Float64Var(&f.solver.Dt, "dt", 0, "fixed step for euler/rk4 (0 keeps the default)")
	fs.Float64Var(&f.solver.RelTol, "rtol", 0, "relative tolerance for rk45 (0 keeps the default)")
	fs.Float64Var(&f.solver.AbsTol, "atol", 0, "absolute tolerance for rk45 (0 keeps the default)")
}

// build layers defaults, preset, config file and explicitly set flags, in
// that order.
func (f *simFlags) build(fs *pflag.FlagSet, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if f.preset != "" {
		p := config.GetPreset(model, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(model))
		}
		cfg = p
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Model != model {
			return nil, fmt.Errorf("config %s is for %s, not %s", f.configFile, loaded.Model, model)
		}
		cfg = loaded
	}

	set := func(name string, dst *float64, v float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	if fs.Changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if fs.Changed("samples") {
		cfg.Samples = f.samples
	}
	if fs.Changed("degrees") {
		cfg.AngleUnits = "radians"
		if f.degrees {
			cfg.AngleUnits = "degrees"
		}
	}
	set("time", &cfg.Duration, f.duration)
	set("theta", &cfg.InitState.Theta, f.init.Theta)
	set("omega", &cfg.InitState.Omega, f.init.Omega)
	set("theta2", &cfg.InitState.Theta2, f.init.Theta2)
	set("omega2", &cfg.InitState.Omega2, f.init.Omega2)
	set("mass", &cfg.Params.Mass, f.params.Mass)
	set("length", &cfg.Params.Length, f.params.Length)
	set("damping", &cfg.Params.Damping, f.params.Damping)
	set("m1", &cfg.Params.M1, f.params.M1)
	set("m2", &cfg.Params.M2, f.params.M2)
	set("l1", &cfg.Params.L1, f.params.L1)
	set("l2", &cfg.Params.L2, f.params.L2)
	set("gravity", &cfg.Params.Gravity, f.params.Gravity)
	set("dt", &cfg.Solver.Dt, f.solver.Dt)
	set("rtol", &cfg.Solver.RelTol, f.solver.RelTol)
	set("atol", &cfg.Solver.AbsTol, f.solver.AbsTol)

	return cfg, cfg.Validate()
}

func newRunCmd(a *app) *cobra.Command {
	var (
		sim     simFlags
		noSave  bool
		animate bool
		saveCfg string
	)
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Long:  "Solve a pendulum or double_pendulum, print its metrics and store the run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.build(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			if saveCfg != "" {
				if err := config.Save(saveCfg, cfg); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "running %s simulation...\n", cfg.Model)
			res, err := experiment.New(cfg, a.log).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "completed in %v\n", res.Elapsed)
			fmt.Fprintf(out, "samples: %d\n", res.Trajectory.Len())

			if !noSave {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				id, err := st.Save(res.Record())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "run id: %s\n", id)
			}

			fmt.Fprintln(out, "\nmetrics:")
			if err := printMetrics(out, res.Metrics); err != nil {
				return err
			}

			if animate {
				return play(cmd, res.Derived, playOptions{title: cfg.Model, loop: true, trail: true})
			}
			return nil
		},
	}
	sim.register(cmd.Flags())
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&animate, "animate", false, "play the result in the terminal")
	cmd.Flags().StringVar(&saveCfg, "save-config", "", "write the effective config to this yaml file")
	return cmd
}

func printMetrics(w io.Writer, metrics map[string]float64) error {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%.6g\n", name, metrics[name])
	}
	return tw.Flush()
}

func newCompareCmd(a *app) *cobra.Command {
	var sim simFlags
	cmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.build(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			results, err := experiment.Compare(cmd.Context(), cfg, args[1:], a.log)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INTEGRATOR\tELAPSED\tENERGY DRIFT\tFINAL THETA")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%v\t%.3e\t%.6f\n",
					r.Config.Integrator, r.Elapsed, r.Metrics["energy_drift"], r.Trajectory.Final()[0])
			}
			return tw.Flush()
		},
	}
	sim.register(cmd.Flags())
	return cmd
}

func newLyapunovCmd(a *app) *cobra.Command {
	var (
		sim        simFlags
		eps        float64
		saturation float64
	)
	cmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest Lyapunov exponent from two nearby runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sim.build(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			lambda, err := experiment.Divergence(cmd.Context(), cfg, eps, saturation, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lyapunov exponent: %.4f 1/s\n", lambda)
			return nil
		},
	}
	sim.register(cmd.Flags())
	cmd.Flags().Float64Var(&eps, "eps", 1e-9, "initial offset of the first angle")
	cmd.Flags().Float64Var(&saturation, "saturation", 0.1, "separation at which the fit stops")
	return cmd
}

type playOptions struct {
	title string
	theme string
	speed float64
	loop  bool
	trail bool
}

func play(cmd *cobra.Command, d *export.Derived, opts playOptions) error {
	frames, err := d.Frames()
	if err != nil {
		return err
	}
	energy, _ := d.Get("total_energy")
	p, err := viz.NewPlayer(frames, viz.PlayerOptions{
		Title:  opts.title,
		Energy: energy,
		Theme:  opts.theme,
		Speed:  opts.speed,
		Loop:   opts.loop,
		Trail:  opts.trail,
	})
	if err != nil {
		return err
	}
	return viz.Play(cmd.Context(), p)
}
