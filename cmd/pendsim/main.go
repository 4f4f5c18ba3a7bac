package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/pendsim/internal/logging"
	"github.com/san-kum/pendsim/internal/storage"
)

// app carries what every command shares once flags are parsed.
type app struct {
	log zerolog.Logger
}

func (a *app) openStore() (storage.Store, error) {
	dataDir := viper.GetString("data")
	var st storage.Store
	switch backend := viper.GetString("store"); backend {
	case "file", "":
		st = storage.NewFileStore(dataDir)
	case "sqlite":
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, err
		}
		sqlStore, err := storage.OpenSQL(filepath.Join(dataDir, "runs.db"), a.log)
		if err != nil {
			return nil, err
		}
		st = sqlStore
	default:
		return nil, fmt.Errorf("unknown store %q (want file or sqlite)", backend)
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:           "pendsim",
		Short:         "single and double pendulum simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = logging.New(cmd.ErrOrStderr(), logging.Options{
				Level:  viper.GetString("log-level"),
				Pretty: !viper.GetBool("log-json"),
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("data", ".pendsim", "data directory")
	flags.String("store", "file", "run storage backend: file or sqlite")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.Bool("log-json", false, "log as JSON lines")
	for _, name := range []string{"data", "store", "log-level", "log-json"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("PENDSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		newRunCmd(a),
		newCompareCmd(a),
		newLyapunovCmd(a),
		newSweepCmd(a),
		newOptimizeCmd(a),
		newBatchCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newPlotCmd(a),
		newPhaseCmd(a),
		newAnimateCmd(a),
		newFramesCmd(a),
		newExportJSONCmd(a),
		newExportCSVCmd(a),
		newPresetsCmd(),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
