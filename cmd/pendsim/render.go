package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/viz"
)

func newAnimateCmd(a *app) *cobra.Command {
	var (
		opts    playOptions
		gifPath string
		every   int
	)
	cmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, d, err := a.loadDerived(args[0])
			if err != nil {
				return err
			}
			if gifPath == "" {
				if opts.title == "" {
					opts.title = run.Meta.Model
				}
				return play(cmd, d, opts)
			}

			frames, err := d.Frames()
			if err != nil {
				return err
			}
			f, err := os.Create(gifPath)
			if err != nil {
				return err
			}
			if err := viz.WriteGIF(f, frames, 60, 24, every); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", gifPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.theme, "theme", "phosphor", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	cmd.Flags().Float64Var(&opts.speed, "speed", 1, "playback speed relative to real time")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "restart when the run ends")
	cmd.Flags().BoolVar(&opts.trail, "trail", true, "trace the path of the last bob")
	cmd.Flags().StringVar(&gifPath, "gif", "", "write a GIF instead of playing")
	cmd.Flags().IntVar(&every, "every", 1, "GIF: keep every n-th frame")
	return cmd
}

func newFramesCmd(a *app) *cobra.Command {
	var (
		dir   string
		every int
		svg   bool
	)
	cmd := &cobra.Command{
		Use:   "frames [run_id]",
		Short: "write animation frames as images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, d, err := a.loadDerived(args[0])
			if err != nil {
				return err
			}
			frames, err := d.Frames()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = filepath.Join(viper.GetString("data"), run.Meta.ID, "frames")
			}

			var n int
			if svg {
				n, err = writeSVGFrames(dir, frames, every)
			} else {
				n, err = viz.WriteFrames(dir, frames, every)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", n, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", "", "output directory (default: <data>/<run_id>/frames)")
	cmd.Flags().IntVar(&every, "every", 10, "keep every n-th sample")
	cmd.Flags().BoolVar(&svg, "svg", false, "write Braille-canvas SVGs instead of PNG plots")
	return cmd
}

func writeSVGFrames(dir string, frames []viz.Frame, every int) (int, error) {
	if every < 1 {
		return 0, fmt.Errorf("every must be at least 1, got %d", every)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	extent := viz.Extent(frames)
	canvas := viz.NewCanvas(60, 30)
	written := 0
	for i := 0; i < len(frames); i += every {
		canvas.Clear()
		canvas.DrawFrame(frames[i], extent, nil)

		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame_%05d.svg", written)))
		if err != nil {
			return written, err
		}
		if err := export.CanvasSVG(f, canvas, 4); err != nil {
			f.Close()
			return written, err
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
