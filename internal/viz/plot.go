package viz

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Line is one named curve of a line plot.
type Line struct {
	Label  string
	Values []float64
}

// PlotSize fixes the image size of a plot.
type PlotSize struct {
	Width, Height vg.Length
	DPI           int
}

var (
	DefaultPlotSize  = PlotSize{Width: 8 * vg.Inch, Height: 5 * vg.Inch, DPI: 150}
	DefaultFrameSize = PlotSize{Width: 4 * vg.Inch, Height: 4 * vg.Inch, DPI: 100}
)

// WritePNG renders p and writes it as PNG.
func WritePNG(w io.Writer, p *plot.Plot, size PlotSize) error {
	c := vgimg.NewWith(vgimg.UseWH(size.Width, size.Height), vgimg.UseDPI(size.DPI))
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}

func savePNG(path string, p *plot.Plot, size PlotSize) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, p, size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LinePlot draws every line against t.
func LinePlot(title, xLabel, yLabel string, t []float64, lines ...Line) (*plot.Plot, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("line plot: %w", dynamo.ErrNoTrajectory)
	}
	if len(lines) == 0 {
		return nil, &dynamo.ParamError{Name: "lines", Value: 0, Reason: "need at least one"}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	for i, ln := range lines {
		if len(ln.Values) != len(t) {
			return nil, fmt.Errorf("line plot: %q has %d values for %d times: %w",
				ln.Label, len(ln.Values), len(t), dynamo.ErrDimensionMismatch)
		}
		pts := make(plotter.XYs, len(t))
		for j := range t {
			pts[j].X = t[j]
			pts[j].Y = ln.Values[j]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line plot %q: %w", ln.Label, err)
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = plotutil.Color(i)
		p.Add(l)
		if ln.Label != "" {
			p.Legend.Add(ln.Label, l)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// SaveEnergyPlot writes the energy curves of a run as a PNG.
func SaveEnergyPlot(path, title string, t []float64, lines ...Line) error {
	p, err := LinePlot(title, "time (s)", "energy (J)", t, lines...)
	if err != nil {
		return err
	}
	return savePNG(path, p, DefaultPlotSize)
}

var (
	rodColor = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	bobColor = color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}
)

// FramePlot draws one frame in a fixed square viewport of half-width
// extent.
func FramePlot(f Frame, extent float64) (*plot.Plot, error) {
	if len(f.Joints) < 2 {
		return nil, &dynamo.ParamError{Name: "joints", Value: len(f.Joints), Reason: "need a pivot and a bob"}
	}
	pad := 1.1 * extent

	p := plot.New()
	p.Title.Text = fmt.Sprintf("t = %.3f s", f.Time)
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad

	rods := make(plotter.XYs, len(f.Joints))
	for i, j := range f.Joints {
		rods[i].X, rods[i].Y = j.X, j.Y
	}
	l, err := plotter.NewLine(rods)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Width = vg.Points(2)
	l.LineStyle.Color = rodColor

	bobs, err := plotter.NewScatter(rods[1:])
	if err != nil {
		return nil, err
	}
	bobs.GlyphStyle.Shape = draw.CircleGlyph{}
	bobs.GlyphStyle.Radius = vg.Points(6)
	bobs.GlyphStyle.Color = bobColor

	p.Add(l, bobs)
	return p, nil
}

// WriteFrames saves every n-th frame as dir/frame_NNNNN.png and returns
// how many files were written.
func WriteFrames(dir string, frames []Frame, every int) (int, error) {
	if len(frames) == 0 {
		return 0, fmt.Errorf("frames: %w", dynamo.ErrNoTrajectory)
	}
	if every < 1 {
		return 0, &dynamo.ParamError{Name: "every", Value: every, Reason: "must be at least 1"}
	}

	extent := Extent(frames)
	written := 0
	for i := 0; i < len(frames); i += every {
		p, err := FramePlot(frames[i], extent)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", written))
		if err := savePNG(path, p, DefaultFrameSize); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
