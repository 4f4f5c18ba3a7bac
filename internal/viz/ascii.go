package viz

import (
	"github.com/guptarohit/asciigraph"
)

// ASCIIPlot renders data as a terminal line chart. Long series are
// thinned to at most 4*width points first.
func ASCIIPlot(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if limit := 4 * width; width > 0 && len(data) > limit {
		data = thin(data, limit)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// ASCIIPlots overlays several series of equal length in one chart.
func ASCIIPlots(series [][]float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	thinned := make([][]float64, len(series))
	for i, s := range series {
		thinned[i] = s
		if limit := 4 * width; width > 0 && len(s) > limit {
			thinned[i] = thin(s, limit)
		}
	}
	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta}
	seriesColors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		seriesColors[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(thinned,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors...),
	)
}

// thin keeps n evenly spaced samples, first and last included.
func thin(data []float64, n int) []float64 {
	if n < 2 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*step+0.5)]
	}
	return out
}
