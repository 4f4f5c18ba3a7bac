package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/viz"
)

const background = "fill:#0a0a0a"

// CanvasSVG draws every lit dot of a Braille canvas as a circle, scale
// pixels per sub-cell.
func CanvasSVG(w io.Writer, canvas *viz.Canvas, scale int) error {
	if canvas == nil {
		return fmt.Errorf("canvas svg: nil canvas: %w", dynamo.ErrInvalidParameters)
	}
	if scale < 1 {
		return &dynamo.ParamError{Name: "scale", Value: scale, Reason: "must be at least 1"}
	}

	width := canvas.Width * scale * 2
	height := canvas.Height * scale * 4

	s := svg.New(w)
	s.Start(width, height)
	s.Rect(0, 0, width, height, background)
	s.Gstyle("fill:#00ff00")

	radius := max(1, scale*2/5)
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !canvas.Lit(col*2+dx, row*4+dy) {
						continue
					}
					cx := (col*2+dx)*scale + scale/2
					cy := (row*4+dy)*scale + scale/2
					s.Circle(cx, cy, radius)
				}
			}
		}
	}

	s.Gend()
	s.End()
	return nil
}

// PathSVG draws the curve (xs[i], ys[i]) as a polyline fitted to a
// width x height image with 10% padding. y grows upwards.
func PathSVG(w io.Writer, xs, ys []float64, width, height int, strokeColor string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("path svg: %d x vs %d y: %w", len(xs), len(ys), dynamo.ErrDimensionMismatch)
	}
	if len(xs) < 2 {
		return &dynamo.ParamError{Name: "points", Value: len(xs), Reason: "need at least 2"}
	}
	if width < 1 || height < 1 {
		return &dynamo.ParamError{Name: "size", Value: [2]int{width, height}, Reason: "must be positive"}
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	px := make([]int, len(xs))
	py := make([]int, len(ys))
	for i := range xs {
		px[i] = int((xs[i] - minX) / rangeX * float64(width))
		py[i] = height - int((ys[i]-minY)/rangeY*float64(height))
	}

	s := svg.New(w)
	s.Start(width, height)
	s.Rect(0, 0, width, height, background)
	s.Polyline(px, py, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", strokeColor))
	s.End()
	return nil
}
