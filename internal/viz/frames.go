package viz

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Point is a position in world coordinates, y pointing up.
type Point struct {
	X, Y float64
}

// Frame is the figure at one sampling time: the pivot followed by every
// bob, joined by straight rods.
type Frame struct {
	Time   float64
	Joints []Point
}

// Segment is one rod of a frame.
type Segment struct {
	From, To Point
}

// Segments returns the rods of the frame, pivot first.
func (f Frame) Segments() []Segment {
	if len(f.Joints) < 2 {
		return nil
	}
	out := make([]Segment, len(f.Joints)-1)
	for i := range out {
		out[i] = Segment{From: f.Joints[i], To: f.Joints[i+1]}
	}
	return out
}

// Tip is the last joint of the frame.
func (f Frame) Tip() Point {
	if len(f.Joints) == 0 {
		return Point{}
	}
	return f.Joints[len(f.Joints)-1]
}

// Frames builds one frame per sample from aligned bob coordinates given as
// x, y pairs: Frames(t, x, y) for a single pendulum, Frames(t, x1, y1, x2,
// y2) for a double one.
func Frames(t []float64, coords ...[]float64) ([]Frame, error) {
	if len(coords) == 0 || len(coords)%2 != 0 {
		return nil, &dynamo.ParamError{Name: "coords", Value: len(coords), Reason: "need x, y pairs"}
	}
	for i, c := range coords {
		if len(c) != len(t) {
			return nil, fmt.Errorf("frames: series %d has %d samples, want %d: %w",
				i, len(c), len(t), dynamo.ErrDimensionMismatch)
		}
	}

	frames := make([]Frame, len(t))
	for i := range t {
		joints := make([]Point, 0, len(coords)/2+1)
		joints = append(joints, Point{})
		for j := 0; j < len(coords); j += 2 {
			joints = append(joints, Point{X: coords[j][i], Y: coords[j+1][i]})
		}
		frames[i] = Frame{Time: t[i], Joints: joints}
	}
	return frames, nil
}

// Extent is the largest distance from the pivot reached by any joint,
// used to fix the viewport across an animation.
func Extent(frames []Frame) float64 {
	r := 0.0
	for _, f := range frames {
		for _, p := range f.Joints {
			r = math.Max(r, math.Hypot(p.X, p.Y))
		}
	}
	if r == 0 {
		return 1
	}
	return r
}

// Interval is the playback delay between frames: the sampling step of the
// trajectory, or fallback when there are fewer than two frames.
func Interval(frames []Frame, fallback time.Duration) time.Duration {
	if len(frames) < 2 {
		return fallback
	}
	dt := (frames[len(frames)-1].Time - frames[0].Time) / float64(len(frames)-1)
	if !(dt > 0) {
		return fallback
	}
	return time.Duration(dt * float64(time.Second))
}

// projector maps world coordinates onto canvas dots with the pivot at the
// centre and equal scale on both axes.
type projector struct {
	cx, cy int
	scale  float64
}

func newProjector(c *Canvas, extent float64) projector {
	w, h := c.SubWidth(), c.SubHeight()
	if !(extent > 0) {
		extent = 1
	}
	half := float64(min(w, h)) / 2
	return projector{cx: w / 2, cy: h / 2, scale: 0.9 * half / extent}
}

func (p projector) project(pt Point) (int, int) {
	return p.cx + int(math.Round(pt.X*p.scale)), p.cy - int(math.Round(pt.Y*p.scale))
}

// DrawFrame draws rods as lines and bobs as small discs. trail holds
// earlier tip positions to leave a trace.
func (c *Canvas) DrawFrame(f Frame, extent float64, trail []Point) {
	p := newProjector(c, extent)
	for _, pt := range trail {
		c.Set(p.project(pt))
	}
	for _, s := range f.Segments() {
		x0, y0 := p.project(s.From)
		x1, y1 := p.project(s.To)
		c.DrawLine(x0, y0, x1, y1)
	}
	for i, pt := range f.Joints {
		if i == 0 {
			continue
		}
		x, y := p.project(pt)
		c.DrawDisc(x, y, 1)
	}
}

// RenderFrame draws f on a fresh width x height cell canvas.
func RenderFrame(f Frame, width, height int, extent float64) string {
	c := NewCanvas(width, height)
	c.DrawFrame(f, extent, nil)
	return c.String()
}
