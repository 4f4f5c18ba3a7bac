package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Each Braille cell is rasterised as a charW x charH block.
const (
	charW = 8
	charH = 16
)

var gifPalette = color.Palette{color.Black, color.RGBA{0x00, 0xff, 0x00, 0xff}}

// Rasterize paints the lit dots of the canvas onto a two-colour image.
func (c *Canvas) Rasterize() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), gifPalette)
	dotW, dotH := charW/2, charH/4
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	return img
}

// WriteGIF encodes every n-th frame as a looping animation. Delays follow
// the sampling times, rounded to the 10 ms resolution of the format.
func WriteGIF(w io.Writer, frames []Frame, width, height, every int) error {
	if len(frames) == 0 {
		return fmt.Errorf("gif: %w", dynamo.ErrNoTrajectory)
	}
	if every < 1 {
		return &dynamo.ParamError{Name: "every", Value: every, Reason: "must be at least 1"}
	}
	if width < 1 || height < 1 {
		return &dynamo.ParamError{Name: "size", Value: [2]int{width, height}, Reason: "must be positive"}
	}

	extent := Extent(frames)
	canvas := NewCanvas(width, height)
	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < len(frames); i += every {
		canvas.Clear()
		canvas.DrawFrame(frames[i], extent, nil)
		anim.Image = append(anim.Image, canvas.Rasterize())

		delay := 2
		if next := i + every; next < len(frames) {
			delay = max(2, int((frames[next].Time-frames[i].Time)*100+0.5))
		}
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
