package render

import (
	"bytes"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/balleat/pkg/animate"
	"github.com/matzehuels/balleat/pkg/puzzle"
)

// Palette holds the colors used for a task.
type Palette struct {
	Background color.Color
	Eater      color.Color
	Target     color.Color
}

// DefaultPalette is a white background with a black eater and red targets.
func DefaultPalette() Palette {
	return Palette{
		Background: color.White,
		Eater:      color.Black,
		Target:     color.RGBA{R: 255, A: 255},
	}
}

// Renderer draws puzzle states on a fixed-size canvas.
// It holds no per-image state and is safe for concurrent use.
type Renderer struct {
	width   int
	height  int
	palette Palette
}

// New creates a renderer for a width×height canvas.
func New(width, height int, palette Palette) *Renderer {
	return &Renderer{width: width, height: height, palette: palette}
}

// Size returns the canvas dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Initial renders the eater and all targets at their start positions.
func (r *Renderer) Initial(inst puzzle.Instance) image.Image {
	dc := r.canvas()
	for _, t := range inst.Targets {
		r.disc(dc, t.X, t.Y, t.Size, r.palette.Target)
	}
	r.disc(dc, inst.Eater.X, inst.Eater.Y, inst.Eater.Size, r.palette.Eater)
	return dc.Image()
}

// Final renders the eater alone at the canvas center with its final size.
// The position deliberately ignores where the animation ends.
func (r *Renderer) Final(inst puzzle.Instance) image.Image {
	dc := r.canvas()
	r.disc(dc, float64(r.width)/2, float64(r.height)/2, inst.FinalSize(), r.palette.Eater)
	return dc.Image()
}

// State renders one animation frame. Targets not listed in s.Remaining are
// skipped.
func (r *Renderer) State(inst puzzle.Instance, s animate.WorldState) image.Image {
	dc := r.canvas()
	for _, id := range s.Remaining {
		if t, ok := inst.Target(id); ok {
			r.disc(dc, t.X, t.Y, t.Size, r.palette.Target)
		}
	}
	r.disc(dc, s.EaterX, s.EaterY, s.EaterSize, r.palette.Eater)
	return dc.Image()
}

// Frames renders every state in order.
func (r *Renderer) Frames(inst puzzle.Instance, states []animate.WorldState) []image.Image {
	out := make([]image.Image, len(states))
	for i, s := range states {
		out[i] = r.State(inst, s)
	}
	return out
}

// canvas returns a context cleared to the background color.
func (r *Renderer) canvas() *gg.Context {
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(r.palette.Background)
	dc.Clear()
	return dc
}

// disc fills a circle of the given diameter centered at (x, y).
func (r *Renderer) disc(dc *gg.Context, x, y, size float64, c color.Color) {
	dc.DrawCircle(x, y, size/2)
	dc.SetColor(c)
	dc.Fill()
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
