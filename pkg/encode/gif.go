package encode

import (
	"context"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/matzehuels/balleat/pkg/errors"
)

// GIF encodes an animated GIF using the Plan 9 palette.
type GIF struct{}

func (GIF) Format() Format  { return FormatGIF }
func (GIF) Available() bool { return true }

func (GIF) Encode(ctx context.Context, frames []image.Image, fps int, path string) error {
	if err := checkInput(frames, fps); err != nil {
		return err
	}

	// GIF delays are in hundredths of a second.
	delay := max(1, 100/fps)

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, img := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		anim.Image = append(anim.Image, toPaletted(img))
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeEncoderFailed, err, "encode gif")
	}
	return f.Close()
}

func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}
