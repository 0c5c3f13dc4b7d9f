// Package encode writes rendered frame sequences as ground-truth videos.
//
// Two backends are available:
//
//   - [FFmpeg]: H.264 MP4 via the ffmpeg binary, which must be on PATH
//   - [GIF]: animated GIF, pure Go, always available
//
// Callers pick a backend with [New] and should check [Encoder.Available]
// before rendering frames. An unavailable backend returns an error coded
// ENCODER_UNAVAILABLE from Encode, and the batch runner treats that as a
// reason to skip the video rather than fail the task.
package encode

import (
	"context"
	"image"

	"github.com/matzehuels/balleat/pkg/errors"
)

// Format names a video container.
type Format string

const (
	FormatMP4 Format = "mp4"
	FormatGIF Format = "gif"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMP4, FormatGIF}

// Encoder turns frames into a video file.
type Encoder interface {
	// Format reports the container this encoder writes.
	Format() Format
	// Available reports whether the backend can run in this environment.
	Available() bool
	// Encode writes frames to path at the given frame rate.
	Encode(ctx context.Context, frames []image.Image, fps int, path string) error
}

// New returns the encoder for format.
func New(format Format) (Encoder, error) {
	switch format {
	case FormatMP4:
		return &FFmpeg{}, nil
	case FormatGIF:
		return &GIF{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported video format: %q (must be mp4 or gif)", format)
	}
}

// Filename returns the ground-truth video file name for format.
func Filename(format Format) string {
	return "ground_truth." + string(format)
}

func checkInput(frames []image.Image, fps int) error {
	if len(frames) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no frames to encode")
	}
	if fps <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "fps must be positive, got %d", fps)
	}
	return nil
}
