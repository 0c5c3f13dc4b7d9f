package encode

import (
	"bytes"
	"context"
	"image"
	"os/exec"
	"strconv"

	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/render"
)

// FFmpeg encodes H.264 MP4 by piping PNG frames into ffmpeg.
// Requires ffmpeg: brew install ffmpeg (macOS), apt install ffmpeg (Linux).
type FFmpeg struct {
	// Binary overrides the executable name. Defaults to "ffmpeg".
	Binary string
}

func (f *FFmpeg) binary() string {
	if f.Binary != "" {
		return f.Binary
	}
	return "ffmpeg"
}

func (f *FFmpeg) Format() Format { return FormatMP4 }

func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.binary())
	return err == nil
}

func (f *FFmpeg) Encode(ctx context.Context, frames []image.Image, fps int, path string) error {
	if err := checkInput(frames, fps); err != nil {
		return err
	}
	bin, err := exec.LookPath(f.binary())
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncoderUnavailable, err,
			"mp4 export requires ffmpeg. Install with:\n  macOS:  brew install ffmpeg\n  Linux:  apt install ffmpeg")
	}

	var in bytes.Buffer
	for i, img := range frames {
		data, err := render.EncodePNG(img)
		if err != nil {
			return errors.Wrap(errors.ErrCodeEncoderFailed, err, "encode frame %d", i)
		}
		in.Write(data)
	}

	cmd := exec.CommandContext(ctx, bin, ffmpegArgs(fps, path)...)
	cmd.Stdin = &in

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeEncoderFailed, err, "ffmpeg: %s", errBuf.String())
	}
	return nil
}

// ffmpegArgs reads PNGs from stdin and writes yuv420p H.264. The pad filter
// rounds odd canvas dimensions up to even, which libx264 requires.
func ffmpegArgs(fps int, path string) []string {
	rate := strconv.Itoa(fps)
	return []string{
		"-y", "-loglevel", "error",
		"-f", "image2pipe", "-framerate", rate, "-c:v", "png", "-i", "-",
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-r", rate,
		"-movflags", "+faststart",
		path,
	}
}
