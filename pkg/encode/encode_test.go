package encode

import (
	"context"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/puzzle"
	"github.com/matzehuels/balleat/pkg/render"
)

func testFrames(n int) []image.Image {
	inst := puzzle.Instance{
		Eater:        puzzle.Ball{Size: 20, X: 32, Y: 32},
		Targets:      []puzzle.Target{{Ball: puzzle.Ball{Size: 10, X: 50, Y: 50}, ID: 0}},
		Order:        []int{0},
		GrowthFactor: 1.4,
	}
	r := render.New(64, 64, render.DefaultPalette())
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = r.Initial(inst)
	}
	return frames
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  Format
		wantErr bool
	}{
		{FormatMP4, false},
		{FormatGIF, false},
		{"webm", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			enc, err := New(tt.format)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Fatalf("New(%q) error = %v, want INVALID_FORMAT", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.format, err)
			}
			if enc.Format() != tt.format {
				t.Errorf("Format() = %q, want %q", enc.Format(), tt.format)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(FormatMP4); got != "ground_truth.mp4" {
		t.Errorf("Filename(mp4) = %q", got)
	}
	if got := Filename(FormatGIF); got != "ground_truth.gif" {
		t.Errorf("Filename(gif) = %q", got)
	}
}

func TestGIFEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := (GIF{}).Encode(context.Background(), testFrames(5), 10, path); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("gif.DecodeAll() error: %v", err)
	}
	if len(anim.Image) != 5 {
		t.Errorf("frames = %d, want 5", len(anim.Image))
	}
	if !slices.Equal(anim.Delay, []int{10, 10, 10, 10, 10}) {
		t.Errorf("delays = %v, want 10cs each", anim.Delay)
	}
}

func TestGIFEncodeRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	ctx := context.Background()

	if err := (GIF{}).Encode(ctx, nil, 10, path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no frames: error = %v, want INVALID_INPUT", err)
	}
	if err := (GIF{}).Encode(ctx, testFrames(1), 0, path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero fps: error = %v, want INVALID_INPUT", err)
	}
}

func TestGIFEncodeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := (GIF{}).Encode(ctx, testFrames(3), 10, path); err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFFmpegUnavailable(t *testing.T) {
	enc := &FFmpeg{Binary: "balleat-no-such-ffmpeg"}
	if enc.Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	err := enc.Encode(context.Background(), testFrames(2), 10, filepath.Join(t.TempDir(), "out.mp4"))
	if !errors.Is(err, errors.ErrCodeEncoderUnavailable) {
		t.Errorf("error = %v, want ENCODER_UNAVAILABLE", err)
	}
}

func TestFFmpegEncode(t *testing.T) {
	enc := &FFmpeg{}
	if !enc.Available() {
		t.Skip("ffmpeg not installed")
	}
	path := filepath.Join(t.TempDir(), "out.mp4")
	if err := enc.Encode(context.Background(), testFrames(6), 10, path); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty mp4")
	}
}

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs(12, "/tmp/x.mp4")
	if args[len(args)-1] != "/tmp/x.mp4" {
		t.Errorf("output path should be last, got %v", args)
	}
	if !slices.Contains(args, "libx264") || !slices.Contains(args, "12") {
		t.Errorf("missing codec or rate in %v", args)
	}
}
