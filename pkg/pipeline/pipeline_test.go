package pipeline

import (
	"testing"
	"time"

	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/puzzle"
)

func TestValidateVideoFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"mp4", false},
		{"gif", false},
		{"webm", true},
		{"MP4", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVideoFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVideoFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateVideoFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Domain", opts.Domain, DefaultDomain},
		{"NumSamples", opts.NumSamples, DefaultNumSamples},
		{"Seed", opts.Seed, DefaultSeed},
		{"Workers", opts.Workers, DefaultWorkers},
		{"Width", opts.Width, DefaultWidth},
		{"Height", opts.Height, DefaultHeight},
		{"MinTargets", opts.MinTargets, DefaultMinTargets},
		{"MaxTargets", opts.MaxTargets, DefaultMaxTargets},
		{"GrowthFactor", opts.GrowthFactor, DefaultGrowthFactor},
		{"MinSize", opts.MinSize, DefaultMinSize},
		{"MaxSize", opts.MaxSize, DefaultMaxSize},
		{"MaxSolveAttempts", opts.MaxSolveAttempts, puzzle.DefaultMaxAttempts},
		{"TaskType", opts.TaskType, DefaultTaskType},
		{"VideoFormat", opts.VideoFormat, string(DefaultVideoFormat)},
		{"FPS", opts.FPS, DefaultFPS},
		{"MaxDuration", opts.MaxDuration, DefaultMaxDuration},
		{"Easing", opts.Easing, "linear"},
		{"CacheTTL", opts.CacheTTL, 24 * time.Hour},
		{"SkipVideos", opts.SkipVideos, false},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsMaxTargetsFollowsMin(t *testing.T) {
	opts := Options{MinTargets: 9}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MaxTargets != 9 {
		t.Errorf("MaxTargets = %d, want 9", opts.MaxTargets)
	}
}

func TestOptionsIdempotent(t *testing.T) {
	opts := Options{GrowthFactor: 1.7, Seed: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if first.TaskHash() != opts.TaskHash() || first.VideoHash() != opts.VideoHash() {
		t.Error("second ValidateAndSetDefaults changed options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"growth at one", Options{GrowthFactor: 1}, errors.ErrCodeInvalidConfig},
		{"growth below one", Options{GrowthFactor: 0.5}, errors.ErrCodeInvalidConfig},
		{"negative min size", Options{MinSize: -1}, errors.ErrCodeInvalidConfig},
		{"min above max", Options{MinSize: 200, MaxSize: 100}, errors.ErrCodeInvalidConfig},
		{"max targets below min", Options{MinTargets: 4, MaxTargets: 2}, errors.ErrCodeInvalidConfig},
		{"negative width", Options{Width: -5}, errors.ErrCodeInvalidConfig},
		{"negative fps", Options{FPS: -1}, errors.ErrCodeInvalidConfig},
		{"negative duration", Options{MaxDuration: -2}, errors.ErrCodeInvalidConfig},
		{"bad format", Options{VideoFormat: "avi"}, errors.ErrCodeInvalidFormat},
		{"bad easing", Options{Easing: "wobble"}, errors.ErrCodeInvalidConfig},
		{"path in domain", Options{Domain: "../etc"}, errors.ErrCodeInvalidInput},
		{"path in task type", Options{TaskType: "a/b"}, errors.ErrCodeInvalidInput},
		{"too many workers", Options{Workers: MaxWorkers + 1}, errors.ErrCodeInvalidConfig},
		{"negative samples", Options{NumSamples: -1}, errors.ErrCodeInvalidConfig},
		{"negative ttl", Options{CacheTTL: -time.Second}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestVideoOptionsInvalidEvenWhenSkipped(t *testing.T) {
	opts := Options{SkipVideos: true, VideoFormat: "avi"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid video format should fail even with videos skipped")
	}
}

func TestOptionsHashes(t *testing.T) {
	base := Options{}
	if err := base.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	// Batch-level fields do not change either hash.
	batch := base
	batch.Workers, batch.NumSamples, batch.OutputDir, batch.Seed = 8, 999, "/tmp/x", 7
	if batch.TaskHash() != base.TaskHash() || batch.VideoHash() != base.VideoHash() {
		t.Error("batch fields should not affect cache hashes")
	}

	// Video fields change only the video hash.
	video := base
	video.FPS = 24
	if video.TaskHash() != base.TaskHash() {
		t.Error("fps should not affect the task hash")
	}
	if video.VideoHash() == base.VideoHash() {
		t.Error("fps should affect the video hash")
	}

	// Puzzle fields change both.
	puzzleOpts := base
	puzzleOpts.GrowthFactor = 1.6
	if puzzleOpts.TaskHash() == base.TaskHash() || puzzleOpts.VideoHash() == base.VideoHash() {
		t.Error("growth factor should affect both hashes")
	}
}

func TestPuzzleConfig(t *testing.T) {
	opts := Options{Width: 300, Height: 200, MinTargets: 3, MaxTargets: 4}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	cfg := opts.PuzzleConfig()
	if cfg.Width != 300 || cfg.Height != 200 || cfg.MinTargets != 3 || cfg.MaxTargets != 4 {
		t.Errorf("PuzzleConfig() = %+v", cfg)
	}
	if cfg.MaxAttempts != puzzle.DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", cfg.MaxAttempts, puzzle.DefaultMaxAttempts)
	}
}

func TestParseOptions(t *testing.T) {
	data := []byte(`
domain = "ball_eating_hard"
num_samples = 25
seed = 7
min_targets = 4
max_targets = 8
growth_factor = 1.25
video_format = "gif"
easing = "in-out-sine"
cache_ttl = "12h"
`)
	opts, err := ParseOptions(data)
	if err != nil {
		t.Fatalf("ParseOptions() error: %v", err)
	}
	if opts.Domain != "ball_eating_hard" || opts.NumSamples != 25 || opts.Seed != 7 {
		t.Errorf("batch fields not decoded: %+v", opts)
	}
	if opts.MinTargets != 4 || opts.MaxTargets != 8 || opts.GrowthFactor != 1.25 {
		t.Errorf("puzzle fields not decoded: %+v", opts)
	}
	if opts.VideoFormat != "gif" || opts.Easing != "in-out-sine" {
		t.Errorf("video fields not decoded: %+v", opts)
	}
	if opts.CacheTTL != 12*time.Hour {
		t.Errorf("CacheTTL = %v, want 12h", opts.CacheTTL)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("decoded options should validate: %v", err)
	}
}

func TestParseOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `domain = `},
		{"unknown key", "domain = \"x\"\ngrowth = 1.5\n"},
		{"wrong type", `num_samples = "ten"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions("/nonexistent/balleat.toml")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestTaskSeed(t *testing.T) {
	seen := make(map[uint64]int)
	for i := 0; i < 1000; i++ {
		s := TaskSeed(42, i)
		if prev, ok := seen[s]; ok {
			t.Fatalf("TaskSeed(42, %d) collides with index %d", i, prev)
		}
		seen[s] = i
	}
	if TaskSeed(42, 3) != TaskSeed(42, 3) {
		t.Error("TaskSeed should be deterministic")
	}
	if TaskSeed(42, 0) == TaskSeed(43, 0) {
		t.Error("different batch seeds should give different task seeds")
	}
}

func TestTaskID(t *testing.T) {
	if got := TaskID("ball_eating", 7); got != "ball_eating_0007" {
		t.Errorf("TaskID() = %q", got)
	}
	if got := TaskID("x", 12345); got != "x_12345" {
		t.Errorf("TaskID() = %q", got)
	}
}
