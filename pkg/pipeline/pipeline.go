// Package pipeline turns generation options into finished dataset tasks.
//
// This package implements the complete solve → place → render → encode
// pipeline used by the CLI and the HTTP API. Keeping it in one place means
// both entry points apply the same defaults, validation, seeding and
// caching.
//
// # Architecture
//
// A task is produced in four stages:
//
//  1. Solve and place: build a solvable [puzzle.Instance] from a per-task seed
//  2. Render: draw the first and final frames as PNG
//  3. Prompt: pick an instruction text for the task type
//  4. Encode (optional): animate the eating order and encode a video
//
// [Runner.GenerateTask] runs the stages for a single task, [Runner.Run]
// fans a whole batch out to a bounded worker pool and writes every task
// to disk with [WriteTask].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{NumSamples: 50, OutputDir: "data"}
//	summary, err := runner.Run(ctx, opts)
//
// Generate a single task without touching the filesystem:
//
//	task, err := runner.GenerateTask(ctx, opts, 0)
//	png := task.FirstFrame
//
// # Determinism
//
// Task i of a batch is seeded from [TaskSeed](opts.Seed, i). Identical
// options therefore give identical tasks regardless of worker count or
// the order in which workers finish.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/balleat/pkg/animate"
	"github.com/matzehuels/balleat/pkg/cache"
	"github.com/matzehuels/balleat/pkg/encode"
	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/prompts"
	"github.com/matzehuels/balleat/pkg/puzzle"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDomain names the dataset directory (<domain>_task) and task IDs.
	DefaultDomain = "ball_eating"

	// DefaultNumSamples is the batch size when none is given.
	DefaultNumSamples = 10

	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 512

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 512

	DefaultMinTargets   = 2
	DefaultMaxTargets   = 6
	DefaultGrowthFactor = 1.4
	DefaultMinSize      = 20.0
	DefaultMaxSize      = 150.0

	// DefaultFPS is the ground-truth video frame rate.
	DefaultFPS = 10

	// DefaultMaxDuration caps the video length in seconds.
	DefaultMaxDuration = 10.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultWorkers is the default batch concurrency.
	DefaultWorkers = 1

	// MaxWorkers bounds Options.Workers.
	MaxWorkers = 64

	// MaxNumSamples bounds a single batch.
	MaxNumSamples = 100_000
)

// DefaultVideoFormat is the default ground-truth container.
const DefaultVideoFormat = encode.FormatMP4

// DefaultTaskType selects the prompt pool.
const DefaultTaskType = prompts.DefaultTaskType

// DefaultCacheTTL is how long generated tasks stay cached.
const DefaultCacheTTL = cache.DefaultTTL

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for task generation.
// This struct supports JSON serialization for API requests and TOML for
// config files. Zero values mean "use the default".
type Options struct {
	// Batch options
	Domain     string `json:"domain,omitempty" toml:"domain"`
	NumSamples int    `json:"num_samples,omitempty" toml:"num_samples"`
	OutputDir  string `json:"-" toml:"output_dir"`
	Seed       uint64 `json:"seed,omitempty" toml:"seed"`
	Workers    int    `json:"-" toml:"workers"`
	Refresh    bool   `json:"-" toml:"refresh"` // Ignore cached tasks (still writes fresh ones)

	// Puzzle options
	Width            int     `json:"width,omitempty" toml:"width"`
	Height           int     `json:"height,omitempty" toml:"height"`
	MinTargets       int     `json:"min_targets,omitempty" toml:"min_targets"`
	MaxTargets       int     `json:"max_targets,omitempty" toml:"max_targets"`
	GrowthFactor     float64 `json:"growth_factor,omitempty" toml:"growth_factor"`
	MinSize          float64 `json:"min_size,omitempty" toml:"min_size"`
	MaxSize          float64 `json:"max_size,omitempty" toml:"max_size"`
	MaxSolveAttempts int     `json:"max_solve_attempts,omitempty" toml:"max_solve_attempts"`
	TaskType         string  `json:"task_type,omitempty" toml:"task_type"`

	// Video options
	SkipVideos  bool    `json:"skip_videos,omitempty" toml:"skip_videos"` // Skip ground-truth videos (default: false = encode)
	VideoFormat string  `json:"video_format,omitempty" toml:"video_format"`
	FPS         int     `json:"fps,omitempty" toml:"fps"`
	MaxDuration float64 `json:"max_duration,omitempty" toml:"max_duration"`
	Easing      string  `json:"easing,omitempty" toml:"easing"`

	// Cache options
	CacheTTL time.Duration `json:"-" toml:"cache_ttl"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetBatchDefaults()
	o.SetPuzzleDefaults()
	o.SetVideoDefaults()
	if err := o.ValidateForPuzzle(); err != nil {
		return err
	}
	if err := o.ValidateForVideo(); err != nil {
		return err
	}
	if err := o.ValidateForBatch(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetBatchDefaults sets defaults for batch execution.
func (o *Options) SetBatchDefaults() {
	if o.Domain == "" {
		o.Domain = DefaultDomain
	}
	if o.NumSamples == 0 {
		o.NumSamples = DefaultNumSamples
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetPuzzleDefaults sets defaults for instance generation and rendering.
func (o *Options) SetPuzzleDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MinTargets == 0 {
		o.MinTargets = DefaultMinTargets
	}
	if o.MaxTargets == 0 {
		o.MaxTargets = max(DefaultMaxTargets, o.MinTargets)
	}
	if o.GrowthFactor == 0 {
		o.GrowthFactor = DefaultGrowthFactor
	}
	if o.MinSize == 0 {
		o.MinSize = DefaultMinSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.MaxSolveAttempts == 0 {
		o.MaxSolveAttempts = puzzle.DefaultMaxAttempts
	}
	if o.TaskType == "" {
		o.TaskType = DefaultTaskType
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetVideoDefaults sets defaults for animation and encoding.
func (o *Options) SetVideoDefaults() {
	if o.VideoFormat == "" {
		o.VideoFormat = string(DefaultVideoFormat)
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.MaxDuration == 0 {
		o.MaxDuration = DefaultMaxDuration
	}
	if o.Easing == "" {
		o.Easing = animate.EasingLinear
	}
}

// ValidateForPuzzle sets puzzle defaults and checks puzzle fields.
func (o *Options) ValidateForPuzzle() error {
	o.SetPuzzleDefaults()
	if err := errors.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateTargetRange(o.MinTargets, o.MaxTargets); err != nil {
		return err
	}
	if err := errors.ValidateGrowthFactor(o.GrowthFactor); err != nil {
		return err
	}
	if err := errors.ValidateSizeBounds(o.MinSize, o.MaxSize); err != nil {
		return err
	}
	if o.MaxSolveAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_solve_attempts must be positive, got %d", o.MaxSolveAttempts)
	}
	return errors.ValidateName("task type", o.TaskType)
}

// ValidateForVideo sets video defaults and checks video fields.
// Video fields are validated even when SkipVideos is set so a config file
// stays valid when videos are switched back on.
func (o *Options) ValidateForVideo() error {
	o.SetVideoDefaults()
	if err := errors.ValidateVideo(o.FPS, o.MaxDuration); err != nil {
		return err
	}
	if err := ValidateVideoFormat(o.VideoFormat); err != nil {
		return err
	}
	_, err := o.MoveEasing()
	return err
}

// ValidateForBatch sets batch defaults and checks batch fields.
func (o *Options) ValidateForBatch() error {
	o.SetBatchDefaults()
	if err := errors.ValidateName("domain", o.Domain); err != nil {
		return err
	}
	if o.NumSamples < 0 || o.NumSamples > MaxNumSamples {
		return errors.New(errors.ErrCodeInvalidConfig, "num_samples must be in [1, %d], got %d", MaxNumSamples, o.NumSamples)
	}
	if o.Workers < 0 || o.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be in [1, %d], got %d", MaxWorkers, o.Workers)
	}
	if o.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache_ttl must not be negative, got %s", o.CacheTTL)
	}
	return nil
}

// ValidateVideoFormat checks that format names a supported container.
func ValidateVideoFormat(format string) error {
	for _, f := range encode.Formats {
		if string(f) == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid video format: %q (must be one of: mp4, gif)", format)
}

// PuzzleConfig returns the instance generator configuration.
func (o *Options) PuzzleConfig() puzzle.Config {
	return puzzle.Config{
		MinTargets:   o.MinTargets,
		MaxTargets:   o.MaxTargets,
		GrowthFactor: o.GrowthFactor,
		MinSize:      o.MinSize,
		MaxSize:      o.MaxSize,
		Width:        float64(o.Width),
		Height:       float64(o.Height),
		MaxAttempts:  o.MaxSolveAttempts,
	}
}

// MoveEasing resolves the configured easing name.
func (o *Options) MoveEasing() (ease.TweenFunc, error) {
	fn, err := animate.Easing(o.Easing)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "easing")
	}
	return fn, nil
}

// AnimateOptions returns the frame sequencer configuration.
func (o *Options) AnimateOptions() (animate.Options, error) {
	fn, err := o.MoveEasing()
	if err != nil {
		return animate.Options{}, err
	}
	return animate.Options{FPS: o.FPS, MaxDuration: o.MaxDuration, MoveEasing: fn}, nil
}

// taskKeyOpts holds every option that changes a task's images, prompt or
// instance. Batch-level fields are deliberately absent.
type taskKeyOpts struct {
	Domain           string
	Width, Height    int
	MinTargets       int
	MaxTargets       int
	GrowthFactor     float64
	MinSize, MaxSize float64
	MaxSolveAttempts int
	TaskType         string
}

// videoKeyOpts adds the fields that only change the video.
type videoKeyOpts struct {
	Task        taskKeyOpts
	FPS         int
	MaxDuration float64
	Easing      string
}

// TaskHash identifies the task-shaping options for cache keys.
func (o *Options) TaskHash() string {
	h, _ := cache.HashJSON(o.taskKeyOpts())
	return h
}

// VideoHash identifies the video-shaping options for cache keys.
func (o *Options) VideoHash() string {
	h, _ := cache.HashJSON(videoKeyOpts{
		Task:        o.taskKeyOpts(),
		FPS:         o.FPS,
		MaxDuration: o.MaxDuration,
		Easing:      o.Easing,
	})
	return h
}

func (o *Options) taskKeyOpts() taskKeyOpts {
	return taskKeyOpts{
		Domain:           o.Domain,
		Width:            o.Width,
		Height:           o.Height,
		MinTargets:       o.MinTargets,
		MaxTargets:       o.MaxTargets,
		GrowthFactor:     o.GrowthFactor,
		MinSize:          o.MinSize,
		MaxSize:          o.MaxSize,
		MaxSolveAttempts: o.MaxSolveAttempts,
		TaskType:         o.TaskType,
	}
}
