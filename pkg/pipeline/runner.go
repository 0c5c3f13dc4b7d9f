package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/balleat/pkg/animate"
	"github.com/matzehuels/balleat/pkg/cache"
	"github.com/matzehuels/balleat/pkg/encode"
	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/observability"
	"github.com/matzehuels/balleat/pkg/prompts"
	"github.com/matzehuels/balleat/pkg/puzzle"
	"github.com/matzehuels/balleat/pkg/render"
)

// Runner encapsulates task generation with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, keyer and logger - it
// doesn't store results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Palette render.Palette

	// NewEncoder builds the video backend for a format. Defaults to encode.New.
	NewEncoder func(encode.Format) (encode.Encoder, error)
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      cache.WithHooks(c),
		Keyer:      keyer,
		Logger:     logger,
		Palette:    render.DefaultPalette(),
		NewEncoder: encode.New,
	}
}

// Instance generates the puzzle instance of task index without rendering.
func (r *Runner) Instance(ctx context.Context, opts Options, index int) (puzzle.Instance, puzzle.Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPuzzle(); err != nil {
		return puzzle.Instance{}, puzzle.Stats{}, err
	}
	opts.SetBatchDefaults()
	if err := ctx.Err(); err != nil {
		return puzzle.Instance{}, puzzle.Stats{}, err
	}
	rng := NewRand(TaskSeed(opts.Seed, index))
	return puzzle.Generate(rng, opts.PuzzleConfig())
}

// GenerateTask produces task index of the batch described by opts.
//
// The task is served from cache when possible. A missing video encoder is
// not an error: the task is returned without a video and
// Stats.VideoSkipped is set.
func (r *Runner) GenerateTask(ctx context.Context, opts Options, index int) (*Task, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	seed := TaskSeed(opts.Seed, index)
	id := TaskID(opts.Domain, index)
	hooks := observability.Generation()
	start := time.Now()
	hooks.OnTaskStart(ctx, id, seed)

	task, err := r.generateTask(ctx, opts, id, seed)
	hooks.OnTaskComplete(ctx, id, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *Runner) generateTask(ctx context.Context, opts Options, id string, seed uint64) (*Task, error) {
	taskKey := r.Keyer.TaskKey(opts.TaskHash(), seed)

	task, hit := r.cachedTask(ctx, opts, taskKey)
	if !hit {
		var err error
		if task, err = r.buildTask(ctx, opts, id, seed); err != nil {
			return nil, err
		}
		r.storeTask(ctx, opts, taskKey, task)
	}
	// Cached entries are keyed by seed, not index.
	task.ID = id

	if !opts.SkipVideos {
		if err := r.attachVideo(ctx, opts, task); err != nil {
			return nil, err
		}
	}

	opts.Logger.Debug("generated task",
		"task", id,
		"targets", len(task.Instance.Targets),
		"attempts", task.Stats.SolveAttempts,
		"cached", task.Stats.Cached)
	return task, nil
}

// buildTask runs solve, place, render and prompt selection.
func (r *Runner) buildTask(ctx context.Context, opts Options, id string, seed uint64) (*Task, error) {
	rng := NewRand(seed)

	inst, stats, err := puzzle.Generate(rng, opts.PuzzleConfig())
	if err != nil {
		return nil, err
	}

	hooks := observability.Generation()
	if stats.SolveAttempts > 1 {
		hooks.OnSolveRetry(ctx, id, stats.SolveAttempts)
	}
	if stats.PlacementFallbacks > 0 {
		hooks.OnPlacementFallback(ctx, id, stats.PlacementFallbacks)
		opts.Logger.Debug("placement fell back to canvas center", "task", id, "balls", stats.PlacementFallbacks)
	}

	renderer := render.New(opts.Width, opts.Height, r.Palette)
	first, err := render.EncodePNG(renderer.Initial(inst))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode first frame")
	}
	final, err := render.EncodePNG(renderer.Final(inst))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode final frame")
	}

	return &Task{
		ID:         id,
		Domain:     opts.Domain,
		Seed:       seed,
		Prompt:     prompts.Pick(rng, opts.TaskType),
		Instance:   inst,
		FirstFrame: first,
		FinalFrame: final,
		Stats: TaskStats{
			SolveAttempts:      stats.SolveAttempts,
			PlacementFallbacks: stats.PlacementFallbacks,
		},
	}, nil
}

// attachVideo fills task.Video from cache or by encoding the animation.
func (r *Runner) attachVideo(ctx context.Context, opts Options, task *Task) error {
	format := encode.Format(opts.VideoFormat)
	videoKey := r.Keyer.VideoKey(opts.VideoHash(), task.Seed, string(format))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, videoKey); err == nil && hit {
			task.Video, task.VideoFormat = data, format
			task.VideoFrames = len(r.states(opts, task.Instance))
			task.Stats.VideoCached = true
			return nil
		}
	}

	enc, err := r.NewEncoder(format)
	if err != nil {
		return err
	}
	if !enc.Available() {
		r.skipVideo(ctx, opts, task, errors.New(errors.ErrCodeEncoderUnavailable, "%s encoder is not available", format))
		return nil
	}

	states := r.states(opts, task.Instance)
	renderer := render.New(opts.Width, opts.Height, r.Palette)
	frames := make([]image.Image, len(states))
	for i, s := range states {
		if err := ctx.Err(); err != nil {
			return err
		}
		frames[i] = renderer.State(task.Instance, s)
	}

	data, err := encodeToBytes(ctx, enc, frames, opts.FPS)
	if errors.Is(err, errors.ErrCodeEncoderUnavailable) {
		r.skipVideo(ctx, opts, task, err)
		return nil
	}
	if err != nil {
		return err
	}

	task.Video, task.VideoFormat, task.VideoFrames = data, format, len(frames)
	if err := r.Cache.Set(ctx, videoKey, data, opts.CacheTTL); err != nil {
		opts.Logger.Debug("cache write failed", "key", videoKey, "error", err)
	}
	return nil
}

func (r *Runner) states(opts Options, inst puzzle.Instance) []animate.WorldState {
	aopts, _ := opts.AnimateOptions() // easing validated with opts
	return animate.Frames(inst, aopts)
}

func (r *Runner) skipVideo(ctx context.Context, opts Options, task *Task, err error) {
	task.Stats.VideoSkipped = true
	observability.Generation().OnEncoderSkipped(ctx, task.ID, opts.VideoFormat, err)
	opts.Logger.Debug("video skipped", "task", task.ID, "reason", errors.UserMessage(err))
}

// encodeToBytes runs enc into a temporary file and returns its content.
func encodeToBytes(ctx context.Context, enc encode.Encoder, frames []image.Image, fps int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "balleat-video-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, encode.Filename(enc.Format()))
	if err := enc.Encode(ctx, frames, fps, path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read encoded video")
	}
	return data, nil
}

func (r *Runner) cachedTask(ctx context.Context, opts Options, key string) (*Task, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		// If deserialization fails, fall through to regenerate
		return nil, false
	}
	task.Stats.Cached = true
	return &task, true
}

func (r *Runner) storeTask(ctx context.Context, opts Options, key string, task *Task) {
	// Videos are cached under their own key.
	stored := *task
	stored.Video, stored.VideoFormat, stored.VideoFrames = nil, "", 0
	data, err := json.Marshal(&stored)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger.Debug("cache write failed", "key", key, "error", err)
	}
}

// =============================================================================
// Batch
// =============================================================================

// Summary describes a finished batch.
type Summary struct {
	Dir           string
	Generated     int
	Failed        int
	Cached        int
	VideosSkipped int
	Duration      time.Duration
}

// Progress is called after each task of a batch finishes, in completion order.
type Progress func(done, total int)

// Run generates opts.NumSamples tasks with up to opts.Workers in flight and
// writes them under opts.OutputDir.
//
// Tasks whose construction exhausts its retry budget are logged and
// skipped. Any other error cancels the batch.
func (r *Runner) Run(ctx context.Context, opts Options, progress Progress) (Summary, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Summary{}, fmt.Errorf("invalid options: %w", err)
	}
	if opts.OutputDir == "" {
		return Summary{}, errors.New(errors.ErrCodeInvalidPath, "output directory is required")
	}

	start := time.Now()
	summary := Summary{Dir: DatasetDir(opts.OutputDir, opts.Domain)}

	if !opts.SkipVideos {
		enc, err := r.NewEncoder(encode.Format(opts.VideoFormat))
		if err != nil {
			return Summary{}, err
		}
		if !enc.Available() {
			opts.Logger.Warn("video encoder not available, tasks will have no ground-truth video", "format", opts.VideoFormat)
		}
	}

	opts.Logger.Info("generating tasks",
		"samples", opts.NumSamples,
		"workers", opts.Workers,
		"seed", opts.Seed,
		"dir", summary.Dir)

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; i < opts.NumSamples; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			task, err := r.GenerateTask(gctx, opts, i)
			if err == nil {
				_, err = WriteTask(opts.OutputDir, task)
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done, opts.NumSamples)
			}

			if errors.Is(err, errors.ErrCodeGenerationFailed) {
				summary.Failed++
				opts.Logger.Warn("skipping task", "task", TaskID(opts.Domain, i), "error", err)
				return nil
			}
			if err != nil {
				return err
			}

			summary.Generated++
			if task.Stats.Cached {
				summary.Cached++
			}
			if task.Stats.VideoSkipped {
				summary.VideosSkipped++
			}
			return nil
		})
	}

	err := g.Wait()
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	opts.Logger.Info("batch complete",
		"generated", summary.Generated,
		"failed", summary.Failed,
		"cached", summary.Cached,
		"duration", summary.Duration)
	return summary, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
