package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/balleat/pkg/animate"
	"github.com/matzehuels/balleat/pkg/pipeline"
)

// defaultOutputDir is used when neither --output nor output_dir is set.
const defaultOutputDir = "data"

// generateFlags holds flag values; they only override the config file when
// explicitly set.
type generateFlags struct {
	numSamples   int
	outputDir    string
	seed         uint64
	videos       bool
	videoFormat  string
	workers      int
	fps          int
	maxDuration  float64
	minTargets   int
	maxTargets   int
	growthFactor float64
	easing       string
	refresh      bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		configPath string
		flags      generateFlags
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset of ball-eating tasks",
		Long: `Generate a batch of tasks. Each task is written to
<output>/<domain>_task/<task_id>/ with first_frame.png, final_frame.png,
prompt.txt, metadata.json and, unless disabled, ground_truth.mp4 or .gif.

Settings are read from --config (TOML) and overridden by flags.`,
		Example: `  balleat generate -n 50 -o data --seed 42
  balleat generate --config balleat.toml --workers 4
  balleat generate -n 10 --video-format gif --easing in-out-sine`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(configPath)
			if err != nil {
				return err
			}
			applyGenerateFlags(cmd, &opts, flags)
			return c.runGenerate(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "TOML config file")
	f.IntVarP(&flags.numSamples, "num-samples", "n", pipeline.DefaultNumSamples, "number of tasks to generate")
	f.StringVarP(&flags.outputDir, "output", "o", defaultOutputDir, "output root directory")
	f.Uint64Var(&flags.seed, "seed", pipeline.DefaultSeed, "batch random seed")
	f.BoolVar(&flags.videos, "videos", true, "encode ground-truth videos")
	f.StringVar(&flags.videoFormat, "video-format", string(pipeline.DefaultVideoFormat), "video format: mp4 or gif")
	f.IntVarP(&flags.workers, "workers", "w", pipeline.DefaultWorkers, "tasks generated in parallel")
	f.IntVar(&flags.fps, "fps", pipeline.DefaultFPS, "video frame rate")
	f.Float64Var(&flags.maxDuration, "max-duration", pipeline.DefaultMaxDuration, "maximum video length in seconds")
	f.IntVar(&flags.minTargets, "min-targets", pipeline.DefaultMinTargets, "minimum number of red balls")
	f.IntVar(&flags.maxTargets, "max-targets", pipeline.DefaultMaxTargets, "maximum number of red balls")
	f.Float64Var(&flags.growthFactor, "growth", pipeline.DefaultGrowthFactor, "size multiplier after each meal")
	f.StringVar(&flags.easing, "easing", animate.EasingLinear, "move easing (see 'balleat instance --help')")
	f.BoolVar(&flags.refresh, "refresh", false, "ignore cached tasks")

	_ = cmd.RegisterFlagCompletionFunc("video-format", cobra.FixedCompletions([]string{"mp4", "gif"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("easing", cobra.FixedCompletions(animate.EasingNames(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// loadOptions reads the config file, or returns empty options for path "".
func loadOptions(path string) (pipeline.Options, error) {
	if path == "" {
		return pipeline.Options{}, nil
	}
	return pipeline.LoadOptions(path)
}

// applyGenerateFlags copies explicitly set flags onto opts.
func applyGenerateFlags(cmd *cobra.Command, opts *pipeline.Options, flags generateFlags) {
	set := cmd.Flags().Changed
	if set("num-samples") {
		opts.NumSamples = flags.numSamples
	}
	if set("output") || opts.OutputDir == "" {
		opts.OutputDir = flags.outputDir
	}
	if set("seed") {
		opts.Seed = flags.seed
	}
	if set("videos") {
		opts.SkipVideos = !flags.videos
	}
	if set("video-format") {
		opts.VideoFormat = flags.videoFormat
	}
	if set("workers") {
		opts.Workers = flags.workers
	}
	if set("fps") {
		opts.FPS = flags.fps
	}
	if set("max-duration") {
		opts.MaxDuration = flags.maxDuration
	}
	if set("min-targets") {
		opts.MinTargets = flags.minTargets
	}
	if set("max-targets") {
		opts.MaxTargets = flags.maxTargets
	}
	if set("growth") {
		opts.GrowthFactor = flags.growthFactor
	}
	if set("easing") {
		opts.Easing = flags.easing
	}
	if set("refresh") {
		opts.Refresh = flags.refresh
	}
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d tasks...", opts.NumSamples))
	spinner.Start()

	summary, err := runner.Run(ctx, opts, func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Generating tasks (%d/%d)...", done, total))
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d tasks", summary.Generated))

	printSummary(summary, opts)
	return nil
}

func printSummary(s pipeline.Summary, opts pipeline.Options) {
	printSuccess("Generated %s tasks", StyleNumber.Render(fmt.Sprint(s.Generated)))
	printKeyValue("Directory", s.Dir)
	printKeyValue("Seed", fmt.Sprint(opts.Seed))
	printTaskStats(s.Generated, s.Cached)
	if s.Failed > 0 {
		printWarning("%d tasks skipped: no solvable instance within %d attempts", s.Failed, opts.MaxSolveAttempts)
	}
	if s.VideosSkipped > 0 {
		printWarning("%d tasks have no video: %s encoder not available", s.VideosSkipped, opts.VideoFormat)
	}
	if s.Generated > 0 {
		printNewline()
		printNextStep("Inspect the first task", "ls "+filepath.Join(s.Dir, pipeline.TaskID(opts.Domain, 0)))
	}
}
