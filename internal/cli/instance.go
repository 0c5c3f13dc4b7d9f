package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/balleat/pkg/pipeline"
	"github.com/matzehuels/balleat/pkg/server"
)

// instanceCommand creates the instance command, which prints the puzzle of a
// single task without rendering anything.
func (c *CLI) instanceCommand() *cobra.Command {
	var (
		configPath string
		seed       uint64
		index      int
		targets    int
		growth     float64
	)

	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Print one puzzle instance as JSON",
		Long: `Generate the puzzle of a single task and print it as JSON: the black
ball, the red balls, the eating order and the final size.

The instance is the same one 'balleat generate' would produce for the same
seed, index and config.`,
		Example: `  balleat instance --seed 42 --index 3
  balleat instance --targets 4 --growth 1.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(configPath)
			if err != nil {
				return err
			}
			set := cmd.Flags().Changed
			if set("seed") {
				opts.Seed = seed
			}
			if set("targets") {
				opts.MinTargets, opts.MaxTargets = targets, targets
			}
			if set("growth") {
				opts.GrowthFactor = growth
			}

			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			inst, stats, err := runner.Instance(cmd.Context(), opts, index)
			if err != nil {
				return err
			}

			opts.SetBatchDefaults()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(server.InstanceResponse{
				TaskID:        pipeline.TaskID(opts.Domain, index),
				Seed:          pipeline.TaskSeed(opts.Seed, index),
				Instance:      inst,
				FinalSize:     inst.FinalSize(),
				SolveAttempts: stats.SolveAttempts,
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "TOML config file")
	f.Uint64Var(&seed, "seed", pipeline.DefaultSeed, "batch random seed")
	f.IntVar(&index, "index", 0, "task index within the batch")
	f.IntVar(&targets, "targets", 0, "exact number of red balls")
	f.Float64Var(&growth, "growth", pipeline.DefaultGrowthFactor, "size multiplier after each meal")

	return cmd
}
