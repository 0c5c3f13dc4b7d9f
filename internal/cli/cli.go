// Package cli implements the balleat command-line interface.
//
// This package provides commands for generating ball-eating puzzle datasets,
// inspecting single instances, serving the generation API, and managing the
// task cache. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Write a batch of tasks (images, prompt, video, metadata) to disk
//   - instance: Print one puzzle instance as JSON
//   - serve: Run the HTTP API
//   - cache: Manage the task cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/balleat/pkg/buildinfo"
	"github.com/matzehuels/balleat/pkg/cache"
	"github.com/matzehuels/balleat/pkg/observability"
	"github.com/matzehuels/balleat/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "balleat"

	// envCacheURL selects the cache backend when --cache is not given.
	envCacheURL = "BALLEAT_CACHE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// cacheURL and noCache are persistent flags shared by all commands.
	cacheURL string
	noCache  bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "balleat generates ball-eating puzzle datasets",
		Long:         `balleat generates solvable "ball eating" puzzles, where a black ball must eat every red ball in a size-constrained order, and writes them as image/prompt/video tasks for training and evaluating models.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetGenerationHooks(&logHooks{logger: c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cacheURL, "cache", "", "cache backend: directory path or redis://host:port/db (default: XDG cache dir, or $"+envCacheURL+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the task cache")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.instanceCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openCache resolves the cache backend from flags and environment.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	target := c.cacheURL
	if target == "" {
		target = os.Getenv(envCacheURL)
	}
	return openCache(ctx, target)
}

func openCache(ctx context.Context, target string) (cache.Cache, error) {
	if strings.HasPrefix(target, "redis://") || strings.HasPrefix(target, "rediss://") {
		rc, err := cache.NewRedisCache(ctx, target)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	if target == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		target = dir
	}
	fc, err := cache.NewFileCache(target)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/balleat/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
