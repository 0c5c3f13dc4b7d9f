// Package pkg provides the core libraries for balleat dataset generation.
//
// # Overview
//
// balleat builds "ball eating" puzzles: a black ball must eat every red ball
// on a canvas, and it may only eat a red ball no larger than itself. After
// each meal it grows by a fixed factor. Each puzzle becomes a task of two
// PNG frames, a prompt, a metadata record and a ground-truth video of the
// solution. The pkg directory is organized into these areas:
//
//  1. [puzzle] - Domain logic (ball sizes, eating order, placement)
//  2. [animate], [render], [encode] - Frames, images and video files
//  3. [pipeline] - Orchestration (options → instance → task → disk)
//  4. [cache], [observability], [errors] - Infrastructure
//  5. [server] - HTTP API over the pipeline
//
// # Architecture
//
// The typical data flow for one task:
//
//	batch seed + task index
//	         ↓
//	    [puzzle] package (sizes, order, non-overlapping placement)
//	         ↓
//	    [animate] package (eat and grow world states within a frame budget)
//	         ↓
//	    [render] package (PNG frames)
//	         ↓
//	    [encode] package (MP4 via ffmpeg, or GIF)
//	         ↓
//	    <domain>_task/<task_id>/ on disk
//
// # Quick Start
//
// Generate a dataset of ten tasks:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/balleat/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	summary, err := runner.Run(context.Background(), pipeline.Options{
//	    NumSamples: 10,
//	    OutputDir:  "data",
//	    Seed:       42,
//	}, nil)
//
// Or build a single instance without rendering:
//
//	rng := pipeline.NewRand(pipeline.TaskSeed(42, 0))
//	inst, _, err := puzzle.Generate(rng, puzzle.DefaultConfig())
//
// # Main Packages
//
// ## Domain Logic
//
// [puzzle] - Instance generation. Sizes are drawn, an eating order is found
// by greedy search with retries, and balls are placed without overlap.
// Every instance is re-verified before it is returned.
//
// [animate] - Converts an instance into world states: a move toward each
// target followed by a smooth grow, downsampled to a frame budget.
//
// ## Output
//
// [render] - Draws world states onto an image using gg.
//
// [encode] - Video encoders. MP4 shells out to ffmpeg; GIF is pure Go.
//
// [prompts] - Task prompts per task type.
//
// ## Infrastructure
//
// [cache] - File and Redis caches for generated tasks and videos.
//
// [observability] - Hooks for task, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// [buildinfo] - Version information set at build time.
//
// ## Orchestration
//
// [pipeline] - Options, seeds, the task layout on disk and the Runner that
// generates a batch with a bounded worker pool.
//
// [server] - JSON API for single instances and tasks.
package pkg
