package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/balleat/pkg/encode"
	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/puzzle"
)

// Output file names inside a task directory.
const (
	FileFirstFrame = "first_frame.png"
	FileFinalFrame = "final_frame.png"
	FilePrompt     = "prompt.txt"
	FileMetadata   = "metadata.json"
)

// Task is one generated sample.
type Task struct {
	ID       string          `json:"task_id"`
	Domain   string          `json:"domain"`
	Seed     uint64          `json:"seed"`
	Prompt   string          `json:"prompt"`
	Instance puzzle.Instance `json:"instance"`

	FirstFrame []byte `json:"first_frame"`
	FinalFrame []byte `json:"final_frame"`

	// Video is empty when videos are skipped or the encoder is unavailable.
	Video       []byte        `json:"video,omitempty"`
	VideoFormat encode.Format `json:"video_format,omitempty"`
	VideoFrames int           `json:"video_frames,omitempty"`

	Stats TaskStats `json:"stats"`
}

// TaskStats records how the task was produced.
type TaskStats struct {
	SolveAttempts      int  `json:"solve_attempts"`
	PlacementFallbacks int  `json:"placement_fallbacks"`
	Cached             bool `json:"-"`
	VideoCached        bool `json:"-"`
	VideoSkipped       bool `json:"-"`
}

// Metadata is the content of metadata.json.
type Metadata struct {
	TaskID             string          `json:"task_id"`
	Domain             string          `json:"domain"`
	Seed               uint64          `json:"seed"`
	Instance           puzzle.Instance `json:"instance"`
	FinalSize          float64         `json:"final_size"`
	SolveAttempts      int             `json:"solve_attempts"`
	PlacementFallbacks int             `json:"placement_fallbacks"`
	Video              string          `json:"ground_truth_video,omitempty"`
	VideoFrames        int             `json:"video_frames,omitempty"`
}

// Metadata returns the metadata.json document for t.
func (t *Task) Metadata() Metadata {
	m := Metadata{
		TaskID:             t.ID,
		Domain:             t.Domain,
		Seed:               t.Seed,
		Instance:           t.Instance,
		FinalSize:          t.Instance.FinalSize(),
		SolveAttempts:      t.Stats.SolveAttempts,
		PlacementFallbacks: t.Stats.PlacementFallbacks,
	}
	if len(t.Video) > 0 {
		m.Video = encode.Filename(t.VideoFormat)
		m.VideoFrames = t.VideoFrames
	}
	return m
}

// DatasetDir returns <root>/<domain>_task.
func DatasetDir(root, domain string) string {
	return filepath.Join(root, domain+"_task")
}

// WriteTask writes t under <root>/<domain>_task/<task_id>/ and returns that
// directory. Existing files are overwritten.
func WriteTask(root string, t *Task) (string, error) {
	if err := errors.ValidateName("domain", t.Domain); err != nil {
		return "", err
	}
	if err := errors.ValidateName("task id", t.ID); err != nil {
		return "", err
	}

	dir := filepath.Join(DatasetDir(root, t.Domain), t.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}

	meta, err := json.MarshalIndent(t.Metadata(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal metadata")
	}

	files := map[string][]byte{
		FileFirstFrame: t.FirstFrame,
		FileFinalFrame: t.FinalFrame,
		FilePrompt:     []byte(t.Prompt + "\n"),
		FileMetadata:   append(meta, '\n'),
	}
	if len(t.Video) > 0 {
		files[encode.Filename(t.VideoFormat)] = t.Video
	}

	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
	}
	return dir, nil
}
