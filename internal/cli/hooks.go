package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/observability"
)

// logHooks reports generation events to the CLI logger at debug level.
type logHooks struct {
	observability.NoopGenerationHooks
	logger *log.Logger
}

func (h *logHooks) OnTaskComplete(_ context.Context, taskID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("task failed", "task", taskID, "code", errors.GetCode(err), "duration", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("task done", "task", taskID, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnSolveRetry(_ context.Context, taskID string, attempts int) {
	h.logger.Debug("solver retried", "task", taskID, "attempts", attempts)
}

func (h *logHooks) OnPlacementFallback(_ context.Context, taskID string, count int) {
	h.logger.Debug("placement fallback", "task", taskID, "balls", count)
}
