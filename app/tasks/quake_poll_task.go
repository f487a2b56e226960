package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/obs-overlay/app/quake"
)

type QuakePoller interface {
	Poll(ctx context.Context) quake.Outcome
}

// QuakePollTask runs one earthquake poll cycle. Fetch failures are handled
// inside the pipeline by its proxy fallback, so the task never asks for a
// retry.
type QuakePollTask struct {
	Task
	pipeline QuakePoller
}

func NewQuakePollTask(sessionID string, pipeline QuakePoller) *QuakePollTask {
	return &QuakePollTask{
		Task:     NewTask(TaskTypeQuakePoll, sessionID),
		pipeline: pipeline,
	}
}

func (t *QuakePollTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	outcome := t.pipeline.Poll(ctx)
	slog.Debug("Quake poll finished", "session", t.SessionID, "outcome", string(outcome))
	return nil
}
