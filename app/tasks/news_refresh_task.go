package tasks

import (
	"context"
	"fmt"
	"time"
)

type NewsRefresher interface {
	Refresh(ctx context.Context) error
}

// NewsRefreshTask reloads the ticker feed and retries on a fixed delay.
type NewsRefreshTask struct {
	Task
	ticker NewsRefresher
}

func NewNewsRefreshTask(sessionID string, ticker NewsRefresher, retryDelay time.Duration) *NewsRefreshTask {
	task := NewTask(TaskTypeNewsRefresh, sessionID)
	task.MaxRetries = DefaultMaxRetries
	task.RetryDelay = retryDelay

	return &NewsRefreshTask{
		Task:   task,
		ticker: ticker,
	}
}

func (t *NewsRefreshTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.ticker.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh news: %w", err)
	}
	return nil
}
