package tasks

import (
	"context"
	"time"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Overlay sessions register their periodic jobs with Every and the worker pool
// executes them.
// Example usage:
//
//	scheduler := NewScheduler(clock, metrics, 4, 256)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.Every(ctx, 20*time.Second, func() TaskInterface { return NewQuakePollTask(id, pipeline) })
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(ctx context.Context, task TaskInterface) error
	Every(ctx context.Context, interval time.Duration, newTask func() TaskInterface)
}
