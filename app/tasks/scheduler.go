package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/observability"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type queuedTask struct {
	ctx  context.Context
	task TaskInterface
}

// Scheduler runs overlay jobs on a fixed worker pool. Tasks carry the
// context of the session that queued them, so closing a session stops its
// jobs without touching the others.
type Scheduler struct {
	clock       clockwork.Clock
	metrics     *observability.Metrics
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan queuedTask
}

func NewScheduler(clock clockwork.Clock, metrics *observability.Metrics, workerCount, queueSize int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		clock:       clock,
		metrics:     metrics,
		workerCount: max(workerCount, 1),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan queuedTask, max(queueSize, 1)),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(ctx context.Context, task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- queuedTask{ctx: ctx, task: task}:
		return nil
	default:
		s.metrics.TasksSkipped.WithLabelValues(string(task.GetType())).Inc()
		return fmt.Errorf("task queue is full")
	}
}

// Every enqueues a fresh task immediately and then once per interval until
// ctx or the scheduler is done.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, newTask func() TaskInterface) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := s.clock.NewTicker(interval)
		defer ticker.Stop()

		s.enqueue(ctx, newTask())

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				s.enqueue(ctx, newTask())
			}
		}
	}()
}

func (s *Scheduler) enqueue(ctx context.Context, task TaskInterface) {
	if err := s.EnqueueTask(ctx, task); err != nil && ctx.Err() == nil {
		slog.Warn("Failed to enqueue task", "type", string(task.GetType()), "session", task.GetSessionID(), "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case qt := <-s.taskQueue:
			s.executeTask(id, qt)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, qt queuedTask) {
	task := qt.task
	if qt.ctx.Err() != nil {
		slog.Debug("Session closed, dropping task", "type", string(task.GetType()), "id", task.GetID())
		return
	}

	task.Start(s.clock.Now())
	err := task.Execute(qt.ctx)
	slog.Debug("Task finished", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration(s.clock.Now()).String())

	if err == nil || qt.ctx.Err() != nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		if task.GetMaxRetries() > 0 {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
		return
	}

	task.IncrementRetryCount()
	retryDelay := task.GetRetryDelay()

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "session", task.GetSessionID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := s.clock.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		case <-qt.ctx.Done():
			return
		case <-timer.Chan():
		}

		if retryErr := s.EnqueueTask(qt.ctx, task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
		}
	}()
}
