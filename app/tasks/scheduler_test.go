package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/obs-overlay/app/observability"
)

type countingTask struct {
	Task
	mu       sync.Mutex
	runs     int
	failures int
	done     chan struct{}
}

func newCountingTask(failures int) *countingTask {
	task := NewTask(TaskTypeNewsRefresh, "session-1")
	task.MaxRetries = DefaultMaxRetries
	task.RetryDelay = 10 * time.Second
	return &countingTask{Task: task, failures: failures, done: make(chan struct{}, 16)}
}

func (t *countingTask) Execute(context.Context) error {
	t.mu.Lock()
	t.runs++
	fail := t.runs <= t.failures
	t.mu.Unlock()

	t.done <- struct{}{}
	if fail {
		return errors.New("boom")
	}
	return nil
}

func (t *countingTask) runCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}

func waitRun(t *testing.T, task *countingTask) {
	t.Helper()
	select {
	case <-task.done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func newTestScheduler(queueSize int) (*Scheduler, *clockwork.FakeClock, *observability.Metrics) {
	clk := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()
	return NewScheduler(clk, metrics, 2, queueSize), clk, metrics
}

func TestScheduler_ExecutesTask(t *testing.T) {
	s, _, _ := newTestScheduler(8)
	s.Start()
	defer s.Stop()

	task := newCountingTask(0)
	require.NoError(t, s.EnqueueTask(context.Background(), task))

	waitRun(t, task)
	assert.NotNil(t, task.StartedAt)
	assert.Zero(t, task.GetRetryCount())
}

func TestScheduler_RetriesAfterDelay(t *testing.T) {
	ctx := context.Background()
	s, clk, _ := newTestScheduler(8)
	s.Start()
	defer s.Stop()

	task := newCountingTask(1)
	require.NoError(t, s.EnqueueTask(ctx, task))
	waitRun(t, task)

	require.NoError(t, clk.BlockUntilContext(ctx, 1))
	clk.Advance(9 * time.Second)
	assert.Equal(t, 1, task.runCount())

	clk.Advance(time.Second)
	waitRun(t, task)

	assert.Equal(t, 2, task.runCount())
	assert.Equal(t, 1, task.GetRetryCount())
}

func TestScheduler_StopsRetryingAtMax(t *testing.T) {
	ctx := context.Background()
	s, clk, _ := newTestScheduler(8)
	s.Start()
	defer s.Stop()

	task := newCountingTask(100)
	require.NoError(t, s.EnqueueTask(ctx, task))
	waitRun(t, task)

	for i := 0; i < DefaultMaxRetries; i++ {
		require.NoError(t, clk.BlockUntilContext(ctx, 1))
		clk.Advance(10 * time.Second)
		waitRun(t, task)
	}

	assert.Equal(t, DefaultMaxRetries+1, task.runCount())
	assert.False(t, task.CanRetry())
}

func TestScheduler_Every(t *testing.T) {
	s, clk, _ := newTestScheduler(8)
	s.Start()
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	task := newCountingTask(0)
	s.Every(ctx, 20*time.Second, func() TaskInterface { return task })

	waitRun(t, task)

	require.NoError(t, clk.BlockUntilContext(ctx, 1))
	clk.Advance(20 * time.Second)
	waitRun(t, task)
	assert.Equal(t, 2, task.runCount())

	// A tick racing the cancellation is rejected by EnqueueTask.
	cancel()
	clk.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, task.runCount())
}

func TestScheduler_QueueFull(t *testing.T) {
	s, _, metrics := newTestScheduler(1)

	require.NoError(t, s.EnqueueTask(context.Background(), newCountingTask(0)))

	err := s.EnqueueTask(context.Background(), newCountingTask(0))
	require.Error(t, err)
	assert.Equal(t, "task queue is full", err.Error())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TasksSkipped.WithLabelValues(string(TaskTypeNewsRefresh))))
}

func TestScheduler_ClosedSessionRejected(t *testing.T) {
	s, _, _ := newTestScheduler(4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.EnqueueTask(ctx, newCountingTask(0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTask_Duration(t *testing.T) {
	task := NewTask(TaskTypeQuakePoll, "s")
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, task.GetDuration(now))
	task.Start(now)
	assert.Equal(t, 3*time.Second, task.GetDuration(now.Add(3*time.Second)))
	assert.False(t, task.CanRetry())
	assert.NotEmpty(t, task.GetID())
}
