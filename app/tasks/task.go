package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeQuakePoll   TaskType = "quake_poll"
	TaskTypeNewsRefresh TaskType = "news_refresh"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 30 * time.Second
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSessionID() string
	GetRetryCount() int
	GetMaxRetries() int
	GetRetryDelay() time.Duration
	IncrementRetryCount()
	CanRetry() bool
	Start(now time.Time)
	GetDuration(now time.Time) time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	SessionID  string
	RetryCount int
	MaxRetries int
	RetryDelay time.Duration
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSessionID() string {
	return t.SessionID
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) GetRetryDelay() time.Duration {
	return t.RetryDelay
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start(now time.Time) {
	t.StartedAt = &now
}

func (t *Task) GetDuration(now time.Time) time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return now.Sub(*t.StartedAt)
}

// NewTask creates a task that is not retried.
func NewTask(taskType TaskType, sessionID string) Task {
	return Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		SessionID: sessionID,
	}
}
