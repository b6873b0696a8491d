package task

import (
	"context"

	"github.com/google/uuid"
)

// MockTask is a Task whose behaviour is supplied by ExecuteFn.
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) error
}

// NewMockTask creates a pending MockTask that succeeds when executed.
func NewMockTask(taskType string) *MockTask {
	return &MockTask{
		TaskID:      uuid.New(),
		TaskType:    taskType,
		TaskPayload: []byte("{}"),
		TaskStatus:  TaskStatusPending,
		ExecuteFn:   func(ctx context.Context) error { return nil },
	}
}

// ID implements Task.
func (t *MockTask) ID() uuid.UUID { return t.TaskID }

// Type implements Task.
func (t *MockTask) Type() string { return t.TaskType }

// Payload implements Task.
func (t *MockTask) Payload() []byte { return t.TaskPayload }

// Status implements Task.
func (t *MockTask) Status() TaskStatus { return t.TaskStatus }

// Execute implements Task.
func (t *MockTask) Execute(ctx context.Context) error {
	if t.ExecuteFn == nil {
		return nil
	}
	return t.ExecuteFn(ctx)
}
