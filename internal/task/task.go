package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/events"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeRadarProvisioning creates the starter radar for a new user.
const TaskTypeRadarProvisioning = events.TypeRadarProvisioning

// ErrNotRehydrated is returned when a persisted task is executed before being
// bound to its implementation.
var ErrNotRehydrated = errors.New("task was loaded from storage without an implementation")

// ErrTaskInterrupted is recorded on tasks found in processing after their
// worker went away. Their side effects may already be committed, so they are
// failed rather than run again.
var ErrTaskInterrupted = errors.New("task was interrupted while processing and will not be retried")

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as JSON
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task in its current status
	SaveTask(ctx context.Context, task Task) error

	// ClaimTask moves a pending task to processing. It reports false when the
	// task is missing or no longer pending, so at most one worker runs it.
	ClaimTask(ctx context.Context, taskID uuid.UUID) (bool, error)

	// UpdateTaskStatus updates the status of a task. errorMsg is stored for
	// failed tasks and cleared otherwise.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status, oldest first
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only tasks whose status has not changed for
	// at least that long are returned.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a TaskStore bound to the transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// Record is a task as stored in the database. It satisfies Task so stores can
// return it directly, but Execute fails until the runner rehydrates it.
type Record struct {
	TaskID       uuid.UUID
	TaskType     string
	TaskPayload  []byte
	TaskStatus   TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ID implements Task.
func (r *Record) ID() uuid.UUID { return r.TaskID }

// Type implements Task.
func (r *Record) Type() string { return r.TaskType }

// Payload implements Task.
func (r *Record) Payload() []byte { return r.TaskPayload }

// Status implements Task.
func (r *Record) Status() TaskStatus { return r.TaskStatus }

// Execute implements Task.
func (r *Record) Execute(ctx context.Context) error { return ErrNotRehydrated }

// Rehydrator rebuilds an executable task from a stored ID and payload.
type Rehydrator func(id uuid.UUID, payload []byte) (Task, error)
