package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/events"
)

// TaskFactory creates a task for the user named in an event.
type TaskFactory interface {
	CreateTask(userID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for background execution. *TaskRunner
// implements it.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler turns radar provisioning events into tasks and
// submits them to the runner. Other event types are ignored.
type TaskFactoryEventHandler struct {
	taskFactory TaskFactory
	taskRunner  TaskSubmitter
	logger      *slog.Logger
}

// NewTaskFactoryEventHandler creates the handler. A nil logger uses slog.Default.
func NewTaskFactoryEventHandler(
	taskFactory TaskFactory,
	taskRunner TaskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	log := h.logger.With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
	)

	if event.Type != events.TypeRadarProvisioning {
		log.Debug("ignoring event with unsupported type")
		return nil
	}

	var payload events.RadarProvisioningPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		log.Error("failed to unmarshal payload", slog.String("error", err.Error()))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	task, err := h.taskFactory.CreateTask(payload.UserID)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", payload.UserID.String()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	log = log.With(
		slog.String("task_id", task.ID().String()),
		slog.String("user_id", payload.UserID.String()),
	)

	if err := h.taskRunner.Submit(ctx, task); err != nil {
		log.Error("failed to submit task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	log.Info("provisioning task submitted")
	return nil
}

var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
