package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/events"
)

// Construction errors
var (
	ErrNilProvisioner = errors.New("provisioner cannot be nil")
	ErrNilUserGetter  = errors.New("user getter cannot be nil")
	ErrEmptyUserID    = errors.New("user ID cannot be empty")
)

// RadarProvisioner gives a user their starter radar.
type RadarProvisioner interface {
	Provision(ctx context.Context, user *domain.User) error
}

// UserGetter loads the user a provisioning task was created for.
type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ProvisioningTask creates the starter radar for one user.
type ProvisioningTask struct {
	id          uuid.UUID
	userID      uuid.UUID
	users       UserGetter
	provisioner RadarProvisioner
	logger      *slog.Logger
	status      TaskStatus
}

// NewProvisioningTask creates a pending provisioning task for userID.
func NewProvisioningTask(
	userID uuid.UUID,
	users UserGetter,
	provisioner RadarProvisioner,
	logger *slog.Logger,
) (*ProvisioningTask, error) {
	return newProvisioningTask(uuid.New(), userID, users, provisioner, logger)
}

func newProvisioningTask(
	id uuid.UUID,
	userID uuid.UUID,
	users UserGetter,
	provisioner RadarProvisioner,
	logger *slog.Logger,
) (*ProvisioningTask, error) {
	if users == nil {
		return nil, ErrNilUserGetter
	}
	if provisioner == nil {
		return nil, ErrNilProvisioner
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProvisioningTask{
		id:          id,
		userID:      userID,
		users:       users,
		provisioner: provisioner,
		logger:      logger.With(slog.String("user_id", userID.String())),
		status:      TaskStatusPending,
	}, nil
}

// ID implements Task.
func (t *ProvisioningTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *ProvisioningTask) Type() string { return TaskTypeRadarProvisioning }

// UserID returns the user being provisioned.
func (t *ProvisioningTask) UserID() uuid.UUID { return t.userID }

// Status implements Task.
func (t *ProvisioningTask) Status() TaskStatus { return t.status }

// Payload implements Task.
func (t *ProvisioningTask) Payload() []byte {
	data, err := json.Marshal(events.RadarProvisioningPayload{UserID: t.userID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return []byte("{}")
	}
	return data
}

// Execute loads the user and provisions their starter radar. The
// provisioner's error is returned unchanged so callers can inspect it.
func (t *ProvisioningTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	user, err := t.users.GetUser(ctx, t.userID)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to load user %s: %w", t.userID, err)
	}

	if err := t.provisioner.Provision(ctx, user); err != nil {
		t.status = TaskStatusFailed
		return err
	}

	t.status = TaskStatusCompleted
	t.logger.Debug("starter radar provisioned")
	return nil
}

// ProvisioningTaskFactory creates provisioning tasks bound to their collaborators.
type ProvisioningTaskFactory struct {
	users       UserGetter
	provisioner RadarProvisioner
	logger      *slog.Logger
}

// NewProvisioningTaskFactory creates a factory. A nil logger uses slog.Default.
func NewProvisioningTaskFactory(
	users UserGetter,
	provisioner RadarProvisioner,
	logger *slog.Logger,
) *ProvisioningTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvisioningTaskFactory{
		users:       users,
		provisioner: provisioner,
		logger:      logger.With(slog.String("component", "provisioning_task")),
	}
}

// CreateTask creates a new provisioning task for userID.
func (f *ProvisioningTaskFactory) CreateTask(userID uuid.UUID) (Task, error) {
	return NewProvisioningTask(userID, f.users, f.provisioner, f.logger)
}

// Rehydrate rebuilds a stored provisioning task. It satisfies Rehydrator.
func (f *ProvisioningTaskFactory) Rehydrate(id uuid.UUID, payload []byte) (Task, error) {
	var p events.RadarProvisioningPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("invalid provisioning payload: %w", err)
	}
	return newProvisioningTask(id, p.UserID, f.users, f.provisioner, f.logger)
}
