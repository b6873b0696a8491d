package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/events"
)

type mockTaskFactory struct {
	mock.Mock
}

func (m *mockTaskFactory) CreateTask(userID uuid.UUID) (Task, error) {
	args := m.Called(userID)
	if t, ok := args.Get(0).(Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, task Task) error {
	return m.Called(ctx, task).Error(0)
}

func TestTaskFactoryEventHandler(t *testing.T) {
	t.Parallel()

	t.Run("submits provisioning task", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		task := NewMockTask(TaskTypeRadarProvisioning)

		factory := &mockTaskFactory{}
		factory.On("CreateTask", userID).Return(task, nil)
		submitter := &mockSubmitter{}
		submitter.On("Submit", mock.Anything, task).Return(nil)

		handler := NewTaskFactoryEventHandler(factory, submitter, discardLogger())
		event, err := events.NewRadarProvisioningEvent(userID)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		factory.AssertExpectations(t)
		submitter.AssertExpectations(t)
	})

	t.Run("ignores other event types", func(t *testing.T) {
		t.Parallel()
		factory := &mockTaskFactory{}
		submitter := &mockSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, nil)

		event, err := events.NewTaskRequestEvent("something_else", map[string]string{})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		factory.AssertNotCalled(t, "CreateTask", mock.Anything)
		submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()
		handler := NewTaskFactoryEventHandler(&mockTaskFactory{}, &mockSubmitter{}, discardLogger())
		event := &events.TaskRequestEvent{
			ID:        uuid.New(),
			Type:      events.TypeRadarProvisioning,
			Payload:   json.RawMessage(`{"user_id": 42}`),
			CreatedAt: time.Now(),
		}

		err := handler.HandleEvent(context.Background(), event)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal payload")
	})

	t.Run("factory error", func(t *testing.T) {
		t.Parallel()
		factory := &mockTaskFactory{}
		factory.On("CreateTask", uuid.Nil).Return(nil, ErrEmptyUserID)
		handler := NewTaskFactoryEventHandler(factory, &mockSubmitter{}, discardLogger())

		event, err := events.NewRadarProvisioningEvent(uuid.Nil)
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.ErrorIs(t, err, ErrEmptyUserID)
	})

	t.Run("submit error", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		task := NewMockTask(TaskTypeRadarProvisioning)
		factory := &mockTaskFactory{}
		factory.On("CreateTask", userID).Return(task, nil)
		submitter := &mockSubmitter{}
		submitter.On("Submit", mock.Anything, task).Return(ErrQueueFull)

		handler := NewTaskFactoryEventHandler(factory, submitter, discardLogger())
		event, err := events.NewRadarProvisioningEvent(userID)
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.True(t, errors.Is(err, ErrQueueFull))
	})
}
