package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/events"
	"github.com/techradar-io/radar-api/internal/mocks"
	"github.com/techradar-io/radar-api/internal/service"
)

// recordingEmitter captures emitted events and can be told to fail.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) emitted() []*events.TaskRequestEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.TaskRequestEvent(nil), e.events...)
}

func TestUserService_CreateUser_EmitsProvisioning(t *testing.T) {
	db, mock := newTxDB(t)
	users := mocks.NewMockUserStore()
	emitter := &recordingEmitter{}
	svc, err := service.NewUserService(db, users, emitter, quiet())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	id := uuid.New()
	user, err := svc.CreateUser(context.Background(), service.NewUserInput{
		ID:       id,
		Username: " alice ",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)

	emitted := emitter.emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.TypeRadarProvisioning, emitted[0].Type)

	var payload events.RadarProvisioningPayload
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, id, payload.UserID)
}

func TestUserService_CreateUser_RedeliveryIsHarmless(t *testing.T) {
	db, mock := newTxDB(t)
	users := mocks.NewMockUserStore()
	emitter := &recordingEmitter{}
	svc, err := service.NewUserService(db, users, emitter, quiet())
	require.NoError(t, err)

	input := service.NewUserInput{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	first, err := svc.CreateUser(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.CreateUser(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, emitter.emitted(), 1)
	assert.Equal(t, 1, users.Count())
}

func TestUserService_CreateUser_Conflicts(t *testing.T) {
	db, mock := newTxDB(t)
	users := mocks.NewMockUserStore(mustUser(t, "carol"))
	emitter := &recordingEmitter{}
	svc, err := service.NewUserService(db, users, emitter, quiet())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.CreateUser(context.Background(), service.NewUserInput{Username: "carol", Email: "new@example.com"})
	requireFieldError(t, err, "username")

	_, err = svc.CreateUser(context.Background(), service.NewUserInput{Username: "dave", Email: "carol@example.com"})
	requireFieldError(t, err, "email")

	assert.Empty(t, emitter.emitted())
}

func TestUserService_CreateUser_InvalidInput(t *testing.T) {
	db, _ := newTxDB(t)
	svc, err := service.NewUserService(db, mocks.NewMockUserStore(), nil, quiet())
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), service.NewUserInput{Username: "", Email: "nope"})
	requireFieldError(t, err, "username")
	requireFieldError(t, err, "email")
}

func TestUserService_CreateUser_EmitFailureIsSwallowed(t *testing.T) {
	db, mock := newTxDB(t)
	emitter := &recordingEmitter{err: errors.New("queue full")}
	svc, err := service.NewUserService(db, mocks.NewMockUserStore(), emitter, quiet())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	user, err := svc.CreateUser(context.Background(), service.NewUserInput{Username: "erin", Email: "erin@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Len(t, emitter.emitted(), 1)
}

func TestUserService_CreateUser_ProvisioningDisabled(t *testing.T) {
	db, mock := newTxDB(t)
	svc, err := service.NewUserService(db, mocks.NewMockUserStore(), nil, quiet())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err = svc.CreateUser(context.Background(), service.NewUserInput{Username: "frank", Email: "frank@example.com"})
	require.NoError(t, err)
}

func TestUserService_Lookups(t *testing.T) {
	db, _ := newTxDB(t)
	gina := mustUser(t, "gina")
	svc, err := service.NewUserService(db, mocks.NewMockUserStore(gina), nil, quiet())
	require.NoError(t, err)
	ctx := context.Background()

	found, err := svc.GetByUsername(ctx, "gina")
	require.NoError(t, err)
	assert.Equal(t, gina.ID, found.ID)

	byID, err := svc.GetUser(ctx, gina.ID)
	require.NoError(t, err)
	assert.Equal(t, "gina", byID.Username)

	_, err = svc.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestNewUserService_NilDependencies(t *testing.T) {
	db, _ := newTxDB(t)
	_, err := service.NewUserService(nil, mocks.NewMockUserStore(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewUserService(db, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
