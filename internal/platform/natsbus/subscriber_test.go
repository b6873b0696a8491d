package natsbus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/service"
)

type fakeCreator struct {
	mu     sync.Mutex
	inputs []service.NewUserInput
	err    error
}

func (f *fakeCreator) CreateUser(ctx context.Context, input service.NewUserInput) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewUser(input.ID, input.Username, input.Email)
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *countingRecorder) NATSMessage(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[outcome]++
}

func newTestSubscriber(t *testing.T, creator UserCreator) (*Subscriber, *countingRecorder, *logger.Buffer) {
	t.Helper()
	log, buf := logger.NewBufferLogger()
	rec := &countingRecorder{}
	s := NewSubscriber(nil, SubscriberConfig{Subject: "accounts.user.activated", QueueGroup: "radar"}, creator, rec, log)
	return s, rec, buf
}

func TestSubscriber_Handle(t *testing.T) {
	creator := &fakeCreator{}
	s, rec, _ := newTestSubscriber(t, creator)
	id := uuid.New()

	err := s.Handle(context.Background(),
		[]byte(`{"id":"`+id.String()+`","username":"alice","email":"alice@example.com"}`))
	require.NoError(t, err)

	require.Len(t, creator.inputs, 1)
	assert.Equal(t, service.NewUserInput{ID: id, Username: "alice", Email: "alice@example.com"}, creator.inputs[0])
	assert.Equal(t, 1, rec.outcomes[outcomeHandled])
}

func TestSubscriber_Handle_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"id":`},
		{"missing username", `{"id":"` + uuid.NewString() + `","email":"a@example.com"}`},
		{"bad uuid", `{"id":"12","username":"a","email":"a@example.com"}`},
		{"bad email", `{"id":"` + uuid.NewString() + `","username":"a","email":"nope"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creator := &fakeCreator{}
			s, rec, buf := newTestSubscriber(t, creator)

			err := s.Handle(context.Background(), []byte(tc.body))
			assert.ErrorIs(t, err, ErrMalformedMessage)
			assert.Empty(t, creator.inputs)
			assert.Equal(t, 1, rec.outcomes[outcomeRejected])

			entry, ok := buf.Find("dropping malformed account message")
			require.True(t, ok)
			assert.Equal(t, "WARN", entry["level"])
		})
	}
}

func TestSubscriber_Handle_CreatorErrors(t *testing.T) {
	body := []byte(`{"id":"` + uuid.NewString() + `","username":"bob","email":"bob@example.com"}`)

	t.Run("validation is rejected", func(t *testing.T) {
		creator := &fakeCreator{err: domain.NewValidationError("username", "has already been taken", domain.ErrDuplicateName)}
		s, rec, _ := newTestSubscriber(t, creator)

		require.Error(t, s.Handle(context.Background(), body))
		assert.Equal(t, 1, rec.outcomes[outcomeRejected])
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		creator := &fakeCreator{err: errors.New("connection refused")}
		s, rec, buf := newTestSubscriber(t, creator)

		require.Error(t, s.Handle(context.Background(), body))
		assert.Equal(t, 1, rec.outcomes[outcomeFailed])
		_, ok := buf.Find("failed to record user from account message")
		assert.True(t, ok)
	})
}

func TestSubscriber_StartWithoutConnection(t *testing.T) {
	s, _, _ := newTestSubscriber(t, &fakeCreator{})
	assert.Error(t, s.Start())
	assert.NoError(t, s.Stop())
}
