// Package natsbus connects the service to the account-management message bus.
// The Subscriber turns "user activated" messages into user references, which in
// turn trigger radar provisioning.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/redact"
	"github.com/techradar-io/radar-api/internal/service"
)

// ErrMalformedMessage is returned for payloads that cannot describe a user.
var ErrMalformedMessage = errors.New("malformed account message")

// UserActivated is the message account management publishes once an account
// is usable.
type UserActivated struct {
	ID       string `json:"id"       validate:"required,uuid"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
}

// UserCreator records a user reference.
type UserCreator interface {
	CreateUser(ctx context.Context, input service.NewUserInput) (*domain.User, error)
}

// Recorder counts processed messages by outcome.
type Recorder interface {
	NATSMessage(outcome string)
}

// Message outcomes passed to Recorder.
const (
	outcomeHandled  = "handled"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

type noopRecorder struct{}

func (noopRecorder) NATSMessage(string) {}

// SubscriberConfig names the subject and queue group to consume.
type SubscriberConfig struct {
	Subject        string
	QueueGroup     string
	HandlerTimeout time.Duration
}

// Subscriber consumes UserActivated messages. Instances sharing a queue group
// split the stream between them.
type Subscriber struct {
	conn     *nats.Conn
	cfg      SubscriberConfig
	users    UserCreator
	recorder Recorder
	validate *validator.Validate
	logger   *slog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewSubscriber creates a Subscriber. A nil recorder disables counting and a
// nil logger uses slog.Default.
func NewSubscriber(
	conn *nats.Conn,
	cfg SubscriberConfig,
	users UserCreator,
	recorder Recorder,
	logger *slog.Logger,
) *Subscriber {
	if users == nil {
		panic("users cannot be nil")
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 10 * time.Second
	}
	return &Subscriber{
		conn:     conn,
		cfg:      cfg,
		users:    users,
		recorder: recorder,
		validate: validator.New(),
		logger: logger.With(
			slog.String("component", "nats_subscriber"),
			slog.String("subject", cfg.Subject),
		),
	}
}

// Start subscribes to the configured subject.
func (s *Subscriber) Start() error {
	if s.conn == nil {
		return errors.New("nats connection cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		return nil
	}

	sub, err := s.conn.QueueSubscribe(s.cfg.Subject, s.cfg.QueueGroup, s.handleMsg)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.cfg.Subject, err)
	}
	s.sub = sub
	s.logger.Info("subscribed", slog.String("queue_group", s.cfg.QueueGroup))
	return nil
}

// Stop drains the subscription so in-flight messages finish.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil
	}
	err := s.sub.Drain()
	s.sub = nil
	return err
}

func (s *Subscriber) handleMsg(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HandlerTimeout)
	defer cancel()
	ctx = logger.WithLogger(ctx, s.logger)

	_ = s.Handle(ctx, msg.Data)
}

// Handle processes one message body. Malformed or invalid messages are logged
// and dropped; redelivering them would fail the same way.
func (s *Subscriber) Handle(ctx context.Context, data []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input, err := s.decode(data)
	if err != nil {
		log.Warn("dropping malformed account message", slog.String("error", err.Error()))
		s.recorder.NATSMessage(outcomeRejected)
		return err
	}

	user, err := s.users.CreateUser(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			log.Warn("dropping rejected account message",
				slog.String("error", err.Error()),
				slog.String("user_id", input.ID.String()))
			s.recorder.NATSMessage(outcomeRejected)
			return err
		}
		log.Error("failed to record user from account message",
			redact.Attr(err),
			slog.String("user_id", input.ID.String()))
		s.recorder.NATSMessage(outcomeFailed)
		return err
	}

	log.Debug("account message handled", slog.String("user_id", user.ID.String()))
	s.recorder.NATSMessage(outcomeHandled)
	return nil
}

func (s *Subscriber) decode(data []byte) (service.NewUserInput, error) {
	var msg UserActivated
	if err := json.Unmarshal(data, &msg); err != nil {
		return service.NewUserInput{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if err := s.validate.Struct(msg); err != nil {
		return service.NewUserInput{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	id, err := uuid.Parse(msg.ID)
	if err != nil {
		return service.NewUserInput{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return service.NewUserInput{ID: id, Username: msg.Username, Email: msg.Email}, nil
}
