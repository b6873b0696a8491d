package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/events"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/redact"
	"github.com/techradar-io/radar-api/internal/store"
)

// NewUserInput identifies an account created by account management.
// A nil ID gets a fresh one.
type NewUserInput struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username" validate:"required,max=100"`
	Email    string    `json:"email"    validate:"required,email,max=254"`
}

// UserService records user references and triggers provisioning for new ones.
type UserService interface {
	// CreateUser stores the user reference. When the user is new it emits a
	// radar provisioning event; creating a user that already exists with the
	// same ID returns the stored user and emits nothing.
	CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type userServiceImpl struct {
	db      *sql.DB
	users   store.UserStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewUserService creates a UserService. A nil emitter disables provisioning.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	db *sql.DB,
	users store.UserStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (UserService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		db:      db,
		users:   users,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "user_service")),
	}, nil
}

// CreateUser implements UserService.
func (s *userServiceImpl) CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.ID, input.Username, input.Email)
	if err != nil {
		return nil, err
	}

	var inserted bool
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		var err error
		inserted, err = users.CreateIfAbsent(ctx, user)
		if err != nil {
			return err
		}
		if !inserted {
			user, err = users.GetByID(ctx, user.ID)
		}
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			return nil, domain.NewValidationError("username", "has already been taken", domain.ErrDuplicateName)
		case errors.Is(err, store.ErrEmailExists):
			return nil, domain.NewValidationError("email", "has already been taken", domain.ErrDuplicateName)
		}
		log.Error("failed to save user", redact.Attr(err), slog.String("username", input.Username))
		return nil, NewServiceError("user", "create_user", "failed to save user", err)
	}

	if !inserted {
		log.Debug("user already exists", slog.String("user_id", user.ID.String()))
		return user, nil
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))

	s.requestProvisioning(ctx, user)
	return user, nil
}

// requestProvisioning emits the provisioning event for a new user. The user
// is already stored, so failures are logged and swallowed.
func (s *userServiceImpl) requestProvisioning(ctx context.Context, user *domain.User) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewRadarProvisioningEvent(user.ID)
	if err != nil {
		log.Error("failed to build provisioning event",
			redact.Attr(err),
			slog.String("user_id", user.ID.String()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit provisioning event",
			redact.Attr(err),
			slog.String("user_id", user.ID.String()))
	}
}

// GetUser implements UserService.
func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("user", "get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// GetByUsername implements UserService.
func (s *userServiceImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, NewServiceError("user", "get_by_username", "failed to retrieve user", err)
	}
	return user, nil
}
