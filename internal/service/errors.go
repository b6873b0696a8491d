package service

import (
	"errors"
	"fmt"

	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/store"
)

// Common service errors. Callers check them with errors.Is; the API layer maps
// every ErrNotFound variant to HTTP 404.
var (
	// ErrNotFound is matched by every service-level "not found" error.
	ErrNotFound = errors.New("not found")

	// ErrRadarNotFound indicates the radar does not exist or is not visible to
	// the caller. Both cases return the same error.
	ErrRadarNotFound = fmt.Errorf("radar %w", ErrNotFound)

	// ErrBlipNotFound indicates the blip does not exist within the radar.
	ErrBlipNotFound = fmt.Errorf("blip %w", ErrNotFound)

	// ErrTopicNotFound indicates the topic does not exist.
	ErrTopicNotFound = fmt.Errorf("topic %w", ErrNotFound)

	// ErrUserNotFound indicates the user reference does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

// notFoundErrors maps store sentinels to their service equivalents.
var notFoundErrors = []struct {
	store   error
	service error
}{
	{store.ErrRadarNotFound, ErrRadarNotFound},
	{store.ErrBlipNotFound, ErrBlipNotFound},
	{store.ErrTopicNotFound, ErrTopicNotFound},
	{store.ErrUserNotFound, ErrUserNotFound},
}

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError classifies err for callers of the service layer.
// Validation errors and not-found sentinels are returned bare; store not-found
// errors become their service equivalents; anything else is wrapped.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrValidation) || errors.Is(err, ErrNotFound) {
		return err
	}

	for _, m := range notFoundErrors {
		if errors.Is(err, m.store) {
			return m.service
		}
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
