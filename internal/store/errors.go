package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// The entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or violates
	// a constraint before or while being stored.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidReference is returned when a foreign key does not resolve.
	ErrInvalidReference = fmt.Errorf("%w: reference does not exist", ErrInvalidEntity)

	// ErrUnknownOwner indicates a radar references a user that does not exist.
	ErrUnknownOwner = fmt.Errorf("%w: owner", ErrInvalidReference)

	// ErrUnknownRadar indicates a blip references a radar that does not exist.
	ErrUnknownRadar = fmt.Errorf("%w: radar", ErrInvalidReference)

	// ErrUnknownTopic indicates a blip references a topic that does not exist.
	ErrUnknownTopic = fmt.Errorf("%w: topic", ErrInvalidReference)

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTopicNotFound indicates that the requested topic does not exist in the store.
	ErrTopicNotFound = fmt.Errorf("%w: topic", ErrNotFound)

	// ErrRadarNotFound indicates that the requested radar does not exist in the store,
	// or is not visible within the requested owner scope.
	ErrRadarNotFound = fmt.Errorf("%w: radar", ErrNotFound)

	// ErrBlipNotFound indicates that the requested blip does not exist in the store,
	// or belongs to another radar.
	ErrBlipNotFound = fmt.Errorf("%w: blip", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrTopicNameExists indicates that a topic with the same normalized name exists.
	ErrTopicNameExists = fmt.Errorf("%w: topic name", ErrDuplicate)

	// ErrUsernameExists indicates that the username is already taken.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrEmailExists indicates that the email is already taken.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "radar", "blip")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
