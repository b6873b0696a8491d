package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"radar not found", ErrRadarNotFound, true},
		{"blip not found", ErrBlipNotFound, true},
		{"wrapped topic not found", fmt.Errorf("lookup: %w", ErrTopicNotFound), true},
		{"duplicate", ErrTopicNameExists, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrTopicNameExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrUsernameExists)))
	assert.False(t, IsDuplicateError(ErrRadarNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestInvalidReferenceIsInvalidEntity(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidReference, ErrInvalidEntity)
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("blip", "create", "failed to insert", cause)

	assert.Equal(t, "create operation on blip failed: failed to insert: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("radar", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on radar failed: no rows", bare.Error())
}

func TestUnknownReferenceErrors(t *testing.T) {
	for _, err := range []error{ErrUnknownOwner, ErrUnknownRadar, ErrUnknownTopic} {
		assert.ErrorIs(t, err, ErrInvalidReference)
		assert.ErrorIs(t, err, ErrInvalidEntity)
		assert.False(t, IsNotFoundError(err))
	}
	assert.NotErrorIs(t, ErrUnknownTopic, ErrUnknownRadar)
}
