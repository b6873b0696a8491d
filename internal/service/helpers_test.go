package service_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/domain"
)

// newTxDB returns a database whose only job is to begin and finish
// transactions; the data lives in the in-memory mocks.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requireFieldError(t *testing.T, err error, field string) domain.FieldError {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fe, ok := verr.Field(field)
	require.True(t, ok, "expected a failure on %q, got %v", field, verr.Fields)
	return fe
}

func mustUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(uuid.Nil, username, username+"@example.com")
	require.NoError(t, err)
	return user
}
