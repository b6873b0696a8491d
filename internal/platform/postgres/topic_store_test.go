package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/store"
)

var topicCols = []string{"id", "name", "name_key", "description", "created_at"}

func TestPostgresTopicStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTopicStore(db, quiet())
	topic, err := domain.NewTopic("  Kubernetes ", "")
	require.NoError(t, err)

	mock.ExpectExec(sqlLike("INSERT INTO topics")).
		WithArgs(topic.ID, "Kubernetes", "kubernetes", "", topic.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), topic))
}

func TestPostgresTopicStore_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTopicStore(db, quiet())
	topic, err := domain.NewTopic("KUBERNETES", "")
	require.NoError(t, err)

	mock.ExpectExec(sqlLike("INSERT INTO topics")).
		WillReturnError(pgError(uniqueViolationCode, constraintTopicsNameKey))

	err = s.Create(context.Background(), topic)
	assert.ErrorIs(t, err, store.ErrTopicNameExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestPostgresTopicStore_GetOrCreate_ReturnsStoredRow(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTopicStore(db, quiet())
	candidate, err := domain.NewTopic(domain.BootstrapTopicName, "")
	require.NoError(t, err)
	existingID := uuid.New()

	mock.ExpectExec(sqlLike("ON CONFLICT (name_key) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlLike("WHERE name_key = $1")).
		WithArgs("techradar.io").
		WillReturnRows(sqlmock.NewRows(topicCols).
			AddRow(existingID.String(), "techradar.io", "techradar.io", "", fixedTime))

	got, err := s.GetOrCreate(context.Background(), candidate)
	require.NoError(t, err)
	assert.Equal(t, existingID, got.ID, "the existing row wins over the candidate")
	assert.Equal(t, "techradar.io", got.Name)
}

func TestPostgresTopicStore_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTopicStore(db, quiet())
	id := uuid.New()

	mock.ExpectQuery(sqlLike("FROM topics WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(topicCols))

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
}

func TestPostgresTopicStore_List(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTopicStore(db, quiet())
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(sqlLike("FROM topics ORDER BY name_key")).
		WillReturnRows(sqlmock.NewRows(topicCols).
			AddRow(a.String(), "Docker", "docker", "containers", fixedTime).
			AddRow(b.String(), "Kubernetes", "kubernetes", "", fixedTime))

	topics, err := s.List(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Docker", topics[0].Name)
	assert.Equal(t, "containers", topics[0].Description)
	assert.Equal(t, b, topics[1].ID)
}

func TestPostgresTopicStore_List_Matching(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTopicStore(db, quiet())

	mock.ExpectQuery(sqlLike("WHERE name_key LIKE")).
		WithArgs(`100\%\_go`).
		WillReturnRows(sqlmock.NewRows(topicCols))

	topics, err := s.List(context.Background(), "100%_GO")
	require.NoError(t, err)
	assert.NotNil(t, topics)
	assert.Empty(t, topics)
}
