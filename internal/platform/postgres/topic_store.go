package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/store"
)

const topicColumns = `id, name, name_key, COALESCE(description, ''), created_at`

// PostgresTopicStore implements store.TopicStore.
// Name uniqueness is delegated to the topics_name_key_idx unique index.
type PostgresTopicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTopicStore creates a topic store over db. A nil logger uses slog.Default.
func NewPostgresTopicStore(db store.DBTX, logger *slog.Logger) *PostgresTopicStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTopicStore{
		db:     db,
		logger: logger.With(slog.String("component", "topic_store")),
	}
}

var _ store.TopicStore = (*PostgresTopicStore)(nil)

// WithTx implements store.TopicStore.
func (s *PostgresTopicStore) WithTx(tx *sql.Tx) store.TopicStore {
	return &PostgresTopicStore{db: tx, logger: s.logger}
}

// Create implements store.TopicStore.
func (s *PostgresTopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := topic.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, name, name_key, description, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`, topic.ID, topic.Name, topic.NameKey, topic.Description, topic.CreatedAt)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrTopicNameExists) {
			log.Debug("topic name already taken", slog.String("name", topic.Name))
			return mapped
		}
		log.Error("failed to create topic",
			slog.String("error", err.Error()),
			slog.String("name", topic.Name))
		return mapped
	}

	log.Info("topic created",
		slog.String("topic_id", topic.ID.String()),
		slog.String("name", topic.Name))
	return nil
}

// GetOrCreate implements store.TopicStore.
func (s *PostgresTopicStore) GetOrCreate(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, name, name_key, description, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (name_key) DO NOTHING
	`, topic.ID, topic.Name, topic.NameKey, topic.Description, topic.CreatedAt)
	if err != nil {
		log.Error("failed to insert topic",
			slog.String("error", err.Error()),
			slog.String("name", topic.Name))
		return nil, MapError(err)
	}

	stored, err := scanTopic(s.db.QueryRowContext(ctx,
		`SELECT `+topicColumns+` FROM topics WHERE name_key = $1`, topic.NameKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("topic %q vanished after insert: %w", topic.Name, store.ErrTopicNotFound)
		}
		log.Error("failed to read topic after insert",
			slog.String("error", err.Error()),
			slog.String("name", topic.Name))
		return nil, MapError(err)
	}

	return stored, nil
}

// GetByID implements store.TopicStore.
func (s *PostgresTopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	topic, err := scanTopic(s.db.QueryRowContext(ctx,
		`SELECT `+topicColumns+` FROM topics WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTopicNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get topic",
			slog.String("error", err.Error()),
			slog.String("topic_id", id.String()))
		return nil, MapError(err)
	}
	return topic, nil
}

// List implements store.TopicStore.
func (s *PostgresTopicStore) List(ctx context.Context, query string) ([]*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		rows *sql.Rows
		err  error
	)
	key := domain.NormalizeTopicName(query)
	if key == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+topicColumns+` FROM topics ORDER BY name_key, id`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+topicColumns+` FROM topics
			WHERE name_key LIKE '%' || $1 || '%' ESCAPE '\'
			ORDER BY name_key, id`, escapeLike(key))
	}
	if err != nil {
		log.Error("failed to list topics", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	topics := make([]*domain.Topic, 0)
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topic rows: %w", err)
	}

	return topics, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*domain.Topic, error) {
	var topic domain.Topic
	if err := row.Scan(
		&topic.ID,
		&topic.Name,
		&topic.NameKey,
		&topic.Description,
		&topic.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &topic, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
