package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/platform/logger"
	"github.com/techradar-io/radar-api/internal/store"
)

// Reasons reported for names rejected by BulkCreateTopics.
const (
	BulkReasonBlank     = "blank"
	BulkReasonDuplicate = "duplicate"
)

// BulkFailure is one name BulkCreateTopics did not create.
type BulkFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BulkResult reports the outcome of BulkCreateTopics. Both lists keep the
// order of the submitted names.
type BulkResult struct {
	Created []*domain.Topic `json:"created"`
	Failed  []BulkFailure   `json:"failed"`
}

// TopicService manages the shared topic catalog.
type TopicService interface {
	// CreateTopic adds a topic. A blank name or a name that matches an existing
	// topic case-insensitively is a ValidationError on "name".
	CreateTopic(ctx context.Context, name, description string) (*domain.Topic, error)

	// BulkCreateTopics creates each name independently. A failed name never
	// prevents the others from being created.
	BulkCreateTopics(ctx context.Context, names []string) (*BulkResult, error)

	// FindCanonicalBootstrapTopic returns the reserved topic, creating it on
	// first use.
	FindCanonicalBootstrapTopic(ctx context.Context) (*domain.Topic, error)

	// GetTopic retrieves a topic by ID.
	GetTopic(ctx context.Context, id uuid.UUID) (*domain.Topic, error)

	// ListTopics returns all topics ordered by name, or only those whose name
	// contains query case-insensitively.
	ListTopics(ctx context.Context, query string) ([]*domain.Topic, error)
}

type topicServiceImpl struct {
	topics store.TopicStore
	logger *slog.Logger
}

// NewTopicService creates a TopicService.
// It returns an error if the store is nil.
func NewTopicService(topics store.TopicStore, logger *slog.Logger) (TopicService, error) {
	if topics == nil {
		return nil, domain.NewValidationError("topics", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &topicServiceImpl{
		topics: topics,
		logger: logger.With(slog.String("component", "topic_service")),
	}, nil
}

// CreateTopic implements TopicService.
func (s *topicServiceImpl) CreateTopic(ctx context.Context, name, description string) (*domain.Topic, error) {
	topic, err := domain.NewTopic(name, description)
	if err != nil {
		return nil, err
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		if errors.Is(err, store.ErrTopicNameExists) {
			return nil, duplicateNameError()
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create topic",
			slog.String("error", err.Error()),
			slog.String("name", topic.Name))
		return nil, NewServiceError("topic", "create_topic", "failed to save topic", err)
	}

	return topic, nil
}

// BulkCreateTopics implements TopicService.
// Names are not wrapped in a shared transaction. An unexpected store error
// stops the batch and is returned together with the partial result.
func (s *topicServiceImpl) BulkCreateTopics(ctx context.Context, names []string) (*BulkResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result := &BulkResult{
		Created: make([]*domain.Topic, 0, len(names)),
		Failed:  make([]BulkFailure, 0),
	}
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		topic, err := domain.NewTopic(name, "")
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{Name: name, Reason: BulkReasonBlank})
			continue
		}

		if _, dup := seen[topic.NameKey]; dup {
			result.Failed = append(result.Failed, BulkFailure{Name: name, Reason: BulkReasonDuplicate})
			continue
		}
		seen[topic.NameKey] = struct{}{}

		if err := s.topics.Create(ctx, topic); err != nil {
			if errors.Is(err, store.ErrTopicNameExists) {
				result.Failed = append(result.Failed, BulkFailure{Name: name, Reason: BulkReasonDuplicate})
				continue
			}
			log.Error("bulk topic creation aborted",
				slog.String("error", err.Error()),
				slog.String("name", topic.Name),
				slog.Int("created", len(result.Created)))
			return result, NewServiceError("topic", "bulk_create_topics", "failed to save topic", err)
		}
		result.Created = append(result.Created, topic)
	}

	log.Info("bulk topic creation finished",
		slog.Int("created", len(result.Created)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}

// FindCanonicalBootstrapTopic implements TopicService.
func (s *topicServiceImpl) FindCanonicalBootstrapTopic(ctx context.Context) (*domain.Topic, error) {
	return bootstrapTopic(ctx, s.topics)
}

// bootstrapTopic get-or-creates the reserved topic through topics, which may
// be bound to a transaction.
func bootstrapTopic(ctx context.Context, topics store.TopicStore) (*domain.Topic, error) {
	candidate, err := domain.NewTopic(domain.BootstrapTopicName, "")
	if err != nil {
		return nil, err
	}
	topic, err := topics.GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, NewServiceError("topic", "find_bootstrap_topic", "failed to get or create topic", err)
	}
	return topic, nil
}

// GetTopic implements TopicService.
func (s *topicServiceImpl) GetTopic(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("topic", "get_topic", "failed to retrieve topic", err)
	}
	return topic, nil
}

// ListTopics implements TopicService.
func (s *topicServiceImpl) ListTopics(ctx context.Context, query string) ([]*domain.Topic, error) {
	topics, err := s.topics.List(ctx, query)
	if err != nil {
		return nil, NewServiceError("topic", "list_topics", "failed to list topics", err)
	}
	return topics, nil
}

func duplicateNameError() *domain.ValidationError {
	return domain.NewValidationError("name", "has already been taken", domain.ErrDuplicateName)
}
