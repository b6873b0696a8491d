package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/store"
)

// MockTopicStore implements store.TopicStore for testing
type MockTopicStore struct {
	CreateFn      func(ctx context.Context, topic *domain.Topic) error
	GetOrCreateFn func(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
	ListFn        func(ctx context.Context, query string) ([]*domain.Topic, error)

	mu     sync.Mutex
	topics map[uuid.UUID]*domain.Topic
	keys   map[string]uuid.UUID
}

// NewMockTopicStore creates an empty mock store.
func NewMockTopicStore() *MockTopicStore {
	return &MockTopicStore{
		topics: make(map[uuid.UUID]*domain.Topic),
		keys:   make(map[string]uuid.UUID),
	}
}

var _ store.TopicStore = (*MockTopicStore)(nil)

// Create implements store.TopicStore.
func (m *MockTopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, topic)
	}
	if err := topic.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.keys[topic.NameKey]; taken {
		return store.ErrTopicNameExists
	}
	m.insertLocked(topic)
	return nil
}

// GetOrCreate implements store.TopicStore.
func (m *MockTopicStore) GetOrCreate(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, topic)
	}
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, taken := m.keys[topic.NameKey]; taken {
		found := *m.topics[id]
		return &found, nil
	}
	m.insertLocked(topic)
	stored := *topic
	return &stored, nil
}

func (m *MockTopicStore) insertLocked(topic *domain.Topic) {
	stored := *topic
	m.topics[topic.ID] = &stored
	m.keys[topic.NameKey] = topic.ID
}

// GetByID implements store.TopicStore.
func (m *MockTopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topic, ok := m.topics[id]
	if !ok {
		return nil, store.ErrTopicNotFound
	}
	found := *topic
	return &found, nil
}

// List implements store.TopicStore.
func (m *MockTopicStore) List(ctx context.Context, query string) ([]*domain.Topic, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, query)
	}
	key := domain.NormalizeTopicName(query)
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]*domain.Topic, 0, len(m.topics))
	for _, topic := range m.topics {
		if key == "" || strings.Contains(topic.NameKey, key) {
			found := *topic
			topics = append(topics, &found)
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].NameKey != topics[j].NameKey {
			return topics[i].NameKey < topics[j].NameKey
		}
		return topics[i].ID.String() < topics[j].ID.String()
	})
	return topics, nil
}

// WithTx implements store.TopicStore.
func (m *MockTopicStore) WithTx(tx *sql.Tx) store.TopicStore {
	return m
}

// Count returns the number of stored topics.
func (m *MockTopicStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.topics)
}
