package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/store"
)

// MockBlipStore implements store.BlipStore for testing.
// Topics supplies the topic foreign key check when set.
type MockBlipStore struct {
	CreateFn        func(ctx context.Context, blip *domain.Blip) error
	UpdateFn        func(ctx context.Context, blip *domain.Blip) error
	DeleteByRadarFn func(ctx context.Context, radarID uuid.UUID) (int64, error)
	ListByRadarFn   func(ctx context.Context, radarID uuid.UUID) ([]*domain.Blip, error)

	Topics *MockTopicStore

	mu    sync.Mutex
	blips []*domain.Blip
	calls int
}

// NewMockBlipStore creates an empty mock store.
func NewMockBlipStore() *MockBlipStore {
	return &MockBlipStore{}
}

var _ store.BlipStore = (*MockBlipStore)(nil)

// Create implements store.BlipStore.
func (m *MockBlipStore) Create(ctx context.Context, blip *domain.Blip) error {
	m.count()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, blip)
	}
	if err := blip.Validate(); err != nil {
		return err
	}
	if m.Topics != nil {
		if _, err := m.Topics.GetByID(ctx, blip.TopicID); err != nil {
			return store.ErrUnknownTopic
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *blip
	m.blips = append(m.blips, &stored)
	return nil
}

// GetInRadar implements store.BlipStore.
func (m *MockBlipStore) GetInRadar(ctx context.Context, radarID, id uuid.UUID) (*domain.Blip, error) {
	m.count()
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 && m.blips[i].RadarID == radarID {
		found := *m.blips[i]
		return &found, nil
	}
	return nil, store.ErrBlipNotFound
}

// ListByRadar implements store.BlipStore.
func (m *MockBlipStore) ListByRadar(ctx context.Context, radarID uuid.UUID) ([]*domain.Blip, error) {
	m.count()
	if m.ListByRadarFn != nil {
		return m.ListByRadarFn(ctx, radarID)
	}
	return m.filter(func(b *domain.Blip) bool { return b.RadarID == radarID }), nil
}

// ListByQuadrant implements store.BlipStore.
func (m *MockBlipStore) ListByQuadrant(
	ctx context.Context,
	radarID uuid.UUID,
	quadrant domain.Quadrant,
) ([]*domain.Blip, error) {
	m.count()
	return m.filter(func(b *domain.Blip) bool {
		return b.RadarID == radarID && b.Quadrant == quadrant
	}), nil
}

func (m *MockBlipStore) filter(keep func(*domain.Blip) bool) []*domain.Blip {
	m.mu.Lock()
	defer m.mu.Unlock()
	blips := make([]*domain.Blip, 0)
	for _, blip := range m.blips {
		if keep(blip) {
			found := *blip
			blips = append(blips, &found)
		}
	}
	return blips
}

// Update implements store.BlipStore.
func (m *MockBlipStore) Update(ctx context.Context, blip *domain.Blip) error {
	m.count()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, blip)
	}
	if err := blip.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(blip.ID)
	if i < 0 {
		return store.ErrBlipNotFound
	}
	stored := *blip
	m.blips[i] = &stored
	return nil
}

// Delete implements store.BlipStore.
func (m *MockBlipStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.count()
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return store.ErrBlipNotFound
	}
	m.blips = append(m.blips[:i], m.blips[i+1:]...)
	return nil
}

// DeleteByRadar implements store.BlipStore.
func (m *MockBlipStore) DeleteByRadar(ctx context.Context, radarID uuid.UUID) (int64, error) {
	m.count()
	if m.DeleteByRadarFn != nil {
		return m.DeleteByRadarFn(ctx, radarID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.blips[:0]
	var removed int64
	for _, blip := range m.blips {
		if blip.RadarID == radarID {
			removed++
			continue
		}
		kept = append(kept, blip)
	}
	m.blips = kept
	return removed, nil
}

func (m *MockBlipStore) indexLocked(id uuid.UUID) int {
	for i, blip := range m.blips {
		if blip.ID == id {
			return i
		}
	}
	return -1
}

func (m *MockBlipStore) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// WithTx implements store.BlipStore.
func (m *MockBlipStore) WithTx(tx *sql.Tx) store.BlipStore {
	return m
}

// Count returns the number of stored blips.
func (m *MockBlipStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blips)
}

// Calls returns how many store methods have been invoked.
func (m *MockBlipStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
