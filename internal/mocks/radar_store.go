package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/techradar-io/radar-api/internal/domain"
	"github.com/techradar-io/radar-api/internal/store"
)

// MockRadarStore implements store.RadarStore for testing.
// Users supplies the owner foreign key check when set.
type MockRadarStore struct {
	CreateFn func(ctx context.Context, radar *domain.Radar) error
	UpdateFn func(ctx context.Context, radar *domain.Radar) error
	DeleteFn func(ctx context.Context, id uuid.UUID) error

	Users *MockUserStore

	mu     sync.Mutex
	radars []*domain.Radar
}

// NewMockRadarStore creates an empty mock store.
func NewMockRadarStore() *MockRadarStore {
	return &MockRadarStore{}
}

var _ store.RadarStore = (*MockRadarStore)(nil)

// Create implements store.RadarStore.
func (m *MockRadarStore) Create(ctx context.Context, radar *domain.Radar) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, radar)
	}
	if err := radar.Validate(); err != nil {
		return err
	}
	if m.Users != nil {
		if _, err := m.Users.GetByID(ctx, radar.OwnerID); err != nil {
			return store.ErrUnknownOwner
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *radar
	m.radars = append(m.radars, &stored)
	return nil
}

// GetByID implements store.RadarStore.
func (m *MockRadarStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Radar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		found := *m.radars[i]
		return &found, nil
	}
	return nil, store.ErrRadarNotFound
}

// GetOwned implements store.RadarStore.
func (m *MockRadarStore) GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Radar, error) {
	radar, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if radar.OwnerID != ownerID {
		return nil, store.ErrRadarNotFound
	}
	return radar, nil
}

// ListByOwner implements store.RadarStore.
func (m *MockRadarStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Radar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	radars := make([]*domain.Radar, 0)
	for _, radar := range m.radars {
		if radar.OwnerID == ownerID {
			found := *radar
			radars = append(radars, &found)
		}
	}
	return radars, nil
}

// Update implements store.RadarStore.
func (m *MockRadarStore) Update(ctx context.Context, radar *domain.Radar) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, radar)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(radar.ID)
	if i < 0 {
		return store.ErrRadarNotFound
	}
	stored := *radar
	m.radars[i] = &stored
	return nil
}

// Delete implements store.RadarStore.
func (m *MockRadarStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return store.ErrRadarNotFound
	}
	m.radars = append(m.radars[:i], m.radars[i+1:]...)
	return nil
}

func (m *MockRadarStore) indexLocked(id uuid.UUID) int {
	for i, radar := range m.radars {
		if radar.ID == id {
			return i
		}
	}
	return -1
}

// WithTx implements store.RadarStore.
func (m *MockRadarStore) WithTx(tx *sql.Tx) store.RadarStore {
	return m
}

// Count returns the number of stored radars.
func (m *MockRadarStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.radars)
}
