package task

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTaskStore is an in-memory TaskStore for tests. SaveFn, ClaimFn and
// UpdateStatusFn may be replaced to inject failures.
type MockTaskStore struct {
	mutex          sync.RWMutex
	records        map[uuid.UUID]*Record
	SaveFn         func(ctx context.Context, task Task) error
	ClaimFn        func(ctx context.Context, taskID uuid.UUID) (bool, error)
	UpdateStatusFn func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// NewMockTaskStore creates an empty MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	s := &MockTaskStore{records: make(map[uuid.UUID]*Record)}
	s.SaveFn = s.save
	s.ClaimFn = s.claim
	s.UpdateStatusFn = s.updateStatus
	return s
}

func (s *MockTaskStore) save(ctx context.Context, task Task) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	s.records[task.ID()] = &Record{
		TaskID:      task.ID(),
		TaskType:    task.Type(),
		TaskPayload: task.Payload(),
		TaskStatus:  task.Status(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (s *MockTaskStore) claim(ctx context.Context, taskID uuid.UUID) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, ok := s.records[taskID]
	if !ok || rec.TaskStatus != TaskStatusPending {
		return false, nil
	}
	rec.TaskStatus = TaskStatusProcessing
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (s *MockTaskStore) updateStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, ok := s.records[taskID]
	if !ok {
		return nil
	}
	rec.TaskStatus = status
	rec.ErrorMessage = errorMsg
	rec.UpdatedAt = time.Now()
	return nil
}

// Put stores a record directly, as if left behind by a previous run.
func (s *MockTaskStore) Put(rec *Record) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.records[rec.TaskID] = rec
}

// Get returns a copy of the stored record.
func (s *MockTaskStore) Get(taskID uuid.UUID) (Record, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rec, ok := s.records[taskID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// SaveTask implements TaskStore.
func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

// ClaimTask implements TaskStore.
func (s *MockTaskStore) ClaimTask(ctx context.Context, taskID uuid.UUID) (bool, error) {
	return s.ClaimFn(ctx, taskID)
}

// UpdateTaskStatus implements TaskStore.
func (s *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetPendingTasks implements TaskStore.
func (s *MockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

// GetProcessingTasks implements TaskStore.
func (s *MockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *MockTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []Task {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cutoff := time.Now().Add(-olderThan)
	var recs []*Record
	for _, rec := range s.records {
		if rec.TaskStatus != status {
			continue
		}
		if olderThan > 0 && rec.UpdatedAt.After(cutoff) {
			continue
		}
		copied := *rec
		recs = append(recs, &copied)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })

	tasks := make([]Task, len(recs))
	for i, rec := range recs {
		tasks[i] = rec
	}
	return tasks
}

// WithTx implements TaskStore. The mock ignores transactions.
func (s *MockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

var _ TaskStore = (*MockTaskStore)(nil)
