package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/store"
)

// MockKnowledgeStore implements store.KnowledgeStore for testing, with
// the same override pattern as MockTaskStore.
type MockKnowledgeStore struct {
	GetAllFn func(ctx context.Context) ([]*domain.KnowledgeResource, error)
	CreateFn func(ctx context.Context, resource *domain.KnowledgeResource) error
	DeleteFn func(ctx context.Context, id uuid.UUID) error

	mu        sync.Mutex
	resources map[uuid.UUID]*domain.KnowledgeResource
}

// NewMockKnowledgeStore creates an empty MockKnowledgeStore.
func NewMockKnowledgeStore() *MockKnowledgeStore {
	return &MockKnowledgeStore{
		resources: make(map[uuid.UUID]*domain.KnowledgeResource),
	}
}

// GetAll implements store.KnowledgeStore.
func (m *MockKnowledgeStore) GetAll(ctx context.Context) ([]*domain.KnowledgeResource, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.KnowledgeResource, 0, len(m.resources))
	for _, resource := range m.resources {
		result = append(result, resource)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Create implements store.KnowledgeStore.
func (m *MockKnowledgeStore) Create(ctx context.Context, resource *domain.KnowledgeResource) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, resource)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[resource.ID] = resource
	return nil
}

// Delete implements store.KnowledgeStore.
func (m *MockKnowledgeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[id]; !ok {
		return store.ErrResourceNotFound
	}
	delete(m.resources, id)
	return nil
}

// Verify interface compliance at compile time.
var _ store.KnowledgeStore = (*MockKnowledgeStore)(nil)
