package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
)

// TaskStore defines the interface for task data persistence. It is the
// single source of truth the orchestrator reconciles its in-memory board
// state against.
type TaskStore interface {
	// GetAll retrieves every task, ordered by creation time.
	GetAll(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns ErrNotPersisted (wrapped) if the write fails.
	Create(ctx context.Context, task *domain.Task) error

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist and
	// ErrNotPersisted (wrapped) if the write fails.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStatus updates the board status of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error

	// Delete removes a task from the store.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}

// KnowledgeStore defines the interface for knowledge resource persistence.
type KnowledgeStore interface {
	// GetAll retrieves every knowledge resource, newest first.
	GetAll(ctx context.Context) ([]*domain.KnowledgeResource, error)

	// Create saves a new knowledge resource to the store.
	Create(ctx context.Context, resource *domain.KnowledgeResource) error

	// Delete removes a knowledge resource from the store.
	// Returns ErrResourceNotFound if the resource does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
