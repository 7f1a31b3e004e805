package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/events"
	"github.com/nexusboard/nexus-api/internal/generation"
	"github.com/nexusboard/nexus-api/internal/store"
)

// BoardService is the task orchestrator. It owns the in-memory board
// state, applies every mutation optimistically, persists through the
// task store, and reconciles by reloading from the store when a persist
// fails. All state access goes through one mutex: the board behaves as
// if driven by a single cooperative writer.
type BoardService struct {
	taskStore store.TaskStore
	db        *sql.DB
	provider  generation.ContentProvider
	emitter   events.Emitter
	logger    *slog.Logger

	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewBoardService creates a new BoardService with the given dependencies.
// db may be nil, in which case the analysis persist step runs without a
// surrounding transaction; every other dependency is required.
func NewBoardService(
	taskStore store.TaskStore,
	db *sql.DB,
	provider generation.ContentProvider,
	emitter events.Emitter,
	logger *slog.Logger,
) (*BoardService, error) {
	if taskStore == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if provider == nil {
		return nil, errors.New("content provider cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("event emitter cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &BoardService{
		taskStore: taskStore,
		db:        db,
		provider:  provider,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "board_service")),
		tasks:     make(map[uuid.UUID]*domain.Task),
	}, nil
}

// CreateTask creates a new task from the draft. The task appears on the
// board immediately with enrichment marked as in progress; the analysis
// itself runs in the background. If the task cannot be persisted, the
// optimistic entry is removed again and no enrichment is scheduled.
func (s *BoardService) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	task, err := domain.NewTask(draft)
	if err != nil {
		return nil, err
	}

	// Enrichment starts with the task's lifetime, not when a worker
	// picks it up, so the board shows it as in progress right away.
	if err := task.UpdateAIStatus(domain.AIStatusProcessing); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = task

	if err := s.taskStore.Create(ctx, task); err != nil {
		delete(s.tasks, task.ID)
		s.logger.Error("failed to persist new task, rolled back optimistic insert",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_task", "failed to persist task", err)
	}

	s.scheduleEnrichmentLocked(ctx, task.ID)

	return task.Clone(), nil
}

// scheduleEnrichmentLocked emits the enrichment request for a freshly
// created task. A failed emit never fails the create: the task stays on
// the board and its enrichment is marked failed instead.
func (s *BoardService) scheduleEnrichmentLocked(ctx context.Context, taskID uuid.UUID) {
	event, err := events.NewEvent(events.TypeTaskEnrichment, map[string]string{
		"task_id": taskID.String(),
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		s.logger.Error("failed to schedule enrichment",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		s.markEnrichmentLocked(ctx, taskID, domain.AIStatusFailed)
	}
}

// GetAll returns a snapshot of every task on the board, oldest first.
func (s *BoardService) GetAll(ctx context.Context) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		result = append(result, task.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}

// GetTask returns a snapshot of one task.
// Returns ErrTaskNotFound if the task is not on the board.
func (s *BoardService) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return task.Clone(), nil
}

// UpdateTask replaces a task's content. The board reflects the change
// immediately; if the persist fails, the board is reloaded from the
// store so the optimistic change never outlives its failed write.
func (s *BoardService) UpdateTask(ctx context.Context, updated *domain.Task) error {
	if updated == nil {
		return ErrEmptyInput
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[updated.ID]
	if !ok {
		return ErrTaskNotFound
	}

	incoming := updated.Clone()
	incoming.CreatedAt = prev.CreatedAt
	s.tasks[updated.ID] = incoming

	if err := s.taskStore.Update(ctx, incoming); err != nil {
		s.recoverFromFailedWriteLocked(ctx, "update_task", updated.ID, err)
		return NewServiceError("update_task", "failed to persist task update", err)
	}

	return nil
}

// UpdateStatus moves a task to another board column. Repeating the same
// status is a no-op that still succeeds.
func (s *BoardService) UpdateStatus(ctx context.Context, taskID uuid.UUID, status domain.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}

	moved := prev.Clone()
	if err := moved.UpdateStatus(status); err != nil {
		return err
	}
	s.tasks[taskID] = moved

	if err := s.taskStore.UpdateStatus(ctx, taskID, status); err != nil {
		s.recoverFromFailedWriteLocked(ctx, "update_status", taskID, err)
		return NewServiceError("update_status", "failed to persist status change", err)
	}

	return nil
}

// DeleteTask removes a task from the board. The removal is optimistic;
// a failed persist reloads the board from the store.
func (s *BoardService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}

	delete(s.tasks, taskID)

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		s.tasks[taskID] = prev
		s.recoverFromFailedWriteLocked(ctx, "delete_task", taskID, err)
		return NewServiceError("delete_task", "failed to persist task deletion", err)
	}

	return nil
}

// ApplyAnalysis attaches a completed enrichment result to a task and
// marks the enrichment as completed. The result is discarded when the
// task no longer exists: a task deleted mid-enrichment must never be
// resurrected by its late analysis. Subtask replacement follows
// domain.Task.ApplyAnalysis (only for a non-empty generated plan).
func (s *BoardService) ApplyAnalysis(ctx context.Context, taskID uuid.UUID, analysis *domain.AIAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}

	enriched := current.Clone()
	enriched.ApplyAnalysis(analysis)

	// The store-side existence check runs in the same transaction as
	// the write, so a concurrent delete cannot slip between them.
	err := s.inTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.storeForTx(tx)
		if _, err := txStore.GetByID(ctx, taskID); err != nil {
			return err
		}
		return txStore.Update(ctx, enriched)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			delete(s.tasks, taskID)
			return ErrTaskNotFound
		}
		return NewServiceError("apply_analysis", "failed to persist analysis", err)
	}

	s.tasks[taskID] = enriched

	s.logger.Info("analysis applied",
		slog.String("task_id", taskID.String()),
		slog.Int("subtasks", len(enriched.Subtasks)))

	return nil
}

// MarkEnrichmentFailed records that enrichment for a task could not
// complete. Like ApplyAnalysis, it refuses to write to a deleted task.
func (s *BoardService) MarkEnrichmentFailed(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.markEnrichmentLocked(ctx, taskID, domain.AIStatusFailed)
}

func (s *BoardService) markEnrichmentLocked(ctx context.Context, taskID uuid.UUID, status domain.AIStatus) error {
	current, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}

	marked := current.Clone()
	if err := marked.UpdateAIStatus(status); err != nil {
		return err
	}

	if err := s.taskStore.Update(ctx, marked); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			delete(s.tasks, taskID)
			return ErrTaskNotFound
		}
		return NewServiceError("mark_enrichment", "failed to persist enrichment status", err)
	}

	s.tasks[taskID] = marked
	return nil
}

// DraftTasks turns free-form input into polished task proposals. The
// proposals are not persisted; the caller picks one and creates it
// through CreateTask.
func (s *BoardService) DraftTasks(ctx context.Context, rawInput string) ([]generation.TaskDraft, error) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, ErrEmptyInput
	}

	drafts, err := s.provider.DraftTasks(ctx, rawInput)
	if err != nil {
		return nil, NewServiceError("draft_tasks", "failed to generate task drafts", err)
	}

	return drafts, nil
}

// Resync discards the in-memory board state and reloads it from the
// store. The store is the source of truth after any failed write.
func (s *BoardService) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resyncLocked(ctx)
}

func (s *BoardService) resyncLocked(ctx context.Context) error {
	tasks, err := s.taskStore.GetAll(ctx)
	if err != nil {
		return NewServiceError("resync", "failed to reload tasks from store", err)
	}

	fresh := make(map[uuid.UUID]*domain.Task, len(tasks))
	for _, task := range tasks {
		fresh[task.ID] = task
	}
	s.tasks = fresh

	s.logger.Info("board state reloaded from store", slog.Int("task_count", len(fresh)))
	return nil
}

// recoverFromFailedWriteLocked reloads board state after a failed
// persist so the optimistic mutation does not survive it.
func (s *BoardService) recoverFromFailedWriteLocked(ctx context.Context, operation string, taskID uuid.UUID, cause error) {
	s.logger.Error("persist failed, reloading board state from store",
		slog.String("operation", operation),
		slog.String("task_id", taskID.String()),
		slog.String("error", cause.Error()))

	if err := s.resyncLocked(ctx); err != nil {
		s.logger.Error("resync after failed write also failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
}

// inTransaction runs fn inside a database transaction when the service
// has one to offer. Without a db handle fn runs directly; the stores
// used in tests ignore the nil transaction.
func (s *BoardService) inTransaction(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

func (s *BoardService) storeForTx(tx *sql.Tx) store.TaskStore {
	if tx == nil {
		return s.taskStore
	}
	return s.taskStore.WithTx(tx)
}
