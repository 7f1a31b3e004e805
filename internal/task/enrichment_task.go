package task

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/events"
	"github.com/nexusboard/nexus-api/internal/store"
)

// Common errors
var (
	ErrNilBoardService = errors.New("board service cannot be nil")
	ErrNilAggregator   = errors.New("aggregator cannot be nil")
	ErrNilLogger       = errors.New("logger cannot be nil")
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
)

// BoardService defines the board operations the enrichment task needs.
// The service layer implements a superset of this interface.
type BoardService interface {
	// GetTask retrieves a board task by its ID
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// ApplyAnalysis attaches a completed analysis to the task and marks
	// enrichment as completed. Returns store.ErrTaskNotFound when the
	// task was deleted while enrichment ran.
	ApplyAnalysis(ctx context.Context, taskID uuid.UUID, analysis *domain.AIAnalysis) error

	// MarkEnrichmentFailed records that enrichment could not complete.
	MarkEnrichmentFailed(ctx context.Context, taskID uuid.UUID) error
}

// Aggregator runs the full analysis pipeline for one board task.
type Aggregator interface {
	// Analyze combines the individual generation calls into one
	// analysis. It degrades per-call failures to empty sections
	// instead of returning an error.
	Analyze(ctx context.Context, task *domain.Task) *domain.AIAnalysis
}

// enrichmentPayload represents the serialized data stored in the task
type enrichmentPayload struct {
	TaskID uuid.UUID `json:"task_id"`
}

// EnrichmentTask implements the Task interface. It runs the analysis
// pipeline for one board task and writes the result back through the
// board service.
type EnrichmentTask struct {
	id     uuid.UUID
	taskID uuid.UUID
	board  BoardService
	agg    Aggregator
	logger *slog.Logger
	status Status
}

// NewEnrichmentTask creates a new enrichment task for the given board task.
func NewEnrichmentTask(
	taskID uuid.UUID,
	board BoardService,
	agg Aggregator,
	logger *slog.Logger,
) (*EnrichmentTask, error) {
	if board == nil {
		return nil, ErrNilBoardService
	}
	if agg == nil {
		return nil, ErrNilAggregator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if taskID == uuid.Nil {
		return nil, ErrEmptyTaskID
	}

	return &EnrichmentTask{
		id:     uuid.New(),
		taskID: taskID,
		board:  board,
		agg:    agg,
		logger: logger.With("task_type", events.TypeTaskEnrichment, "board_task_id", taskID),
		status: StatusPending,
	}, nil
}

// ID returns the background task's unique identifier
func (t *EnrichmentTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *EnrichmentTask) Type() string {
	return events.TypeTaskEnrichment
}

// EntityID returns the board task this enrichment targets.
func (t *EnrichmentTask) EntityID() uuid.UUID {
	return t.taskID
}

// Payload returns the serialized task data
func (t *EnrichmentTask) Payload() []byte {
	payload := enrichmentPayload{TaskID: t.taskID}
	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *EnrichmentTask) Status() Status {
	return t.status
}

// Execute runs the analysis pipeline and applies the result. A board
// task deleted while enrichment was queued or running is not an error:
// the result is discarded so the deleted task is never written back.
func (t *EnrichmentTask) Execute(ctx context.Context) error {
	t.status = StatusProcessing

	boardTask, err := t.board.GetTask(ctx, t.taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			t.logger.Info("board task deleted before enrichment started, discarding")
			t.status = StatusCompleted
			return nil
		}
		t.status = StatusFailed
		t.markFailed(ctx)
		return err
	}

	analysis := t.agg.Analyze(ctx, boardTask)

	if err := t.board.ApplyAnalysis(ctx, t.taskID, analysis); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			t.logger.Info("board task deleted during enrichment, discarding result")
			t.status = StatusCompleted
			return nil
		}
		t.status = StatusFailed
		t.markFailed(ctx)
		return err
	}

	t.status = StatusCompleted
	return nil
}

func (t *EnrichmentTask) markFailed(ctx context.Context) {
	if err := t.board.MarkEnrichmentFailed(ctx, t.taskID); err != nil &&
		!errors.Is(err, store.ErrTaskNotFound) {
		t.logger.Error("failed to mark enrichment as failed", "error", err)
	}
}
