package task

import (
	"log/slog"

	"github.com/google/uuid"
)

// EnrichmentTaskFactory creates EnrichmentTask instances with their
// dependencies pre-bound, so event handlers only need a board task id.
type EnrichmentTaskFactory struct {
	board  BoardService
	agg    Aggregator
	logger *slog.Logger
}

// NewEnrichmentTaskFactory creates a new factory for enrichment tasks.
func NewEnrichmentTaskFactory(
	board BoardService,
	agg Aggregator,
	logger *slog.Logger,
) (*EnrichmentTaskFactory, error) {
	if board == nil {
		return nil, ErrNilBoardService
	}
	if agg == nil {
		return nil, ErrNilAggregator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &EnrichmentTaskFactory{
		board:  board,
		agg:    agg,
		logger: logger,
	}, nil
}

// CreateTask creates a new EnrichmentTask for the specified board task.
func (f *EnrichmentTaskFactory) CreateTask(taskID uuid.UUID) (Task, error) {
	return NewEnrichmentTask(taskID, f.board, f.agg, f.logger)
}
