package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/events"
)

// EnrichmentEventHandler implements the events.Handler interface. It
// turns enrichment-request events emitted by the service layer into
// EnrichmentTask instances and submits them to the runner.
type EnrichmentEventHandler struct {
	factory *EnrichmentTaskFactory
	runner  *Runner
	logger  *slog.Logger
}

// NewEnrichmentEventHandler creates a handler that builds enrichment
// tasks with the given factory and submits them to the given runner.
func NewEnrichmentEventHandler(
	factory *EnrichmentTaskFactory,
	runner *Runner,
	logger *slog.Logger,
) *EnrichmentEventHandler {
	return &EnrichmentEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "enrichment_event_handler"),
	}
}

// HandleEvent processes enrichment-request events. Events of any other
// type are ignored so additional handlers can share the same emitter.
func (h *EnrichmentEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeTaskEnrichment {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		TaskID string `json:"task_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		h.logger.Error("invalid task ID in payload",
			"error", err,
			"task_id", payload.TaskID,
			"event_id", event.ID)
		return fmt.Errorf("invalid task ID: %w", err)
	}

	t, err := h.factory.CreateTask(taskID)
	if err != nil {
		h.logger.Error("failed to create enrichment task",
			"error", err,
			"board_task_id", taskID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create enrichment task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit enrichment task",
			"error", err,
			"task_id", t.ID(),
			"board_task_id", taskID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit enrichment task: %w", err)
	}

	h.logger.Info("enrichment task submitted",
		"task_id", t.ID(),
		"board_task_id", taskID,
		"event_id", event.ID)
	return nil
}

// Ensure EnrichmentEventHandler implements events.Handler
var _ events.Handler = (*EnrichmentEventHandler)(nil)
