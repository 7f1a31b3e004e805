package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusboard/nexus-api/internal/events"
)

func newTestHandler(t *testing.T) (*EnrichmentEventHandler, *Runner) {
	t.Helper()

	logger := testLogger()
	factory, err := NewEnrichmentTaskFactory(&mockBoardService{}, &mockAggregator{}, logger)
	require.NoError(t, err)

	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 4}, logger)
	return NewEnrichmentEventHandler(factory, runner, logger), runner
}

func TestEnrichmentEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("submits enrichment task for valid event", func(t *testing.T) {
		t.Parallel()

		handler, runner := newTestHandler(t)
		taskID := uuid.New()

		event, err := events.NewEvent(events.TypeTaskEnrichment, map[string]string{"task_id": taskID.String()})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(ctx, event))

		// The entity guard proves the task reached the runner.
		duplicate := CreateMockTaskWithPayload("dup")
		duplicate.TaskEntityID = taskID
		err = runner.Submit(ctx, duplicate)
		assert.ErrorIs(t, err, ErrAlreadyInFlight)
	})

	t.Run("ignores unrelated event types", func(t *testing.T) {
		t.Parallel()

		handler, _ := newTestHandler(t)

		event, err := events.NewEvent("something_else", map[string]string{"task_id": uuid.New().String()})
		require.NoError(t, err)

		assert.NoError(t, handler.HandleEvent(ctx, event))
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		t.Parallel()

		handler, _ := newTestHandler(t)

		event, err := events.NewEvent(events.TypeTaskEnrichment, map[string]string{"task_id": "not-a-uuid"})
		require.NoError(t, err)

		assert.Error(t, handler.HandleEvent(ctx, event))
	})

	t.Run("duplicate events collapse onto one in-flight task", func(t *testing.T) {
		t.Parallel()

		handler, _ := newTestHandler(t)
		taskID := uuid.New()

		event, err := events.NewEvent(events.TypeTaskEnrichment, map[string]string{"task_id": taskID.String()})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(ctx, event))
		assert.Error(t, handler.HandleEvent(ctx, event))
	})
}
