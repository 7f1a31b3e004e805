package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/events"
	"github.com/nexusboard/nexus-api/internal/store"
)

// mockBoardService implements the BoardService interface for testing
type mockBoardService struct {
	GetTaskFn              func(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	ApplyAnalysisFn        func(ctx context.Context, taskID uuid.UUID, analysis *domain.AIAnalysis) error
	MarkEnrichmentFailedFn func(ctx context.Context, taskID uuid.UUID) error

	applied      *domain.AIAnalysis
	markedFailed bool
}

func (m *mockBoardService) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, taskID)
	}
	return &domain.Task{ID: taskID, Title: "t", AIStatus: domain.AIStatusProcessing}, nil
}

func (m *mockBoardService) ApplyAnalysis(
	ctx context.Context,
	taskID uuid.UUID,
	analysis *domain.AIAnalysis,
) error {
	if m.ApplyAnalysisFn != nil {
		return m.ApplyAnalysisFn(ctx, taskID, analysis)
	}
	m.applied = analysis
	return nil
}

func (m *mockBoardService) MarkEnrichmentFailed(ctx context.Context, taskID uuid.UUID) error {
	m.markedFailed = true
	if m.MarkEnrichmentFailedFn != nil {
		return m.MarkEnrichmentFailedFn(ctx, taskID)
	}
	return nil
}

// mockAggregator implements the Aggregator interface for testing
type mockAggregator struct {
	AnalyzeFn func(ctx context.Context, task *domain.Task) *domain.AIAnalysis
	calls     int
}

func (m *mockAggregator) Analyze(ctx context.Context, task *domain.Task) *domain.AIAnalysis {
	m.calls++
	if m.AnalyzeFn != nil {
		return m.AnalyzeFn(ctx, task)
	}
	return domain.NewEmptyAnalysis()
}

func TestNewEnrichmentTask(t *testing.T) {
	t.Parallel()

	logger := testLogger()
	board := &mockBoardService{}
	agg := &mockAggregator{}
	taskID := uuid.New()

	testCases := []struct {
		name    string
		taskID  uuid.UUID
		board   BoardService
		agg     Aggregator
		wantErr error
	}{
		{"valid", taskID, board, agg, nil},
		{"nil board service", taskID, nil, agg, ErrNilBoardService},
		{"nil aggregator", taskID, board, nil, ErrNilAggregator},
		{"empty task id", uuid.Nil, board, agg, ErrEmptyTaskID},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			enrichment, err := NewEnrichmentTask(tc.taskID, tc.board, tc.agg, logger)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, enrichment.ID())
			assert.Equal(t, events.TypeTaskEnrichment, enrichment.Type())
			assert.Equal(t, tc.taskID, enrichment.EntityID())
			assert.Equal(t, StatusPending, enrichment.Status())
		})
	}

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewEnrichmentTask(taskID, board, agg, nil)
		assert.ErrorIs(t, err, ErrNilLogger)
	})
}

func TestEnrichmentTask_Execute(t *testing.T) {
	t.Parallel()

	logger := testLogger()
	ctx := context.Background()

	t.Run("applies analysis on success", func(t *testing.T) {
		t.Parallel()

		board := &mockBoardService{}
		agg := &mockAggregator{}

		enrichment, err := NewEnrichmentTask(uuid.New(), board, agg, logger)
		require.NoError(t, err)

		require.NoError(t, enrichment.Execute(ctx))
		assert.Equal(t, StatusCompleted, enrichment.Status())
		assert.Equal(t, 1, agg.calls)
		assert.NotNil(t, board.applied)
		assert.False(t, board.markedFailed)
	})

	t.Run("deleted before start is a clean no-op", func(t *testing.T) {
		t.Parallel()

		board := &mockBoardService{
			GetTaskFn: func(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		agg := &mockAggregator{}

		enrichment, err := NewEnrichmentTask(uuid.New(), board, agg, logger)
		require.NoError(t, err)

		require.NoError(t, enrichment.Execute(ctx))
		assert.Equal(t, StatusCompleted, enrichment.Status())
		assert.Equal(t, 0, agg.calls)
		assert.False(t, board.markedFailed)
	})

	t.Run("deleted during enrichment discards the result", func(t *testing.T) {
		t.Parallel()

		board := &mockBoardService{
			ApplyAnalysisFn: func(ctx context.Context, taskID uuid.UUID, analysis *domain.AIAnalysis) error {
				return store.ErrTaskNotFound
			},
		}
		agg := &mockAggregator{}

		enrichment, err := NewEnrichmentTask(uuid.New(), board, agg, logger)
		require.NoError(t, err)

		require.NoError(t, enrichment.Execute(ctx))
		assert.Equal(t, StatusCompleted, enrichment.Status())
		assert.False(t, board.markedFailed)
	})

	t.Run("fetch failure marks enrichment failed", func(t *testing.T) {
		t.Parallel()

		fetchErr := errors.New("connection refused")
		board := &mockBoardService{
			GetTaskFn: func(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
				return nil, fetchErr
			},
		}

		enrichment, err := NewEnrichmentTask(uuid.New(), board, &mockAggregator{}, logger)
		require.NoError(t, err)

		err = enrichment.Execute(ctx)
		assert.ErrorIs(t, err, fetchErr)
		assert.Equal(t, StatusFailed, enrichment.Status())
		assert.True(t, board.markedFailed)
	})

	t.Run("apply failure marks enrichment failed", func(t *testing.T) {
		t.Parallel()

		applyErr := errors.New("write failed")
		board := &mockBoardService{
			ApplyAnalysisFn: func(ctx context.Context, taskID uuid.UUID, analysis *domain.AIAnalysis) error {
				return applyErr
			},
		}

		enrichment, err := NewEnrichmentTask(uuid.New(), board, &mockAggregator{}, logger)
		require.NoError(t, err)

		err = enrichment.Execute(ctx)
		assert.ErrorIs(t, err, applyErr)
		assert.Equal(t, StatusFailed, enrichment.Status())
		assert.True(t, board.markedFailed)
	})
}

func TestEnrichmentTask_Payload(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	enrichment, err := NewEnrichmentTask(taskID, &mockBoardService{}, &mockAggregator{}, testLogger())
	require.NoError(t, err)

	payload := enrichment.Payload()
	assert.Contains(t, string(payload), taskID.String())
}
