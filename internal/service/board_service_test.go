package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/events"
	"github.com/nexusboard/nexus-api/internal/generation"
	"github.com/nexusboard/nexus-api/internal/mocks"
	"github.com/nexusboard/nexus-api/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type boardFixture struct {
	svc      *service.BoardService
	store    *mocks.MockTaskStore
	provider *mocks.MockContentProvider
	emitter  *mocks.MockEmitter
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	provider := &mocks.MockContentProvider{}
	emitter := &mocks.MockEmitter{}

	svc, err := service.NewBoardService(taskStore, nil, provider, emitter, testLogger())
	require.NoError(t, err)

	return &boardFixture{svc: svc, store: taskStore, provider: provider, emitter: emitter}
}

func sampleDraft() domain.TaskDraft {
	return domain.TaskDraft{
		Title:       "Ship the export pipeline",
		Description: "Replace the nightly cron with the streaming exporter",
		Product:     "data-platform",
		Type:        "engineering",
	}
}

func TestNewBoardService(t *testing.T) {
	t.Parallel()

	taskStore := mocks.NewMockTaskStore()
	provider := &mocks.MockContentProvider{}
	emitter := &mocks.MockEmitter{}
	logger := testLogger()

	testCases := []struct {
		name    string
		run     func() error
		wantErr bool
	}{
		{"valid", func() error {
			_, err := service.NewBoardService(taskStore, nil, provider, emitter, logger)
			return err
		}, false},
		{"nil store", func() error {
			_, err := service.NewBoardService(nil, nil, provider, emitter, logger)
			return err
		}, true},
		{"nil provider", func() error {
			_, err := service.NewBoardService(taskStore, nil, nil, emitter, logger)
			return err
		}, true},
		{"nil emitter", func() error {
			_, err := service.NewBoardService(taskStore, nil, provider, nil, logger)
			return err
		}, true},
		{"nil logger", func() error {
			_, err := service.NewBoardService(taskStore, nil, provider, emitter, nil)
			return err
		}, true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.run()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoardService_CreateTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("created task is immediately visible with enrichment in progress", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)

		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, domain.AIStatusProcessing, created.AIStatus)
		assert.Equal(t, domain.TaskStatusRequested, created.Status)
		assert.Equal(t, domain.PriorityMedium, created.Priority)
		assert.False(t, created.CreatedAt.IsZero())

		board := f.svc.GetAll(ctx)
		require.Len(t, board, 1)
		assert.Equal(t, created.ID, board[0].ID)
		assert.Equal(t, domain.AIStatusProcessing, board[0].AIStatus)

		// Persisted and enrichment scheduled.
		assert.NotNil(t, f.store.Stored(created.ID))
		emitted := f.emitter.Events()
		require.Len(t, emitted, 1)
		assert.Equal(t, events.TypeTaskEnrichment, emitted[0].Type)
	})

	t.Run("persist failure rolls back the optimistic insert", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		f.store.CreateFn = func(ctx context.Context, task *domain.Task) error {
			return errors.New("connection reset")
		}

		_, err := f.svc.CreateTask(ctx, sampleDraft())
		require.Error(t, err)

		assert.Empty(t, f.svc.GetAll(ctx))
		assert.Empty(t, f.emitter.Events(), "no enrichment for a task that was never persisted")
	})

	t.Run("invalid draft is rejected before any side effect", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)

		_, err := f.svc.CreateTask(ctx, domain.TaskDraft{Title: ""})
		require.Error(t, err)
		assert.Empty(t, f.svc.GetAll(ctx))
		assert.Empty(t, f.emitter.Events())
	})

	t.Run("failed emit marks enrichment failed but keeps the task", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		f.emitter.EmitEventFn = func(ctx context.Context, event *events.Event) error {
			return errors.New("queue full")
		}

		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AIStatusFailed, got.AIStatus)
	})
}

func TestBoardService_UpdateTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("successful update is visible and persisted", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		created.Title = "Ship the export pipeline v2"
		created.Priority = domain.PriorityHigh
		require.NoError(t, f.svc.UpdateTask(ctx, created))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ship the export pipeline v2", got.Title)
		assert.Equal(t, domain.PriorityHigh, got.Priority)
		assert.Equal(t, "Ship the export pipeline v2", f.store.Stored(created.ID).Title)
	})

	t.Run("unknown task surfaces not found", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		ghost, err := domain.NewTask(sampleDraft())
		require.NoError(t, err)

		err = f.svc.UpdateTask(ctx, ghost)
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("persist failure reloads board state from the store", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)
		originalTitle := created.Title

		f.store.UpdateFn = func(ctx context.Context, task *domain.Task) error {
			return errors.New("write timeout")
		}

		modified := created.Clone()
		modified.Title = "never persisted"
		require.Error(t, f.svc.UpdateTask(ctx, modified))

		// The optimistic change must not survive the failed write.
		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, originalTitle, got.Title)
	})
}

func TestBoardService_UpdateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("moves the task and persists", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		require.NoError(t, f.svc.UpdateStatus(ctx, created.ID, domain.TaskStatusWIP))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusWIP, got.Status)
		assert.Equal(t, domain.TaskStatusWIP, f.store.Stored(created.ID).Status)
	})

	t.Run("repeating the same status succeeds", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		require.NoError(t, f.svc.UpdateStatus(ctx, created.ID, domain.TaskStatusWIP))
		require.NoError(t, f.svc.UpdateStatus(ctx, created.ID, domain.TaskStatusWIP))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusWIP, got.Status)
	})

	t.Run("invalid status is rejected and board unchanged", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		err = f.svc.UpdateStatus(ctx, created.ID, domain.TaskStatus("LIMBO"))
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusRequested, got.Status)
	})

	t.Run("persist failure reloads from the store", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		f.store.UpdateStatusFn = func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
			return errors.New("write timeout")
		}

		require.Error(t, f.svc.UpdateStatus(ctx, created.ID, domain.TaskStatusDone))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusRequested, got.Status)
	})
}

func TestBoardService_DeleteTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("removes the task from board and store", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTask(ctx, created.ID))

		_, err = f.svc.GetTask(ctx, created.ID)
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Nil(t, f.store.Stored(created.ID))
	})

	t.Run("unknown task surfaces not found", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		err := f.svc.DeleteTask(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("persist failure restores the task from the store", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		f.store.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
			return errors.New("write timeout")
		}

		require.Error(t, f.svc.DeleteTask(ctx, created.ID))

		// The optimistic removal is undone by the reload.
		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})
}

func TestBoardService_ApplyAnalysis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	analysisWithPlan := func() *domain.AIAnalysis {
		analysis := domain.NewEmptyAnalysis()
		analysis.ExecutionPlan = []domain.Subtask{
			{ID: uuid.New(), Title: "step one"},
			{ID: uuid.New(), Title: "step two"},
		}
		analysis.AcceptanceCriteria = []domain.AcceptanceCriterion{
			{ID: uuid.New(), Content: "done means done"},
		}
		analysis.SolutionDraft = "a draft"
		return analysis
	}

	t.Run("marks enrichment completed and replaces subtasks", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		require.NoError(t, f.svc.ApplyAnalysis(ctx, created.ID, analysisWithPlan()))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AIStatusCompleted, got.AIStatus)
		require.NotNil(t, got.AIAnalysis)
		assert.Len(t, got.Subtasks, 2)
		assert.Equal(t, "step one", got.Subtasks[0].Title)

		// Mirrored to the store as well.
		assert.Equal(t, domain.AIStatusCompleted, f.store.Stored(created.ID).AIStatus)
	})

	t.Run("empty execution plan preserves existing subtasks", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		draft := sampleDraft()
		draft.Subtasks = []domain.Subtask{{ID: uuid.New(), Title: "manual step"}}
		created, err := f.svc.CreateTask(ctx, draft)
		require.NoError(t, err)

		require.NoError(t, f.svc.ApplyAnalysis(ctx, created.ID, domain.NewEmptyAnalysis()))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AIStatusCompleted, got.AIStatus)
		require.Len(t, got.Subtasks, 1)
		assert.Equal(t, "manual step", got.Subtasks[0].Title)
	})

	t.Run("deleted task is never resurrected", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTask(ctx, created.ID))

		err = f.svc.ApplyAnalysis(ctx, created.ID, analysisWithPlan())
		assert.ErrorIs(t, err, service.ErrTaskNotFound)

		assert.Empty(t, f.svc.GetAll(ctx))
		assert.Nil(t, f.store.Stored(created.ID))
	})

	t.Run("store-side deletion drops the stale board entry", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		// Simulate the row vanishing behind the orchestrator's back.
		require.NoError(t, f.store.Delete(ctx, created.ID))

		err = f.svc.ApplyAnalysis(ctx, created.ID, analysisWithPlan())
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Empty(t, f.svc.GetAll(ctx))
	})
}

func TestBoardService_MarkEnrichmentFailed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("marks failed exactly once and persists", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)

		require.NoError(t, f.svc.MarkEnrichmentFailed(ctx, created.ID))

		got, err := f.svc.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AIStatusFailed, got.AIStatus)
		assert.Equal(t, domain.AIStatusFailed, f.store.Stored(created.ID).AIStatus)
	})

	t.Run("deleted task is not written back", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		created, err := f.svc.CreateTask(ctx, sampleDraft())
		require.NoError(t, err)
		require.NoError(t, f.svc.DeleteTask(ctx, created.ID))

		err = f.svc.MarkEnrichmentFailed(ctx, created.ID)
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Empty(t, f.svc.GetAll(ctx))
	})
}

func TestBoardService_DraftTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns provider drafts", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		f.provider.Drafts = []generation.TaskDraft{
			{Title: "Draft A", Description: "first", Priority: domain.PriorityHigh},
			{Title: "Draft B", Description: "second", Priority: domain.PriorityLow},
		}

		drafts, err := f.svc.DraftTasks(ctx, "we should fix the exporter somehow")
		require.NoError(t, err)
		assert.Len(t, drafts, 2)
	})

	t.Run("blank input is rejected", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		_, err := f.svc.DraftTasks(ctx, "   ")
		assert.ErrorIs(t, err, service.ErrEmptyInput)
	})

	t.Run("provider failure propagates wrapped", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		f.provider.Err = generation.ErrProviderFailed

		_, err := f.svc.DraftTasks(ctx, "anything")
		assert.ErrorIs(t, err, generation.ErrProviderFailed)
	})
}

func TestBoardService_Resync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads store contents into the board", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)

		seeded, err := domain.NewTask(sampleDraft())
		require.NoError(t, err)
		f.store.Seed(seeded)

		require.NoError(t, f.svc.Resync(ctx))

		board := f.svc.GetAll(ctx)
		require.Len(t, board, 1)
		assert.Equal(t, seeded.ID, board[0].ID)
	})

	t.Run("store failure leaves an error", func(t *testing.T) {
		t.Parallel()

		f := newBoardFixture(t)
		f.store.GetAllFn = func(ctx context.Context) ([]*domain.Task, error) {
			return nil, errors.New("connection refused")
		}

		assert.Error(t, f.svc.Resync(ctx))
	})
}
