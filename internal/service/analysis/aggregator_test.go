package analysis_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/generation"
	"github.com/nexusboard/nexus-api/internal/mocks"
	"github.com/nexusboard/nexus-api/internal/service/analysis"
)

func newTestTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.TaskDraft{
		Title:       "Migrate billing exports",
		Description: "Move nightly exports to the new pipeline",
		Product:     "billing",
	})
	require.NoError(t, err)
	return task
}

func TestNewAggregator(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("requires provider", func(t *testing.T) {
		t.Parallel()
		_, err := analysis.NewAggregator(nil, logger)
		assert.Error(t, err)
	})

	t.Run("requires logger", func(t *testing.T) {
		t.Parallel()
		_, err := analysis.NewAggregator(&mocks.MockContentProvider{}, nil)
		assert.Error(t, err)
	})

	t.Run("succeeds with dependencies", func(t *testing.T) {
		t.Parallel()
		agg, err := analysis.NewAggregator(&mocks.MockContentProvider{}, logger)
		require.NoError(t, err)
		assert.NotNil(t, agg)
	})
}

func TestAnalyzeCombinesAllSections(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockContentProvider{
		PlanSteps: []generation.PlanStep{
			{Title: "Inventory current exports"},
			{Title: "Backfill historical data"},
		},
		Criteria: []string{"All exports land within the SLA window"},
		Draft:    "## Approach\nStart with a shadow run.",
		Resources: []domain.Resource{
			{Title: "Pipeline runbook", URL: "https://example.com/runbook"},
		},
	}

	agg, err := analysis.NewAggregator(provider, slog.Default())
	require.NoError(t, err)

	result := agg.Analyze(context.Background(), newTestTask(t))

	require.Len(t, result.ExecutionPlan, 2)
	assert.Equal(t, "Inventory current exports", result.ExecutionPlan[0].Title)
	assert.False(t, result.ExecutionPlan[0].Completed)
	require.Len(t, result.AcceptanceCriteria, 1)
	assert.False(t, result.AcceptanceCriteria[0].Checked)
	assert.Equal(t, "## Approach\nStart with a shadow run.", result.SolutionDraft)
	require.Len(t, result.LearningResources, 1)
	assert.False(t, result.LastUpdated.IsZero())
}

func TestAnalyzeAssignsFreshIDs(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockContentProvider{
		PlanSteps: []generation.PlanStep{{Title: "a"}, {Title: "b"}},
		Criteria:  []string{"c1", "c2"},
	}

	agg, err := analysis.NewAggregator(provider, slog.Default())
	require.NoError(t, err)

	first := agg.Analyze(context.Background(), newTestTask(t))
	second := agg.Analyze(context.Background(), newTestTask(t))

	assert.NotEqual(t, first.ExecutionPlan[0].ID, first.ExecutionPlan[1].ID)
	assert.NotEqual(t, first.ExecutionPlan[0].ID, second.ExecutionPlan[0].ID)
	assert.NotEqual(t, first.AcceptanceCriteria[0].ID, second.AcceptanceCriteria[0].ID)
}

func TestAnalyzePartialFailure(t *testing.T) {
	t.Parallel()

	callErr := errors.New("model overloaded")

	t.Run("single failed call degrades to empty section", func(t *testing.T) {
		t.Parallel()

		provider := &mocks.MockContentProvider{
			GenerateExecutionPlanFn: func(ctx context.Context, task *domain.Task) ([]generation.PlanStep, error) {
				return nil, callErr
			},
			Criteria:  []string{"still works"},
			Draft:     "draft survives",
			Resources: []domain.Resource{{Title: "ref", URL: "https://example.com"}},
		}

		agg, err := analysis.NewAggregator(provider, slog.Default())
		require.NoError(t, err)

		result := agg.Analyze(context.Background(), newTestTask(t))

		assert.Empty(t, result.ExecutionPlan)
		assert.NotNil(t, result.ExecutionPlan)
		assert.Len(t, result.AcceptanceCriteria, 1)
		assert.Equal(t, "draft survives", result.SolutionDraft)
		assert.Len(t, result.LearningResources, 1)
	})

	t.Run("three failed calls keep the surviving section", func(t *testing.T) {
		t.Parallel()

		provider := &mocks.MockContentProvider{
			GenerateExecutionPlanFn: func(ctx context.Context, task *domain.Task) ([]generation.PlanStep, error) {
				return nil, callErr
			},
			GenerateAcceptanceCriteriaFn: func(ctx context.Context, task *domain.Task) ([]string, error) {
				return nil, callErr
			},
			RecommendResourcesFn: func(ctx context.Context, task *domain.Task) ([]domain.Resource, error) {
				return nil, callErr
			},
			Draft: "only the draft came back",
		}

		agg, err := analysis.NewAggregator(provider, slog.Default())
		require.NoError(t, err)

		result := agg.Analyze(context.Background(), newTestTask(t))

		assert.Empty(t, result.ExecutionPlan)
		assert.Empty(t, result.AcceptanceCriteria)
		assert.Empty(t, result.LearningResources)
		assert.NotNil(t, result.LearningResources)
		assert.Equal(t, "only the draft came back", result.SolutionDraft)
	})

	t.Run("all calls failing still yields a complete value", func(t *testing.T) {
		t.Parallel()

		provider := &mocks.MockContentProvider{Err: callErr}

		agg, err := analysis.NewAggregator(provider, slog.Default())
		require.NoError(t, err)

		result := agg.Analyze(context.Background(), newTestTask(t))

		require.NotNil(t, result)
		assert.NotNil(t, result.ExecutionPlan)
		assert.NotNil(t, result.AcceptanceCriteria)
		assert.NotNil(t, result.LearningResources)
		assert.Empty(t, result.SolutionDraft)
		assert.False(t, result.LastUpdated.IsZero())
	})
}

func TestAnalyzeSkipsBlankEntries(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockContentProvider{
		PlanSteps: []generation.PlanStep{{Title: ""}, {Title: "real step"}},
		Criteria:  []string{"", "real criterion"},
	}

	agg, err := analysis.NewAggregator(provider, slog.Default())
	require.NoError(t, err)

	result := agg.Analyze(context.Background(), newTestTask(t))

	require.Len(t, result.ExecutionPlan, 1)
	assert.Equal(t, "real step", result.ExecutionPlan[0].Title)
	require.Len(t, result.AcceptanceCriteria, 1)
	assert.Equal(t, "real criterion", result.AcceptanceCriteria[0].Content)
}

func TestAnalyzeCallsEachProviderMethodOnce(t *testing.T) {
	t.Parallel()

	provider := &mocks.MockContentProvider{}
	agg, err := analysis.NewAggregator(provider, slog.Default())
	require.NoError(t, err)

	agg.Analyze(context.Background(), newTestTask(t))

	assert.Equal(t, 1, provider.Calls("GenerateExecutionPlan"))
	assert.Equal(t, 1, provider.Calls("GenerateAcceptanceCriteria"))
	assert.Equal(t, 1, provider.Calls("GenerateSolutionDraft"))
	assert.Equal(t, 1, provider.Calls("RecommendResources"))
}
