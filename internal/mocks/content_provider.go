package mocks

import (
	"context"
	"sync"

	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/generation"
)

// MockContentProvider implements generation.ContentProvider for testing.
// Each method delegates to the corresponding Fn field when set, otherwise
// returns the default value fields.
type MockContentProvider struct {
	GenerateExecutionPlanFn      func(ctx context.Context, task *domain.Task) ([]generation.PlanStep, error)
	GenerateAcceptanceCriteriaFn func(ctx context.Context, task *domain.Task) ([]string, error)
	GenerateSolutionDraftFn      func(ctx context.Context, task *domain.Task) (string, error)
	RecommendResourcesFn         func(ctx context.Context, task *domain.Task) ([]domain.Resource, error)
	AnalyzeResourceFn            func(ctx context.Context, url string, resourceType domain.ResourceType) (*generation.ResourceAnalysis, error)
	DraftTasksFn                 func(ctx context.Context, rawInput string) ([]generation.TaskDraft, error)

	// Default response values used when the Fn fields are nil.
	PlanSteps []generation.PlanStep
	Criteria  []string
	Draft     string
	Resources []domain.Resource
	Analysis  *generation.ResourceAnalysis
	Drafts    []generation.TaskDraft
	Err       error

	// Call tracking for verification
	mu    sync.Mutex
	calls map[string]int
}

func (m *MockContentProvider) track(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times the named method was invoked.
func (m *MockContentProvider) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// GenerateExecutionPlan implements generation.ContentProvider.
func (m *MockContentProvider) GenerateExecutionPlan(
	ctx context.Context,
	task *domain.Task,
) ([]generation.PlanStep, error) {
	m.track("GenerateExecutionPlan")
	if m.GenerateExecutionPlanFn != nil {
		return m.GenerateExecutionPlanFn(ctx, task)
	}
	return m.PlanSteps, m.Err
}

// GenerateAcceptanceCriteria implements generation.ContentProvider.
func (m *MockContentProvider) GenerateAcceptanceCriteria(
	ctx context.Context,
	task *domain.Task,
) ([]string, error) {
	m.track("GenerateAcceptanceCriteria")
	if m.GenerateAcceptanceCriteriaFn != nil {
		return m.GenerateAcceptanceCriteriaFn(ctx, task)
	}
	return m.Criteria, m.Err
}

// GenerateSolutionDraft implements generation.ContentProvider.
func (m *MockContentProvider) GenerateSolutionDraft(
	ctx context.Context,
	task *domain.Task,
) (string, error) {
	m.track("GenerateSolutionDraft")
	if m.GenerateSolutionDraftFn != nil {
		return m.GenerateSolutionDraftFn(ctx, task)
	}
	return m.Draft, m.Err
}

// RecommendResources implements generation.ContentProvider.
func (m *MockContentProvider) RecommendResources(
	ctx context.Context,
	task *domain.Task,
) ([]domain.Resource, error) {
	m.track("RecommendResources")
	if m.RecommendResourcesFn != nil {
		return m.RecommendResourcesFn(ctx, task)
	}
	return m.Resources, m.Err
}

// AnalyzeResource implements generation.ContentProvider.
func (m *MockContentProvider) AnalyzeResource(
	ctx context.Context,
	url string,
	resourceType domain.ResourceType,
) (*generation.ResourceAnalysis, error) {
	m.track("AnalyzeResource")
	if m.AnalyzeResourceFn != nil {
		return m.AnalyzeResourceFn(ctx, url, resourceType)
	}
	return m.Analysis, m.Err
}

// DraftTasks implements generation.ContentProvider.
func (m *MockContentProvider) DraftTasks(
	ctx context.Context,
	rawInput string,
) ([]generation.TaskDraft, error) {
	m.track("DraftTasks")
	if m.DraftTasksFn != nil {
		return m.DraftTasksFn(ctx, rawInput)
	}
	return m.Drafts, m.Err
}

// Verify interface compliance at compile time.
var _ generation.ContentProvider = (*MockContentProvider)(nil)
