package generation

import (
	"context"

	"github.com/nexusboard/nexus-api/internal/domain"
)

// PlanStep is one generated execution-plan entry. Providers return bare
// titles; the aggregator owns id assignment and completion state.
type PlanStep struct {
	Title string `json:"title"`
}

// TaskDraft is one AI-drafted task proposal produced from raw user input.
type TaskDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Product     string          `json:"product"`
	Type        string          `json:"type"`
	Priority    domain.Priority `json:"priority"`
}

// ResourceAnalysis is the structured result of analyzing one external
// URL. All collection fields may be empty but are never nil after a
// successful analysis.
type ResourceAnalysis struct {
	Title      string                 `json:"title"`
	Summary    string                 `json:"summary"`
	Tags       []string               `json:"tags"`
	Difficulty domain.DifficultyLevel `json:"difficulty"`
	KeyPoints  []string               `json:"keyPoints"`
	Chapters   []domain.Chapter       `json:"chapters"`
}

// ContentProvider defines the interface for generating task-related
// content from a remote generative model. Each method is an independent
// remote call that may fail on its own; callers decide whether a failure
// degrades to an empty fallback (enrichment aggregation) or propagates
// (resource intake, task drafting).
type ContentProvider interface {
	// GenerateExecutionPlan proposes an ordered checklist of steps for
	// completing the task.
	GenerateExecutionPlan(ctx context.Context, task *domain.Task) ([]PlanStep, error)

	// GenerateAcceptanceCriteria proposes definition-of-done statements
	// for the task.
	GenerateAcceptanceCriteria(ctx context.Context, task *domain.Task) ([]string, error)

	// GenerateSolutionDraft produces a markdown draft approach for the task.
	GenerateSolutionDraft(ctx context.Context, task *domain.Task) (string, error)

	// RecommendResources suggests learning references relevant to the task.
	RecommendResources(ctx context.Context, task *domain.Task) ([]domain.Resource, error)

	// AnalyzeResource summarizes the content behind an external URL into
	// a structured study card. Unlike the task-enrichment calls, a
	// failure here is a failure of the whole operation.
	AnalyzeResource(
		ctx context.Context,
		url string,
		resourceType domain.ResourceType,
	) (*ResourceAnalysis, error)

	// DraftTasks turns raw user input into a small set of polished task
	// proposals for the user to pick from.
	DraftTasks(ctx context.Context, rawInput string) ([]TaskDraft, error)
}
