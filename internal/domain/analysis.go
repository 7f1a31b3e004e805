package domain

import (
	"time"

	"github.com/google/uuid"
)

// AcceptanceCriterion is a single definition-of-done item owned by its
// task's analysis. The checked flag is toggled by the user, not the AI.
type AcceptanceCriterion struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	Checked bool      `json:"checked"`
}

// Resource is a recommended learning reference attached to an analysis.
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// AIAnalysis is the consolidated result of one enrichment run. It is a
// value object: an analysis is always replaced wholesale, never patched
// field by field, so a late enrichment result can never interleave with
// a concurrent user edit of a previous analysis.
type AIAnalysis struct {
	ExecutionPlan      []Subtask             `json:"execution_plan"`
	AcceptanceCriteria []AcceptanceCriterion `json:"acceptance_criteria"`
	SolutionDraft      string                `json:"solution_draft"`
	LearningResources  []Resource            `json:"learning_resources"`
	LastUpdated        time.Time             `json:"last_updated"`
}

// NewEmptyAnalysis returns a structurally complete analysis with empty
// content for every field. Aggregation degrades toward this value as
// individual provider calls fail.
func NewEmptyAnalysis() *AIAnalysis {
	return &AIAnalysis{
		ExecutionPlan:      []Subtask{},
		AcceptanceCriteria: []AcceptanceCriterion{},
		SolutionDraft:      "",
		LearningResources:  []Resource{},
		LastUpdated:        time.Now().UTC(),
	}
}
