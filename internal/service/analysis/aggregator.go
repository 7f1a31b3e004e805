// Package analysis consolidates the independent content-generation calls
// for one task into a single AIAnalysis value. Each sub-call runs
// concurrently and fails independently; a failed call contributes its
// empty fallback to the result instead of failing the whole run.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/generation"
)

// Aggregator fans enrichment work out across the configured
// ContentProvider and joins the results.
type Aggregator struct {
	provider generation.ContentProvider
	logger   *slog.Logger
}

// NewAggregator creates a new Aggregator with the given dependencies.
func NewAggregator(provider generation.ContentProvider, logger *slog.Logger) (*Aggregator, error) {
	if provider == nil {
		return nil, errors.New("content provider cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Aggregator{
		provider: provider,
		logger:   logger.With(slog.String("component", "analysis_aggregator")),
	}, nil
}

// Analyze runs the four enrichment calls for the task concurrently and
// returns the combined analysis. It never returns an error from an
// individual provider call: each failure is logged and replaced by that
// field's empty value, so the worst case is a structurally complete but
// empty analysis. Collection fields in the result are never nil.
func (a *Aggregator) Analyze(ctx context.Context, task *domain.Task) *domain.AIAnalysis {
	log := a.logger.With(slog.String("task_id", task.ID.String()))

	var (
		wg       sync.WaitGroup
		plan     []generation.PlanStep
		criteria []string
		draft    string
		refs     []domain.Resource
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		result, err := a.provider.GenerateExecutionPlan(ctx, task)
		if err != nil {
			log.Warn("execution plan generation failed, using empty fallback",
				slog.String("error", err.Error()))
			return
		}
		plan = result
	}()

	go func() {
		defer wg.Done()
		result, err := a.provider.GenerateAcceptanceCriteria(ctx, task)
		if err != nil {
			log.Warn("acceptance criteria generation failed, using empty fallback",
				slog.String("error", err.Error()))
			return
		}
		criteria = result
	}()

	go func() {
		defer wg.Done()
		result, err := a.provider.GenerateSolutionDraft(ctx, task)
		if err != nil {
			log.Warn("solution draft generation failed, using empty fallback",
				slog.String("error", err.Error()))
			return
		}
		draft = result
	}()

	go func() {
		defer wg.Done()
		result, err := a.provider.RecommendResources(ctx, task)
		if err != nil {
			log.Warn("resource recommendation failed, using empty fallback",
				slog.String("error", err.Error()))
			return
		}
		refs = result
	}()

	wg.Wait()

	analysis := &domain.AIAnalysis{
		ExecutionPlan:      subtasksFromPlan(plan),
		AcceptanceCriteria: criteriaFromContent(criteria),
		SolutionDraft:      draft,
		LearningResources:  refs,
		LastUpdated:        time.Now().UTC(),
	}
	if analysis.LearningResources == nil {
		analysis.LearningResources = []domain.Resource{}
	}

	log.Debug("analysis aggregation complete",
		slog.Int("plan_steps", len(analysis.ExecutionPlan)),
		slog.Int("criteria", len(analysis.AcceptanceCriteria)),
		slog.Int("resources", len(analysis.LearningResources)),
		slog.Bool("has_draft", analysis.SolutionDraft != ""))

	return analysis
}

// subtasksFromPlan converts generated plan steps into fresh subtasks.
// Each subtask gets a new id here so retried enrichments never reuse
// ids from an earlier run.
func subtasksFromPlan(steps []generation.PlanStep) []domain.Subtask {
	subtasks := make([]domain.Subtask, 0, len(steps))
	for _, step := range steps {
		if step.Title == "" {
			continue
		}
		subtasks = append(subtasks, domain.Subtask{
			ID:        uuid.New(),
			Title:     step.Title,
			Completed: false,
		})
	}
	return subtasks
}

func criteriaFromContent(contents []string) []domain.AcceptanceCriterion {
	criteria := make([]domain.AcceptanceCriterion, 0, len(contents))
	for _, content := range contents {
		if content == "" {
			continue
		}
		criteria = append(criteria, domain.AcceptanceCriterion{
			ID:      uuid.New(),
			Content: content,
			Checked: false,
		})
	}
	return criteria
}
