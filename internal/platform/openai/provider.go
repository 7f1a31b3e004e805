// Package openai implements the generation.ContentProvider interface
// using the OpenAI chat completions API. It is an alternative backend to
// the gemini package, selected through the llm.provider configuration.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexusboard/nexus-api/internal/config"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/generation"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Provider implements generation.ContentProvider over the OpenAI API.
type Provider struct {
	logger *slog.Logger
	client openai.Client
	model  string
}

// NewProvider creates a new OpenAI-backed ContentProvider.
func NewProvider(logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	return &Provider{
		logger: logger.With(slog.String("component", "openai_provider")),
		client: openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		model:  cfg.ModelName,
	}, nil
}

// Ensure Provider implements generation.ContentProvider
var _ generation.ContentProvider = (*Provider)(nil)

// GenerateExecutionPlan implements generation.ContentProvider.
func (p *Provider) GenerateExecutionPlan(
	ctx context.Context,
	task *domain.Task,
) ([]generation.PlanStep, error) {
	var steps []generation.PlanStep
	if err := p.generateJSON(ctx, generation.ExecutionPlanPrompt(task), &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// GenerateAcceptanceCriteria implements generation.ContentProvider.
func (p *Provider) GenerateAcceptanceCriteria(
	ctx context.Context,
	task *domain.Task,
) ([]string, error) {
	var criteria []string
	if err := p.generateJSON(ctx, generation.AcceptanceCriteriaPrompt(task), &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

// GenerateSolutionDraft implements generation.ContentProvider.
func (p *Provider) GenerateSolutionDraft(
	ctx context.Context,
	task *domain.Task,
) (string, error) {
	return p.complete(ctx, generation.SolutionDraftPrompt(task))
}

// RecommendResources implements generation.ContentProvider.
func (p *Provider) RecommendResources(
	ctx context.Context,
	task *domain.Task,
) ([]domain.Resource, error) {
	var resources []domain.Resource
	if err := p.generateJSON(ctx, generation.RecommendResourcesPrompt(task), &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// AnalyzeResource implements generation.ContentProvider. The OpenAI
// backend has no search grounding, so the analysis relies on the model's
// knowledge of the URL's content.
func (p *Provider) AnalyzeResource(
	ctx context.Context,
	url string,
	resourceType domain.ResourceType,
) (*generation.ResourceAnalysis, error) {
	var analysis generation.ResourceAnalysis
	if err := p.generateJSON(ctx, generation.AnalyzeResourcePrompt(url, resourceType), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// DraftTasks implements generation.ContentProvider.
func (p *Provider) DraftTasks(
	ctx context.Context,
	rawInput string,
) ([]generation.TaskDraft, error) {
	if rawInput == "" {
		return nil, fmt.Errorf("%w: raw input cannot be empty", generation.ErrInvalidResponse)
	}

	var drafts []generation.TaskDraft
	if err := p.generateJSON(ctx, generation.DraftTasksPrompt(rawInput), &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// generateJSON completes the prompt and extracts the structured payload into v.
func (p *Provider) generateJSON(ctx context.Context, prompt string, v any) error {
	text, err := p.complete(ctx, prompt)
	if err != nil {
		return err
	}
	return generation.ExtractJSON(text, v)
}

// complete performs a single chat completion and returns the response text.
func (p *Provider) complete(ctx context.Context, prompt string) (string, error) {
	p.logger.DebugContext(ctx, "calling OpenAI API", slog.String("model", p.model))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(p.model),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "OpenAI API call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", generation.ErrProviderFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
