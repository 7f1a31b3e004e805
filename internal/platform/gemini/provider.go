package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/nexusboard/nexus-api/internal/config"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/generation"
	"google.golang.org/genai"
)

// Provider implements the generation.ContentProvider interface using
// Google's Gemini API.
type Provider struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// NewProvider creates a new Gemini-backed ContentProvider with the
// provided dependencies. Returns an error if initialization fails.
func NewProvider(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger: logger.With(slog.String("component", "gemini_provider")),
		config: cfg,
		client: client,
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
	return p.generateText(ctx, generation.SolutionDraftPrompt(task), nil)
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

// AnalyzeResource implements generation.ContentProvider. The call is
// grounded with Google Search so the model can read the URL's content.
func (p *Provider) AnalyzeResource(
	ctx context.Context,
	url string,
	resourceType domain.ResourceType,
) (*generation.ResourceAnalysis, error) {
	cfg := &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr[float32](0.2),
	}

	text, err := p.generateText(ctx, generation.AnalyzeResourcePrompt(url, resourceType), cfg)
	if err != nil {
		return nil, err
	}

	var analysis generation.ResourceAnalysis
	if err := generation.ExtractJSON(text, &analysis); err != nil {
		p.logger.Warn("failed to extract resource analysis payload",
			slog.String("error", err.Error()),
			slog.String("url", url))
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

// generateJSON requests a JSON response for the prompt and extracts the
// structured payload into v.
func (p *Provider) generateJSON(ctx context.Context, prompt string, v any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	text, err := p.generateText(ctx, prompt, cfg)
	if err != nil {
		return err
	}

	return generation.ExtractJSON(text, v)
}

// generateText makes a call to the Gemini API with exponential backoff
// retry logic for transient errors. Permanent conditions (blocked
// content, malformed responses) are returned immediately.
func (p *Provider) generateText(
	ctx context.Context,
	prompt string,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	maxRetries := p.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelaySeconds := p.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		p.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.String("model", p.model))

		resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
		if err != nil {
			// API transport errors are assumed transient and retried.
			lastErr = fmt.Errorf("%w: %v", generation.ErrProviderFailed, err)
			p.logger.WarnContext(ctx, "Gemini API call failed",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1))

			if attempt < maxRetries {
				if err := sleepWithBackoff(ctx, rng, baseDelaySeconds, attempt); err != nil {
					return "", fmt.Errorf("%w: %v", generation.ErrProviderFailed, err)
				}
			}
			continue
		}

		text, err := extractResponseText(resp)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", lastErr
}

// extractResponseText validates the response structure and concatenates
// the text parts of the first candidate.
func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text parts", generation.ErrInvalidResponse)
	}

	return text, nil
}

// sleepWithBackoff waits for an exponentially increasing delay with
// jitter, aborting early if the context is cancelled.
func sleepWithBackoff(ctx context.Context, rng *rand.Rand, baseSeconds, attempt int) error {
	delay := float64(baseSeconds) * math.Pow(2, float64(attempt))
	jitter := rng.Float64() * delay * 0.25
	wait := time.Duration((delay + jitter) * float64(time.Second))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
