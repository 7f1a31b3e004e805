package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/generation"
	"github.com/nexusboard/nexus-api/internal/store"
)

// KnowledgeServiceOption configures optional KnowledgeService behavior.
type KnowledgeServiceOption func(*KnowledgeService)

// WithPlaceholderFallback makes resource intake store a minimal
// placeholder resource when analysis fails, instead of surfacing the
// provider error. The placeholder keeps the URL so the user can retry
// or read the source directly.
func WithPlaceholderFallback() KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		s.placeholderFallback = true
	}
}

// KnowledgeService manages the knowledge hub: analyzed summaries of
// external resources the team wants to keep at hand.
type KnowledgeService struct {
	knowledgeStore store.KnowledgeStore
	provider       generation.ContentProvider
	logger         *slog.Logger

	placeholderFallback bool
}

// NewKnowledgeService creates a new KnowledgeService.
func NewKnowledgeService(
	knowledgeStore store.KnowledgeStore,
	provider generation.ContentProvider,
	logger *slog.Logger,
	opts ...KnowledgeServiceOption,
) (*KnowledgeService, error) {
	if knowledgeStore == nil {
		return nil, errors.New("knowledge store cannot be nil")
	}
	if provider == nil {
		return nil, errors.New("content provider cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	s := &KnowledgeService{
		knowledgeStore: knowledgeStore,
		provider:       provider,
		logger:         logger.With(slog.String("component", "knowledge_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddResourceFromURL analyzes the content behind the URL and stores the
// result as a knowledge resource. Unlike task enrichment, a failed
// analysis fails the whole intake: there is no task to fall back onto,
// only the resource itself. With the placeholder option enabled the
// failure is downgraded to a stored stub instead.
func (s *KnowledgeService) AddResourceFromURL(
	ctx context.Context,
	url string,
	resourceType domain.ResourceType,
) (*domain.KnowledgeResource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyInput
	}

	analysis, err := s.provider.AnalyzeResource(ctx, url, resourceType)
	if err != nil {
		if !s.placeholderFallback {
			return nil, NewServiceError("add_resource", "failed to analyze resource", err)
		}

		s.logger.Warn("resource analysis failed, storing placeholder",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return s.storePlaceholder(ctx, url, resourceType)
	}

	resource, err := domain.NewKnowledgeResource(
		analysis.Title,
		analysis.Summary,
		url,
		resourceType,
		analysis.Difficulty,
	)
	if err != nil {
		return nil, NewServiceError("add_resource", "analysis produced an invalid resource", err)
	}
	if len(analysis.Tags) > 0 {
		resource.Tags = analysis.Tags
	}
	if len(analysis.KeyPoints) > 0 {
		resource.Keywords = analysis.KeyPoints
	}
	if len(analysis.Chapters) > 0 {
		resource.Chapters = analysis.Chapters
	}

	if err := s.knowledgeStore.Create(ctx, resource); err != nil {
		return nil, NewServiceError("add_resource", "failed to persist resource", err)
	}

	s.logger.Info("knowledge resource added",
		slog.String("resource_id", resource.ID.String()),
		slog.String("url", url))

	return resource, nil
}

func (s *KnowledgeService) storePlaceholder(
	ctx context.Context,
	url string,
	resourceType domain.ResourceType,
) (*domain.KnowledgeResource, error) {
	resource, err := domain.NewKnowledgeResource(
		url,
		"Analysis unavailable. The source could not be summarized; open the link directly.",
		url,
		resourceType,
		domain.DifficultyIntermediate,
	)
	if err != nil {
		return nil, NewServiceError("add_resource", "failed to build placeholder resource", err)
	}

	if err := s.knowledgeStore.Create(ctx, resource); err != nil {
		return nil, NewServiceError("add_resource", "failed to persist placeholder resource", err)
	}

	return resource, nil
}

// GetAllResources returns every stored knowledge resource, newest first.
func (s *KnowledgeService) GetAllResources(ctx context.Context) ([]*domain.KnowledgeResource, error) {
	resources, err := s.knowledgeStore.GetAll(ctx)
	if err != nil {
		return nil, NewServiceError("get_resources", "failed to load resources", err)
	}
	return resources, nil
}

// DeleteResource removes a knowledge resource.
// Returns ErrResourceNotFound if the resource does not exist.
func (s *KnowledgeService) DeleteResource(ctx context.Context, id uuid.UUID) error {
	if err := s.knowledgeStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrResourceNotFound) {
			return ErrResourceNotFound
		}
		return NewServiceError("delete_resource", "failed to delete resource", err)
	}
	return nil
}
