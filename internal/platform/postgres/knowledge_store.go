package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/platform/logger"
	"github.com/nexusboard/nexus-api/internal/store"
)

// PostgresKnowledgeStore implements the store.KnowledgeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresKnowledgeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresKnowledgeStore creates a new PostgreSQL implementation of
// the KnowledgeStore interface.
func NewPostgresKnowledgeStore(db store.DBTX, logger *slog.Logger) *PostgresKnowledgeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresKnowledgeStore{
		db:     db,
		logger: logger.With(slog.String("component", "knowledge_store")),
	}
}

// Ensure PostgresKnowledgeStore implements store.KnowledgeStore interface
var _ store.KnowledgeStore = (*PostgresKnowledgeStore)(nil)

// GetAll implements store.KnowledgeStore.GetAll
func (s *PostgresKnowledgeStore) GetAll(ctx context.Context) ([]*domain.KnowledgeResource, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, summary, tags, level, content_type, keywords,
			chapters, source_url, created_at
		FROM knowledge_resources
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query knowledge resources", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	resources := []*domain.KnowledgeResource{}
	for rows.Next() {
		var (
			resource     domain.KnowledgeResource
			tagsJSON     []byte
			keywordsJSON []byte
			chaptersJSON []byte
		)
		err := rows.Scan(
			&resource.ID,
			&resource.Title,
			&resource.Summary,
			&tagsJSON,
			&resource.Level,
			&resource.ContentType,
			&keywordsJSON,
			&chaptersJSON,
			&resource.SourceURL,
			&resource.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan knowledge resource row", slog.String("error", err.Error()))
			return nil, err
		}

		if err := unmarshalResourceJSON(&resource, tagsJSON, keywordsJSON, chaptersJSON); err != nil {
			return nil, err
		}
		resources = append(resources, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return resources, nil
}

// Create implements store.KnowledgeStore.Create
func (s *PostgresKnowledgeStore) Create(
	ctx context.Context,
	resource *domain.KnowledgeResource,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := resource.Validate(); err != nil {
		log.Warn("knowledge resource validation failed during create",
			slog.String("error", err.Error()),
			slog.String("resource_id", resource.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := json.Marshal(resource.Tags)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal tags: %v", store.ErrInvalidEntity, err)
	}
	keywords, err := json.Marshal(resource.Keywords)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal keywords: %v", store.ErrInvalidEntity, err)
	}
	chapters, err := json.Marshal(resource.Chapters)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal chapters: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO knowledge_resources (id, title, summary, tags, level,
			content_type, keywords, chapters, source_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		resource.ID,
		resource.Title,
		resource.Summary,
		tags,
		resource.Level,
		resource.ContentType,
		keywords,
		chapters,
		resource.SourceURL,
		resource.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create knowledge resource",
			slog.String("error", err.Error()),
			slog.String("resource_id", resource.ID.String()))
		return MapError(err)
	}

	log.Info("knowledge resource created",
		slog.String("resource_id", resource.ID.String()),
		slog.String("content_type", string(resource.ContentType)))
	return nil
}

// Delete implements store.KnowledgeStore.Delete
// Returns store.ErrResourceNotFound if the resource does not exist.
func (s *PostgresKnowledgeStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_resources WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete knowledge resource",
			slog.String("error", err.Error()),
			slog.String("resource_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		return store.ErrResourceNotFound
	}

	log.Info("knowledge resource deleted", slog.String("resource_id", id.String()))
	return nil
}

func unmarshalResourceJSON(
	resource *domain.KnowledgeResource,
	tagsJSON, keywordsJSON, chaptersJSON []byte,
) error {
	resource.Tags = []string{}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &resource.Tags); err != nil {
			return fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	resource.Keywords = []string{}
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &resource.Keywords); err != nil {
			return fmt.Errorf("failed to unmarshal keywords: %w", err)
		}
	}

	resource.Chapters = []domain.Chapter{}
	if len(chaptersJSON) > 0 {
		if err := json.Unmarshal(chaptersJSON, &resource.Chapters); err != nil {
			return fmt.Errorf("failed to unmarshal chapters: %w", err)
		}
	}

	return nil
}
