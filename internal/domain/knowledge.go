package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResourceType classifies the kind of external content a knowledge
// resource was built from.
type ResourceType string

// Possible resource type values
const (
	ResourceTypeVideo   ResourceType = "VIDEO"
	ResourceTypeArticle ResourceType = "ARTICLE"
	ResourceTypeGuide   ResourceType = "GUIDE"
)

// DifficultyLevel grades a knowledge resource for its audience.
type DifficultyLevel string

// Possible difficulty values
const (
	DifficultyBeginner     DifficultyLevel = "Beginner"
	DifficultyIntermediate DifficultyLevel = "Intermediate"
	DifficultyAdvanced     DifficultyLevel = "Advanced"
)

// Common validation errors for KnowledgeResource
var (
	ErrEmptyResourceID    = errors.New("knowledge resource ID cannot be empty")
	ErrEmptyResourceTitle = errors.New("knowledge resource title cannot be empty")
	ErrInvalidResourceURL = errors.New("knowledge resource source URL cannot be empty")
)

// Chapter is one section marker inside an analyzed resource, typically a
// timestamp for videos or a heading for articles.
type Chapter struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
}

// KnowledgeResource is the stored summary of an external URL analyzed by
// the content provider: a title, a short summary, categorization tags,
// and search-oriented keywords and chapters.
type KnowledgeResource struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Tags        []string        `json:"tags"`
	Level       DifficultyLevel `json:"level"`
	ContentType ResourceType    `json:"content_type"`
	Keywords    []string        `json:"keywords"`
	Chapters    []Chapter       `json:"chapters"`
	SourceURL   string          `json:"source_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewKnowledgeResource creates a KnowledgeResource for the given source
// URL. It generates a new UUID, normalizes nil collections to empty
// slices, and stamps the creation time.
// Returns an error if validation fails.
func NewKnowledgeResource(
	title, summary, sourceURL string,
	contentType ResourceType,
	level DifficultyLevel,
) (*KnowledgeResource, error) {
	resource := &KnowledgeResource{
		ID:          uuid.New(),
		Title:       title,
		Summary:     summary,
		Tags:        []string{},
		Level:       level,
		ContentType: contentType,
		Keywords:    []string{},
		Chapters:    []Chapter{},
		SourceURL:   sourceURL,
		CreatedAt:   time.Now().UTC(),
	}

	if resource.Level == "" {
		resource.Level = DifficultyIntermediate
	}

	if err := resource.Validate(); err != nil {
		return nil, err
	}

	return resource, nil
}

// Validate checks if the KnowledgeResource has valid data.
func (r *KnowledgeResource) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyResourceID
	}

	if r.Title == "" {
		return ErrEmptyResourceTitle
	}

	if r.SourceURL == "" {
		return ErrInvalidResourceURL
	}

	return nil
}
