package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnowledgeResource(t *testing.T) {
	t.Parallel()

	t.Run("creates resource with valid data", func(t *testing.T) {
		resource, err := NewKnowledgeResource(
			"Designing Data-Intensive Applications",
			"A deep overview of storage and distributed data systems.",
			"https://example.com/ddia",
			ResourceTypeArticle,
			DifficultyAdvanced,
		)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resource.ID)
		assert.Equal(t, DifficultyAdvanced, resource.Level)
		assert.NotNil(t, resource.Tags)
		assert.NotNil(t, resource.Keywords)
		assert.NotNil(t, resource.Chapters)
		assert.False(t, resource.CreatedAt.IsZero())
	})

	t.Run("defaults level to intermediate", func(t *testing.T) {
		resource, err := NewKnowledgeResource(
			"Intro to Go", "Short intro.", "https://example.com/go", ResourceTypeGuide, "",
		)

		require.NoError(t, err)
		assert.Equal(t, DifficultyIntermediate, resource.Level)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		resource, err := NewKnowledgeResource(
			"", "Summary.", "https://example.com", ResourceTypeArticle, DifficultyBeginner,
		)

		assert.ErrorIs(t, err, ErrEmptyResourceTitle)
		assert.Nil(t, resource)
	})

	t.Run("rejects empty source URL", func(t *testing.T) {
		resource, err := NewKnowledgeResource(
			"Title", "Summary.", "", ResourceTypeArticle, DifficultyBeginner,
		)

		assert.ErrorIs(t, err, ErrInvalidResourceURL)
		assert.Nil(t, resource)
	})
}
