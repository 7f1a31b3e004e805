package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: nil,
		},
		{
			name:     "no rows maps to not found",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "unique violation maps to invalid entity",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tasks_pkey"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "check violation maps to invalid entity",
			err:      &pgconn.PgError{Code: checkViolationCode},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "not null violation maps to invalid entity",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "generic error maps to not persisted",
			err:      errors.New("connection reset"),
			expected: store.ErrNotPersisted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			if tt.expected == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tt.expected)
		})
	}
}

func TestTaskJSONRoundTrip(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		ID:          uuid.New(),
		Title:       "Write onboarding guide",
		Description: "Step-by-step guide for new team members",
		Product:     "Docs",
		Type:        "Content",
		Priority:    domain.PriorityLow,
		Status:      domain.TaskStatusWIP,
		DueDate:     time.Now().UTC().Truncate(time.Second),
		AssigneeID:  "u1",
		RequesterID: "u2",
		Subtasks: []domain.Subtask{
			{ID: uuid.New(), Title: "outline", Completed: true},
			{ID: uuid.New(), Title: "draft", Completed: false},
		},
		AIAnalysis: &domain.AIAnalysis{
			ExecutionPlan:      []domain.Subtask{{ID: uuid.New(), Title: "review"}},
			AcceptanceCriteria: []domain.AcceptanceCriterion{{ID: uuid.New(), Content: "published"}},
			SolutionDraft:      "### Outline",
			LearningResources:  []domain.Resource{{Title: "Guide", URL: "https://example.com"}},
			LastUpdated:        time.Now().UTC().Truncate(time.Second),
		},
		AIStatus:  domain.AIStatusCompleted,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	subtasksJSON, analysisJSON, err := marshalTaskJSON(task)
	require.NoError(t, err)
	require.NotNil(t, analysisJSON)

	// Simulate the column order the SELECT queries use.
	values := []any{
		task.ID, task.Title, task.Description, task.Product, task.Type,
		task.Priority, task.Status, task.DueDate, task.AssigneeID,
		task.RequesterID, subtasksJSON, analysisJSON, task.AIStatus,
		task.CreatedAt, task.UpdatedAt,
	}
	scan := func(dest ...any) error {
		require.Len(t, dest, len(values))
		for i := range dest {
			switch d := dest[i].(type) {
			case *[]byte:
				*d = values[i].([]byte)
			case *uuid.UUID:
				*d = values[i].(uuid.UUID)
			case *string:
				*d = values[i].(string)
			case *time.Time:
				*d = values[i].(time.Time)
			case *domain.Priority:
				*d = values[i].(domain.Priority)
			case *domain.TaskStatus:
				*d = values[i].(domain.TaskStatus)
			case *domain.AIStatus:
				*d = values[i].(domain.AIStatus)
			default:
				t.Fatalf("unexpected scan destination %T", d)
			}
		}
		return nil
	}

	restored, err := scanTask(scan)
	require.NoError(t, err)

	assert.Equal(t, task.ID, restored.ID)
	assert.Equal(t, task.Subtasks, restored.Subtasks)
	require.NotNil(t, restored.AIAnalysis)
	assert.Equal(t, task.AIAnalysis.SolutionDraft, restored.AIAnalysis.SolutionDraft)
	assert.Equal(t, task.AIAnalysis.ExecutionPlan, restored.AIAnalysis.ExecutionPlan)
}

func TestMarshalTaskJSONWithoutAnalysis(t *testing.T) {
	t.Parallel()

	task := &domain.Task{Subtasks: []domain.Subtask{}}

	subtasksJSON, analysisJSON, err := marshalTaskJSON(task)

	require.NoError(t, err)
	assert.Nil(t, analysisJSON)

	var decoded []domain.Subtask
	require.NoError(t, json.Unmarshal(subtasksJSON, &decoded))
	assert.Empty(t, decoded)
}
