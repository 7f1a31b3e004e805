package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the board column a task currently occupies.
type TaskStatus string

// Possible task status values
const (
	TaskStatusRequested TaskStatus = "REQUESTED"
	TaskStatusChecked   TaskStatus = "CHECKED"
	TaskStatusWIP       TaskStatus = "WIP"
	TaskStatusSent      TaskStatus = "SENT"
	TaskStatusFeedback  TaskStatus = "FEEDBACK"
	TaskStatusDone      TaskStatus = "DONE"
	TaskStatusCancelled TaskStatus = "CANCELLED"
	TaskStatusArchived  TaskStatus = "ARCHIVED"
)

// Priority represents the urgency level of a task.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// AIStatus tracks the enrichment lifecycle of a task, independently of
// its board status. A task moves PENDING -> PROCESSING when creation
// schedules enrichment, and reaches exactly one of COMPLETED or FAILED
// when the enrichment run settles.
type AIStatus string

// Possible enrichment status values
const (
	AIStatusPending    AIStatus = "PENDING"
	AIStatusProcessing AIStatus = "PROCESSING"
	AIStatusCompleted  AIStatus = "COMPLETED"
	AIStatusFailed     AIStatus = "FAILED"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrInvalidAIStatus   = errors.New("invalid AI status")
)

// Subtask is a single checklist item owned exclusively by its task.
type Subtask struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// Task represents a unit of work tracked on the board. Subtasks and the
// optional AIAnalysis are owned by the task; assignee and requester are
// opaque references to users managed elsewhere.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Product     string      `json:"product"`
	Type        string      `json:"type"`
	Priority    Priority    `json:"priority"`
	Status      TaskStatus  `json:"status"`
	DueDate     time.Time   `json:"due_date"`
	AssigneeID  string      `json:"assignee_id"`
	RequesterID string      `json:"requester_id"`
	Subtasks    []Subtask   `json:"subtasks"`
	AIAnalysis  *AIAnalysis `json:"ai_analysis,omitempty"`
	AIStatus    AIStatus    `json:"ai_status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskDraft holds the caller-supplied fields for a new task. Identity,
// timestamps, and the enrichment status are assigned by the orchestrator,
// never by the caller.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Product     string     `json:"product"`
	Type        string     `json:"type"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	AssigneeID  string     `json:"assignee_id"`
	RequesterID string     `json:"requester_id"`
	Subtasks    []Subtask  `json:"subtasks"`
}

// NewTask creates a Task from a draft. It generates a new UUID for the
// task ID, applies defaults for missing status/priority, sets the
// enrichment status to pending, and stamps creation/update times.
// Returns an error if validation fails.
func NewTask(draft TaskDraft) (*Task, error) {
	now := time.Now().UTC()

	task := &Task{
		ID:          uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		Product:     draft.Product,
		Type:        draft.Type,
		Priority:    draft.Priority,
		Status:      draft.Status,
		DueDate:     draft.DueDate,
		AssigneeID:  draft.AssigneeID,
		RequesterID: draft.RequesterID,
		Subtasks:    draft.Subtasks,
		AIStatus:    AIStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if task.Status == "" {
		task.Status = TaskStatusRequested
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.Subtasks == nil {
		task.Subtasks = []Subtask{}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !isValidPriority(t.Priority) {
		return ErrInvalidPriority
	}

	if !isValidAIStatus(t.AIStatus) {
		return ErrInvalidAIStatus
	}

	return nil
}

// UpdateStatus moves the task to a new board column and refreshes the
// UpdatedAt timestamp. Returns an error if the new status is invalid.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if !isValidTaskStatus(status) {
		return ErrInvalidTaskStatus
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateAIStatus records an enrichment lifecycle transition and refreshes
// the UpdatedAt timestamp. Returns an error if the new status is invalid.
func (t *Task) UpdateAIStatus(status AIStatus) error {
	if !isValidAIStatus(status) {
		return ErrInvalidAIStatus
	}

	t.AIStatus = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyAnalysis attaches a consolidated enrichment result to the task.
// The analysis always replaces the previous one wholesale. Subtasks are
// replaced only when the generated execution plan is non-empty; otherwise
// the existing subtasks are preserved.
func (t *Task) ApplyAnalysis(analysis *AIAnalysis) {
	t.AIAnalysis = analysis
	if analysis != nil && len(analysis.ExecutionPlan) > 0 {
		t.Subtasks = analysis.ExecutionPlan
	}
	t.AIStatus = AIStatusCompleted
	t.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the task. The orchestrator hands out
// clones so callers can never mutate its internal board state.
func (t *Task) Clone() *Task {
	clone := *t

	clone.Subtasks = make([]Subtask, len(t.Subtasks))
	copy(clone.Subtasks, t.Subtasks)

	if t.AIAnalysis != nil {
		analysis := *t.AIAnalysis
		analysis.ExecutionPlan = make([]Subtask, len(t.AIAnalysis.ExecutionPlan))
		copy(analysis.ExecutionPlan, t.AIAnalysis.ExecutionPlan)
		analysis.AcceptanceCriteria = make([]AcceptanceCriterion, len(t.AIAnalysis.AcceptanceCriteria))
		copy(analysis.AcceptanceCriteria, t.AIAnalysis.AcceptanceCriteria)
		analysis.LearningResources = make([]Resource, len(t.AIAnalysis.LearningResources))
		copy(analysis.LearningResources, t.AIAnalysis.LearningResources)
		clone.AIAnalysis = &analysis
	}

	return &clone
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusRequested, TaskStatusChecked, TaskStatusWIP,
		TaskStatusSent, TaskStatusFeedback, TaskStatusDone,
		TaskStatusCancelled, TaskStatusArchived:
		return true
	default:
		return false
	}
}

// isValidPriority checks if the given priority is a valid Priority.
func isValidPriority(priority Priority) bool {
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// isValidAIStatus checks if the given status is a valid AIStatus.
func isValidAIStatus(status AIStatus) bool {
	switch status {
	case AIStatusPending, AIStatusProcessing, AIStatusCompleted, AIStatusFailed:
		return true
	default:
		return false
	}
}
