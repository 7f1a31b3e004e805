package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nexusboard/nexus-api/internal/api/shared"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/platform/logger"
	"github.com/nexusboard/nexus-api/internal/service"
)

// SubtaskPayload represents a single checklist item in a task request.
// The ID is optional; omitted IDs are assigned server-side.
type SubtaskPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"     validate:"required,min=1"`
	Completed bool   `json:"completed"`
}

// CreateTaskRequest represents the request body for creating a new task.
type CreateTaskRequest struct {
	Title       string           `json:"title"        validate:"required,min=1"`
	Description string           `json:"description"`
	Product     string           `json:"product"`
	Type        string           `json:"type"`
	Priority    string           `json:"priority"`
	Status      string           `json:"status"`
	DueDate     time.Time        `json:"due_date"`
	AssigneeID  string           `json:"assignee_id"`
	RequesterID string           `json:"requester_id"`
	Subtasks    []SubtaskPayload `json:"subtasks" validate:"dive"`
}

// UpdateTaskRequest represents the request body for replacing a task's
// content. Enrichment state and timestamps are owned by the server and
// cannot be set through this endpoint.
type UpdateTaskRequest struct {
	Title       string           `json:"title"        validate:"required,min=1"`
	Description string           `json:"description"`
	Product     string           `json:"product"`
	Type        string           `json:"type"`
	Priority    string           `json:"priority"     validate:"required"`
	Status      string           `json:"status"       validate:"required"`
	DueDate     time.Time        `json:"due_date"`
	AssigneeID  string           `json:"assignee_id"`
	RequesterID string           `json:"requester_id"`
	Subtasks    []SubtaskPayload `json:"subtasks" validate:"dive"`
}

// UpdateStatusRequest represents the request body for moving a task to
// another board column.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DraftTasksRequest represents the request body for generating task
// proposals from free-form input.
type DraftTasksRequest struct {
	Input string `json:"input" validate:"required,min=1"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	boardService *service.BoardService
	validator    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(boardService *service.BoardService) *TaskHandler {
	return &TaskHandler{
		boardService: boardService,
		validator:    validator.New(),
	}
}

// ListTasks handles GET /api/tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.boardService.GetAll(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.boardService.GetTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks requests. The created task is
// returned immediately; enrichment runs in the background and the
// task's ai_status reflects its progress.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	draft := domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Product:     req.Product,
		Type:        req.Type,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.TaskStatus(req.Status),
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		RequesterID: req.RequesterID,
		Subtasks:    subtasksFromPayload(req.Subtasks),
	}

	task, err := h.boardService.CreateTask(r.Context(), draft)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id} requests. The request replaces
// the task's content wholesale; server-owned fields (enrichment state,
// timestamps, attached analysis) are carried over from the stored task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	current, err := h.boardService.GetTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task")
		return
	}

	current.Title = req.Title
	current.Description = req.Description
	current.Product = req.Product
	current.Type = req.Type
	current.Priority = domain.Priority(req.Priority)
	current.Status = domain.TaskStatus(req.Status)
	current.DueDate = req.DueDate
	current.AssigneeID = req.AssigneeID
	current.RequesterID = req.RequesterID
	current.Subtasks = subtasksFromPayload(req.Subtasks)
	current.UpdatedAt = time.Now().UTC()

	if err := h.boardService.UpdateTask(r.Context(), current); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, current)
}

// UpdateStatus handles PATCH /api/tasks/{id}/status requests.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.boardService.UpdateStatus(r.Context(), taskID, domain.TaskStatus(req.Status)); err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	task, err := h.boardService.GetTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.boardService.DeleteTask(r.Context(), taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DraftTasks handles POST /api/tasks/draft requests. The proposals are
// not persisted; the client picks one and creates it normally.
func (h *TaskHandler) DraftTasks(w http.ResponseWriter, r *http.Request) {
	var req DraftTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	drafts, err := h.boardService.DraftTasks(r.Context(), req.Input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to draft tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, drafts)
}

// subtasksFromPayload converts request subtasks to domain subtasks,
// assigning IDs where the client left them out.
func subtasksFromPayload(payload []SubtaskPayload) []domain.Subtask {
	if len(payload) == 0 {
		return nil
	}

	subtasks := make([]domain.Subtask, 0, len(payload))
	for _, p := range payload {
		id, err := uuid.Parse(p.ID)
		if err != nil || id == uuid.Nil {
			id = uuid.New()
		}
		subtasks = append(subtasks, domain.Subtask{
			ID:        id,
			Title:     p.Title,
			Completed: p.Completed,
		})
	}
	return subtasks
}
