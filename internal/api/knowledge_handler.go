package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nexusboard/nexus-api/internal/api/shared"
	"github.com/nexusboard/nexus-api/internal/domain"
	"github.com/nexusboard/nexus-api/internal/service"
)

// AddResourceRequest represents the request body for registering an
// external knowledge resource by URL.
type AddResourceRequest struct {
	URL         string `json:"url"          validate:"required,url"`
	ContentType string `json:"content_type" validate:"required,oneof=VIDEO ARTICLE GUIDE"`
}

// KnowledgeHandler handles knowledge-resource HTTP requests.
type KnowledgeHandler struct {
	knowledgeService *service.KnowledgeService
	validator        *validator.Validate
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
		validator:        validator.New(),
	}
}

// AddResource handles POST /api/knowledge requests. Intake is
// synchronous: the URL is analyzed before the resource is stored, so a
// provider outage fails the request rather than leaving a half-built
// resource behind.
func (h *KnowledgeHandler) AddResource(w http.ResponseWriter, r *http.Request) {
	var req AddResourceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resource, err := h.knowledgeService.AddResourceFromURL(
		r.Context(), req.URL, domain.ResourceType(req.ContentType))
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err)
		// Provider outages during intake are worth operator attention,
		// unlike routine client mistakes.
		if status == http.StatusBadGateway {
			shared.RespondWithErrorAndLog(w, r, status, message, err, shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, resource)
}

// ListResources handles GET /api/knowledge requests.
func (h *KnowledgeHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.knowledgeService.GetAllResources(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch knowledge resources")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resources)
}

// DeleteResource handles DELETE /api/knowledge/{id} requests.
func (h *KnowledgeHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.knowledgeService.DeleteResource(r.Context(), resourceID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete knowledge resource")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
