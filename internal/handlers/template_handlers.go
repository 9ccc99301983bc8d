package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skylink-air/skylink-backend/internal/service"
)

const defaultGenerateDaysAhead = 30

// ListTemplates handles GET /api/flights/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, templates)
}

// CreateTemplate handles POST /api/flights/templates.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templates.Create(r.Context(), req, CurrentUser(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tpl)
}

// GenerateFlights handles POST /api/flights/templates/{id}/generate.
// The horizon defaults to 30 days and can be set with ?days_ahead=N.
func (h *Handler) GenerateFlights(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	daysAhead := defaultGenerateDaysAhead
	if raw := r.URL.Query().Get("days_ahead"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			respondError(w, http.StatusBadRequest, "days_ahead must be between 1 and 365")
			return
		}
		daysAhead = n
	}

	result, err := h.templates.Generate(r.Context(), id, daysAhead, CurrentUser(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// DeactivateTemplate handles DELETE /api/flights/templates/{id}. Templates
// are soft deleted so already generated flights keep their provenance.
func (h *Handler) DeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	if err := h.templates.Deactivate(r.Context(), id, CurrentUser(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Template deactivated successfully"})
}
