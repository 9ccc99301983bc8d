package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/realtime"
	"github.com/skylink-air/skylink-backend/internal/schedule"
	"github.com/skylink-air/skylink-backend/internal/seatmap"
	"github.com/skylink-air/skylink-backend/internal/service"
)

// Handler contains the HTTP handlers for the API.
type Handler struct {
	users     service.UserService
	fleet     service.FleetService
	flights   service.FlightService
	templates service.TemplateService
	hub       *realtime.Hub
}

// NewHandler creates a new Handler instance.
func NewHandler(users service.UserService, fleet service.FleetService, flights service.FlightService, templates service.TemplateService, hub *realtime.Hub) *Handler {
	return &Handler{
		users:     users,
		fleet:     fleet,
		flights:   flights,
		templates: templates,
		hub:       hub,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy to HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, schedule.ErrInactiveTemplate),
		errors.Is(err, schedule.ErrInvalidTemplate):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, seatmap.ErrBadLayout):
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
