package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skylink-air/skylink-backend/internal/service"
)

// ListAircraft handles GET /api/flights/aircraft.
func (h *Handler) ListAircraft(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.fleet.ListAircraft(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, aircraft)
}

// GetAircraft handles GET /api/flights/aircraft/{id}.
func (h *Handler) GetAircraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid aircraft ID")
		return
	}

	aircraft, err := h.fleet.GetAircraft(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, aircraft)
}

// CreateAircraft handles POST /api/flights/aircraft.
func (h *Handler) CreateAircraft(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAircraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	aircraft, err := h.fleet.CreateAircraft(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, aircraft)
}

// UpdateAircraft handles PUT /api/flights/aircraft/{id}.
func (h *Handler) UpdateAircraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid aircraft ID")
		return
	}

	var req service.UpdateAircraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	aircraft, err := h.fleet.UpdateAircraft(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, aircraft)
}

// ListAirports handles GET /api/flights/airports.
func (h *Handler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := h.fleet.ListAirports(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, airports)
}

// GetAirport handles GET /api/flights/airports/{id}.
func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid airport ID")
		return
	}

	airport, err := h.fleet.GetAirport(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, airport)
}

// CreateAirport handles POST /api/flights/airports.
func (h *Handler) CreateAirport(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAirportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	airport, err := h.fleet.CreateAirport(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, airport)
}

// ListRoutes handles GET /api/flights/routes. Pass ?all=true to include
// inactive routes.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	routes, err := h.fleet.ListRoutes(r.Context(), activeOnly)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, routes)
}

// CreateRoute handles POST /api/flights/routes.
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	route, err := h.fleet.CreateRoute(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, route)
}
