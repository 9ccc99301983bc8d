package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skylink-air/skylink-backend/internal/service"
)

// SearchFlights handles GET /api/flights/search.
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	flights, err := h.flights.Search(r.Context(), q.Get("origin"), q.Get("destination"), q.Get("departure_date"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// ListFlights handles GET /api/flights/all.
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.flights.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlightDetails handles GET /api/flights/{id}.
func (h *Handler) GetFlightDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	details, err := h.flights.Details(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// GetFlightSeats handles GET /api/flights/{id}/seats.
func (h *Handler) GetFlightSeats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	seats, err := h.flights.Seats(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, seats)
}

// CreateFlight handles POST /api/flights/create.
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req service.CreateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flight, err := h.flights.Create(r.Context(), req, CurrentUser(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

// UpdateFlight handles PUT /api/flights/{id}.
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	var req service.UpdateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flight, err := h.flights.Update(r.Context(), id, req, CurrentUser(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// CancelFlight handles DELETE /api/flights/{id}. Flights are never hard
// deleted; this transitions them to cancelled.
func (h *Handler) CancelFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	if err := h.flights.Cancel(r.Context(), id, CurrentUser(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Flight cancelled successfully"})
}

// GetStatusHistory handles GET /api/flights/{id}/status-history.
func (h *Handler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	history, err := h.flights.StatusHistory(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// GetFlightCosts handles GET /api/flights/costs/{id}.
func (h *Handler) GetFlightCosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	costs, err := h.flights.Costs(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, costs)
}

// SaveFlightCosts handles POST /api/flights/costs/{id}.
func (h *Handler) SaveFlightCosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	var req service.SaveCostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	costs, err := h.flights.SaveCosts(r.Context(), id, req, CurrentUser(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, costs)
}

// SubscribeFlightUpdates handles GET /api/flights/{id}/ws, upgrading the
// connection to a websocket for live status updates.
func (h *Handler) SubscribeFlightUpdates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid flight ID")
		return
	}

	h.hub.Subscribe(w, r, id)
}
