package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skylink-air/skylink-backend/internal/handlers"
	"github.com/skylink-air/skylink-backend/internal/monitoring"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, enableMetrics bool) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(monitoring.Middleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public auth endpoints
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/verify-email/{token}", h.VerifyEmail).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/resend-verification", h.ResendVerification).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/forgot-password", h.ForgotPassword).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost, http.MethodOptions)

	// Public flight search and live updates
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id:[0-9]+}", h.GetFlightDetails).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id:[0-9]+}/seats", h.GetFlightSeats).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id:[0-9]+}/status-history", h.GetStatusHistory).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id:[0-9]+}/ws", h.SubscribeFlightUpdates)

	// Everything below requires a valid access token
	auth := api.NewRoute().Subrouter()
	auth.Use(h.Authenticate)

	auth.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut, http.MethodOptions)
	auth.HandleFunc("/activity-logs", h.GetActivityLogs).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodPost, http.MethodOptions)

	// Administration
	auth.HandleFunc("/admin/users", h.ListUsers).Methods(http.MethodGet, http.MethodOptions)

	// Fleet management
	auth.HandleFunc("/flights/aircraft", h.ListAircraft).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/aircraft", h.RequirePermission("manage_aircraft", h.CreateAircraft)).Methods(http.MethodPost, http.MethodOptions)
	auth.HandleFunc("/flights/aircraft/{id:[0-9]+}", h.GetAircraft).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/aircraft/{id:[0-9]+}", h.RequirePermission("manage_aircraft", h.UpdateAircraft)).Methods(http.MethodPut, http.MethodOptions)

	auth.HandleFunc("/flights/airports", h.ListAirports).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/airports", h.RequirePermission("manage_routes", h.CreateAirport)).Methods(http.MethodPost, http.MethodOptions)
	auth.HandleFunc("/flights/airports/{id:[0-9]+}", h.GetAirport).Methods(http.MethodGet, http.MethodOptions)

	auth.HandleFunc("/flights/routes", h.ListRoutes).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/routes", h.RequirePermission("manage_routes", h.CreateRoute)).Methods(http.MethodPost, http.MethodOptions)

	// Flight operations
	auth.HandleFunc("/flights/all", h.RequirePermission("manage_flights", h.ListFlights)).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/create", h.RequirePermission("manage_flights", h.CreateFlight)).Methods(http.MethodPost, http.MethodOptions)
	auth.HandleFunc("/flights/{id:[0-9]+}", h.RequirePermission("manage_flights", h.UpdateFlight)).Methods(http.MethodPut, http.MethodOptions)
	auth.HandleFunc("/flights/{id:[0-9]+}", h.RequirePermission("manage_flights", h.CancelFlight)).Methods(http.MethodDelete, http.MethodOptions)
	auth.HandleFunc("/flights/costs/{id:[0-9]+}", h.RequirePermission("manage_flights", h.GetFlightCosts)).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/costs/{id:[0-9]+}", h.RequirePermission("manage_flights", h.SaveFlightCosts)).Methods(http.MethodPost, http.MethodOptions)

	// Schedule templates
	auth.HandleFunc("/flights/templates", h.RequirePermission("manage_flights", h.ListTemplates)).Methods(http.MethodGet, http.MethodOptions)
	auth.HandleFunc("/flights/templates", h.RequirePermission("manage_flights", h.CreateTemplate)).Methods(http.MethodPost, http.MethodOptions)
	auth.HandleFunc("/flights/templates/{id:[0-9]+}/generate", h.RequirePermission("manage_flights", h.GenerateFlights)).Methods(http.MethodPost, http.MethodOptions)
	auth.HandleFunc("/flights/templates/{id:[0-9]+}", h.RequirePermission("manage_flights", h.DeactivateTemplate)).Methods(http.MethodDelete, http.MethodOptions)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	if enableMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	return r
}

// requestIDMiddleware tags every request with an ID so log lines from a
// single request can be correlated. Incoming IDs from trusted proxies are
// kept as-is.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
