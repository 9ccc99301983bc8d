package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/skylink-air/skylink-backend/internal/database"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser returns the authenticated user stored on the request context,
// or nil outside an authenticated route.
func CurrentUser(r *http.Request) *database.User {
	user, _ := r.Context().Value(userContextKey).(*database.User)
	return user
}

// Authenticate validates the bearer token and stores the acting user on the
// request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		user, err := h.users.Authenticate(r.Context(), token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission gates a handler behind a named permission. Admins pass
// every check; everyone else needs a matching permission row.
func (h *Handler) RequirePermission(permission string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			respondError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		allowed, err := h.users.HasPermission(r.Context(), user, permission)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if !allowed {
			respondError(w, http.StatusForbidden, "you don't have permission: "+permission)
			return
		}

		next(w, r)
	}
}
