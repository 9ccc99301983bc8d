package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/service"
	"github.com/skylink-air/skylink-backend/internal/service/mocks"
)

const testToken = "test-token"

type testServices struct {
	users     *mocks.MockUserService
	fleet     *mocks.MockFleetService
	flights   *mocks.MockFlightService
	templates *mocks.MockTemplateService
}

// setupTestRouter mirrors the production route layout for the endpoints the
// tests exercise, including the auth middleware and permission gates.
func setupTestRouter() (*mux.Router, *testServices) {
	svcs := &testServices{
		users:     new(mocks.MockUserService),
		fleet:     new(mocks.MockFleetService),
		flights:   new(mocks.MockFlightService),
		templates: new(mocks.MockTemplateService),
	}
	h := NewHandler(svcs.users, svcs.fleet, svcs.flights, svcs.templates, nil)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/verify-email/{token}", h.VerifyEmail).Methods(http.MethodGet)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/forgot-password", h.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id:[0-9]+}", h.GetFlightDetails).Methods(http.MethodGet)

	auth := api.NewRoute().Subrouter()
	auth.Use(h.Authenticate)
	auth.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet)
	auth.HandleFunc("/admin/users", h.ListUsers).Methods(http.MethodGet)
	auth.HandleFunc("/flights/create", h.RequirePermission("manage_flights", h.CreateFlight)).Methods(http.MethodPost)
	auth.HandleFunc("/flights/{id:[0-9]+}", h.RequirePermission("manage_flights", h.CancelFlight)).Methods(http.MethodDelete)
	auth.HandleFunc("/flights/templates/{id:[0-9]+}/generate", h.RequirePermission("manage_flights", h.GenerateFlights)).Methods(http.MethodPost)

	return r, svcs
}

func authedUser(role string) *database.User {
	return &database.User{
		ID:         7,
		Email:      "staff@skylink.example",
		FullName:   "Test Staff",
		Role:       role,
		IsActive:   true,
		IsVerified: true,
	}
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *database.User
		mockError      error
		expectedStatus int
	}{
		{
			name:           "success",
			mockReturn:     &database.User{ID: 1, Email: "new@skylink.example"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "validation failure",
			mockError:      service.ErrValidation,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "duplicate email",
			mockError:      database.ErrConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "staff code rejected",
			mockError:      service.ErrForbidden,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svcs := setupTestRouter()
			svcs.users.On("Register", mock.Anything, mock.Anything).Return(tt.mockReturn, tt.mockError)

			body, _ := json.Marshal(service.RegisterRequest{
				Email:    "new@skylink.example",
				FullName: "New User",
				Password: "password123",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svcs.users.AssertExpectations(t)
		})
	}
}

func TestHandler_Register_BadJSON(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login(t *testing.T) {
	router, svcs := setupTestRouter()
	svcs.users.On("Login", mock.Anything, "pilot@skylink.example", "password123").Return(&service.LoginResult{
		AccessToken: "signed-token",
		TokenType:   "bearer",
		User:        &database.User{ID: 1, Email: "pilot@skylink.example"},
	}, nil)

	body := []byte(`{"email":"pilot@skylink.example","password":"password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result service.LoginResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "signed-token", result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	svcs.users.AssertExpectations(t)
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	router, svcs := setupTestRouter()
	svcs.users.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrUnauthorized)

	body := []byte(`{"email":"pilot@skylink.example","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_VerifyEmail(t *testing.T) {
	router, svcs := setupTestRouter()
	svcs.users.On("VerifyEmail", mock.Anything, "good-token").Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/verify-email/good-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svcs.users.AssertExpectations(t)
}

func TestHandler_ForgotPassword_RequiresEmail(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/forgot-password", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetProfile(t *testing.T) {
	router, svcs := setupTestRouter()
	user := authedUser(database.RoleStaff)
	svcs.users.On("Authenticate", mock.Anything, testToken).Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got database.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, user.Email, got.Email)
}

func TestHandler_GetProfile_NoToken(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestHandler_ListUsers_AsAdmin(t *testing.T) {
	router, svcs := setupTestRouter()
	admin := authedUser(database.RoleAdmin)
	svcs.users.On("Authenticate", mock.Anything, testToken).Return(admin, nil)
	svcs.users.On("ListUsers", mock.Anything, admin).Return([]database.User{
		{ID: 1, Email: "first@skylink.example"},
		{ID: 2, Email: "second@skylink.example"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var users []database.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&users))
	assert.Len(t, users, 2)
	svcs.users.AssertExpectations(t)
}

func TestHandler_ListUsers_NonAdmin(t *testing.T) {
	router, svcs := setupTestRouter()
	staff := authedUser(database.RoleStaff)
	svcs.users.On("Authenticate", mock.Anything, testToken).Return(staff, nil)
	svcs.users.On("ListUsers", mock.Anything, staff).Return(nil, service.ErrForbidden)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_GetProfile_BadToken(t *testing.T) {
	router, svcs := setupTestRouter()
	svcs.users.On("Authenticate", mock.Anything, "expired").Return(nil, service.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
