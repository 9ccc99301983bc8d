package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/service"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req service.RegisterRequest) (*database.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.User), args.Error(1)
}

func (m *MockUserService) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserService) ResendVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockUserService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockUserService) Authenticate(ctx context.Context, accessToken string) (*database.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID int64, req service.ProfileUpdateRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *MockUserService) ActivityLogs(ctx context.Context, userID int64) ([]database.ActivityLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.ActivityLog), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, actor *database.User) ([]database.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.User), args.Error(1)
}

func (m *MockUserService) HasPermission(ctx context.Context, user *database.User, permission string) (bool, error) {
	args := m.Called(ctx, user, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) LogActivity(ctx context.Context, userID int64, action, details string) {
	m.Called(ctx, userID, action, details)
}

// MockFleetService is a mock implementation of FleetService
type MockFleetService struct {
	mock.Mock
}

func (m *MockFleetService) ListAircraft(ctx context.Context) ([]database.Aircraft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Aircraft), args.Error(1)
}

func (m *MockFleetService) GetAircraft(ctx context.Context, id int64) (*database.Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Aircraft), args.Error(1)
}

func (m *MockFleetService) CreateAircraft(ctx context.Context, req service.CreateAircraftRequest) (*database.Aircraft, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Aircraft), args.Error(1)
}

func (m *MockFleetService) UpdateAircraft(ctx context.Context, id int64, req service.UpdateAircraftRequest) (*database.Aircraft, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Aircraft), args.Error(1)
}

func (m *MockFleetService) ListAirports(ctx context.Context) ([]database.Airport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Airport), args.Error(1)
}

func (m *MockFleetService) GetAirport(ctx context.Context, id int64) (*database.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Airport), args.Error(1)
}

func (m *MockFleetService) CreateAirport(ctx context.Context, req service.CreateAirportRequest) (*database.Airport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Airport), args.Error(1)
}

func (m *MockFleetService) ListRoutes(ctx context.Context, activeOnly bool) ([]database.Route, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Route), args.Error(1)
}

func (m *MockFleetService) CreateRoute(ctx context.Context, req service.CreateRouteRequest) (*database.Route, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Route), args.Error(1)
}

// MockFlightService is a mock implementation of FlightService
type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) Search(ctx context.Context, origin, destination, departureDate string) ([]database.FlightDetails, error) {
	args := m.Called(ctx, origin, destination, departureDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.FlightDetails), args.Error(1)
}

func (m *MockFlightService) ListAll(ctx context.Context) ([]database.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockFlightService) Details(ctx context.Context, id int64) (*database.FlightDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.FlightDetails), args.Error(1)
}

func (m *MockFlightService) Seats(ctx context.Context, id int64) ([]database.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Seat), args.Error(1)
}

func (m *MockFlightService) Create(ctx context.Context, req service.CreateFlightRequest, actor *database.User) (*database.Flight, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *MockFlightService) Update(ctx context.Context, id int64, req service.UpdateFlightRequest, actor *database.User) (*database.Flight, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *MockFlightService) Cancel(ctx context.Context, id int64, actor *database.User) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *MockFlightService) StatusHistory(ctx context.Context, id int64) ([]database.FlightStatusLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.FlightStatusLog), args.Error(1)
}

func (m *MockFlightService) Costs(ctx context.Context, flightID int64) (*service.CostsResponse, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CostsResponse), args.Error(1)
}

func (m *MockFlightService) SaveCosts(ctx context.Context, flightID int64, req service.SaveCostsRequest, actor *database.User) (*database.FlightOperationalCost, error) {
	args := m.Called(ctx, flightID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.FlightOperationalCost), args.Error(1)
}

// MockTemplateService is a mock implementation of TemplateService
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context) ([]database.FlightTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.FlightTemplate), args.Error(1)
}

func (m *MockTemplateService) Create(ctx context.Context, req service.CreateTemplateRequest, actor *database.User) (*database.FlightTemplate, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.FlightTemplate), args.Error(1)
}

func (m *MockTemplateService) Generate(ctx context.Context, templateID int64, daysAhead int, actor *database.User) (*service.GenerateResult, error) {
	args := m.Called(ctx, templateID, daysAhead, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}

func (m *MockTemplateService) Deactivate(ctx context.Context, templateID int64, actor *database.User) error {
	args := m.Called(ctx, templateID, actor)
	return args.Error(0)
}
