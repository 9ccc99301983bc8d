package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skylink-air/skylink-backend/internal/database"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// mockFlightRepo is a mock implementation of flightRepository
type mockFlightRepo struct {
	mock.Mock
}

func (m *mockFlightRepo) SearchFlights(ctx context.Context, origin, destination string, departureDate *time.Time) ([]database.FlightDetails, error) {
	args := m.Called(ctx, origin, destination, departureDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.FlightDetails), args.Error(1)
}

func (m *mockFlightRepo) ListFlights(ctx context.Context) ([]database.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *mockFlightRepo) GetFlightDetails(ctx context.Context, id int64) (*database.FlightDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.FlightDetails), args.Error(1)
}

func (m *mockFlightRepo) GetFlightByID(ctx context.Context, id int64) (*database.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *mockFlightRepo) GetFlightByNumber(ctx context.Context, number string) (*database.Flight, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *mockFlightRepo) ListSeats(ctx context.Context, flightID int64) ([]database.Seat, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Seat), args.Error(1)
}

func (m *mockFlightRepo) GetRouteByID(ctx context.Context, id int64) (*database.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Route), args.Error(1)
}

func (m *mockFlightRepo) GetAircraftByID(ctx context.Context, id int64) (*database.Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Aircraft), args.Error(1)
}

func (m *mockFlightRepo) CreateFlightWithSeats(ctx context.Context, f *database.Flight, seats []database.Seat) error {
	args := m.Called(ctx, f, seats)
	return args.Error(0)
}

func (m *mockFlightRepo) UpdateFlight(ctx context.Context, id int64, upd database.FlightUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *mockFlightRepo) InsertStatusLog(ctx context.Context, log *database.FlightStatusLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockFlightRepo) ListStatusLogs(ctx context.Context, flightID int64) ([]database.FlightStatusLog, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.FlightStatusLog), args.Error(1)
}

func (m *mockFlightRepo) InsertAuditLog(ctx context.Context, log *database.FlightAuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockFlightRepo) GetOperationalCost(ctx context.Context, flightID int64) (*database.FlightOperationalCost, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.FlightOperationalCost), args.Error(1)
}

func (m *mockFlightRepo) UpsertOperationalCost(ctx context.Context, c *database.FlightOperationalCost) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func scheduledFlight() *database.Flight {
	return &database.Flight{
		ID:                12,
		FlightNumber:      "SL1030325",
		RouteID:           1,
		AircraftID:        2,
		DepartureDatetime: time.Date(2025, 3, 3, 8, 30, 0, 0, time.UTC),
		ArrivalDatetime:   time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC),
		Status:            database.FlightStatusScheduled,
	}
}

func flightActor() *database.User {
	return &database.User{ID: 5, Email: "ops@skylink.example", Role: database.RoleStaff}
}

func TestFlightService_Update_FailedUpdateWritesNoStatusLog(t *testing.T) {
	repo := new(mockFlightRepo)
	svc := NewFlightService(repo, nil, fixedClock{now: time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)})

	repo.On("GetFlightByID", mock.Anything, int64(12)).Return(scheduledFlight(), nil)
	repo.On("UpdateFlight", mock.Anything, int64(12), mock.Anything).Return(errors.New("connection reset"))

	boarding := database.FlightStatusBoarding
	_, err := svc.Update(context.Background(), 12, UpdateFlightRequest{Status: &boarding}, flightActor())

	require.Error(t, err)
	repo.AssertNotCalled(t, "InsertStatusLog", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertAuditLog", mock.Anything, mock.Anything)
}

func TestFlightService_Update_StatusLogCarriesDelayReason(t *testing.T) {
	repo := new(mockFlightRepo)
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	svc := NewFlightService(repo, nil, fixedClock{now: now})

	repo.On("GetFlightByID", mock.Anything, int64(12)).Return(scheduledFlight(), nil)
	repo.On("UpdateFlight", mock.Anything, int64(12), mock.Anything).Return(nil)
	repo.On("InsertStatusLog", mock.Anything, mock.MatchedBy(func(l *database.FlightStatusLog) bool {
		return l.FlightID == 12 &&
			l.OldStatus == database.FlightStatusScheduled &&
			l.NewStatus == database.FlightStatusDelayed &&
			l.Reason != nil && *l.Reason == "Fog at origin" &&
			l.ChangedBy == 5 && l.ChangedAt.Equal(now)
	})).Return(nil)
	repo.On("InsertAuditLog", mock.Anything, mock.Anything).Return(nil)

	delayed := database.FlightStatusDelayed
	delayReason := "Fog at origin"
	_, err := svc.Update(context.Background(), 12, UpdateFlightRequest{
		Status:      &delayed,
		DelayReason: &delayReason,
	}, flightActor())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFlightService_Update_DelayedWithoutReason(t *testing.T) {
	repo := new(mockFlightRepo)
	svc := NewFlightService(repo, nil, fixedClock{now: time.Now()})

	repo.On("GetFlightByID", mock.Anything, int64(12)).Return(scheduledFlight(), nil)

	delayed := database.FlightStatusDelayed
	_, err := svc.Update(context.Background(), 12, UpdateFlightRequest{Status: &delayed}, flightActor())

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "UpdateFlight", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertStatusLog", mock.Anything, mock.Anything)
}

func TestFlightService_Cancel_AlreadyDeparted(t *testing.T) {
	repo := new(mockFlightRepo)
	svc := NewFlightService(repo, nil, fixedClock{now: time.Now()})

	departed := scheduledFlight()
	departed.Status = database.FlightStatusDeparted
	repo.On("GetFlightByID", mock.Anything, int64(12)).Return(departed, nil)

	err := svc.Cancel(context.Background(), 12, flightActor())

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "UpdateFlight", mock.Anything, mock.Anything, mock.Anything)
}
