package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/schedule"
)

// mockTemplateRepo is a mock implementation of templateRepository
type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) ListTemplates(ctx context.Context) ([]database.FlightTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.FlightTemplate), args.Error(1)
}

func (m *mockTemplateRepo) GetTemplateByID(ctx context.Context, id int64) (*database.FlightTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.FlightTemplate), args.Error(1)
}

func (m *mockTemplateRepo) CreateTemplate(ctx context.Context, t *database.FlightTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTemplateRepo) DeactivateTemplate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTemplateRepo) GetRouteByID(ctx context.Context, id int64) (*database.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Route), args.Error(1)
}

func (m *mockTemplateRepo) GetAircraftByID(ctx context.Context, id int64) (*database.Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Aircraft), args.Error(1)
}

func (m *mockTemplateRepo) GetFlightByNumber(ctx context.Context, number string) (*database.Flight, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *mockTemplateRepo) CreateFlightWithSeats(ctx context.Context, f *database.Flight, seats []database.Seat) error {
	args := m.Called(ctx, f, seats)
	return args.Error(0)
}

func dailyTemplate() *database.FlightTemplate {
	return &database.FlightTemplate{
		ID:                 3,
		TemplateName:       "Morning Shuttle",
		FlightNumberPrefix: "SL2",
		RouteID:            1,
		AircraftID:         2,
		RecurrenceType:     database.RecurrenceDaily,
		DepartureTime:      "08:30",
		DurationMinutes:    150,
		StartDate:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:           true,
	}
}

func templateRoute() *database.Route {
	return &database.Route{
		ID:                1,
		BasePriceEconomy:  decimal.NewFromInt(120),
		BasePriceBusiness: decimal.NewFromInt(350),
		BasePriceFirst:    decimal.NewFromInt(800),
	}
}

func templateAircraft() *database.Aircraft {
	businessStart := 2
	return &database.Aircraft{
		ID:                  2,
		AircraftNumber:      "SK-101",
		Model:               "A320",
		Status:              database.AircraftStatusActive,
		TotalSeats:          10,
		EconomySeats:        6,
		BusinessSeats:       4,
		EconomyStartRow:     1,
		BusinessStartRow:    &businessStart,
		SeatsPerRowEconomy:  6,
		SeatsPerRowBusiness: 4,
	}
}

// setupTemplateService wires a template service against mocks with a clock
// pinned to 2025-03-03, so daysAhead=2 expands to March 3rd through 5th.
func setupTemplateService() (TemplateService, *mockTemplateRepo) {
	repo := new(mockTemplateRepo)
	clock := fixedClock{now: time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)}
	return NewTemplateService(repo, clock), repo
}

func expectTemplateLookups(repo *mockTemplateRepo) {
	repo.On("GetTemplateByID", mock.Anything, int64(3)).Return(dailyTemplate(), nil)
	repo.On("GetRouteByID", mock.Anything, int64(1)).Return(templateRoute(), nil)
	repo.On("GetAircraftByID", mock.Anything, int64(2)).Return(templateAircraft(), nil)
}

func TestTemplateService_Generate_CreatesEachMatchedDate(t *testing.T) {
	svc, repo := setupTemplateService()
	expectTemplateLookups(repo)
	repo.On("GetFlightByNumber", mock.Anything, mock.Anything).Return(nil, database.ErrNotFound)
	repo.On("CreateFlightWithSeats", mock.Anything, mock.MatchedBy(func(f *database.Flight) bool {
		return f.ParentTemplateID != nil && *f.ParentTemplateID == 3 &&
			f.Status == database.FlightStatusScheduled
	}), mock.Anything).Return(nil)

	result, err := svc.Generate(context.Background(), 3, 2, flightActor())

	require.NoError(t, err)
	require.Len(t, result.Created, 3)
	assert.Equal(t, "SL2030325", result.Created[0].FlightNumber)
	assert.Equal(t, "2025-03-03", result.Created[0].Date)
	assert.Equal(t, "SL2050325", result.Created[2].FlightNumber)
	assert.Empty(t, result.Failed)
	repo.AssertExpectations(t)
}

func TestTemplateService_Generate_SecondRunCreatesNothing(t *testing.T) {
	svc, repo := setupTemplateService()
	expectTemplateLookups(repo)

	// First run finds no flights; afterwards every lookup hits the rows the
	// first run inserted.
	repo.On("GetFlightByNumber", mock.Anything, mock.Anything).Return(nil, database.ErrNotFound).Times(3)
	repo.On("GetFlightByNumber", mock.Anything, mock.Anything).Return(&database.Flight{ID: 99}, nil)
	repo.On("CreateFlightWithSeats", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	first, err := svc.Generate(context.Background(), 3, 2, flightActor())
	require.NoError(t, err)
	require.Len(t, first.Created, 3)

	second, err := svc.Generate(context.Background(), 3, 2, flightActor())
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Empty(t, second.Failed)
	repo.AssertNumberOfCalls(t, "CreateFlightWithSeats", 3)
}

func TestTemplateService_Generate_LostInsertRaceSkipsDate(t *testing.T) {
	svc, repo := setupTemplateService()
	expectTemplateLookups(repo)
	repo.On("GetFlightByNumber", mock.Anything, mock.Anything).Return(nil, database.ErrNotFound)
	repo.On("CreateFlightWithSeats", mock.Anything, mock.Anything, mock.Anything).Return(database.ErrConflict)

	result, err := svc.Generate(context.Background(), 3, 2, flightActor())

	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Failed, "a lost race is a skip, not a failure")
}

func TestTemplateService_Generate_FailedDateDoesNotAbortBatch(t *testing.T) {
	svc, repo := setupTemplateService()
	expectTemplateLookups(repo)
	repo.On("GetFlightByNumber", mock.Anything, mock.Anything).Return(nil, database.ErrNotFound)
	repo.On("CreateFlightWithSeats", mock.Anything, mock.MatchedBy(func(f *database.Flight) bool {
		return f.FlightNumber == "SL2040325"
	}), mock.Anything).Return(errors.New("insert failed"))
	repo.On("CreateFlightWithSeats", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Generate(context.Background(), 3, 2, flightActor())

	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Equal(t, "SL2030325", result.Created[0].FlightNumber)
	assert.Equal(t, "SL2050325", result.Created[1].FlightNumber)
	assert.Equal(t, []string{"2025-03-04"}, result.Failed)
}

func TestTemplateService_Generate_InactiveTemplate(t *testing.T) {
	svc, repo := setupTemplateService()
	tpl := dailyTemplate()
	tpl.IsActive = false
	repo.On("GetTemplateByID", mock.Anything, int64(3)).Return(tpl, nil)
	repo.On("GetRouteByID", mock.Anything, int64(1)).Return(templateRoute(), nil)
	repo.On("GetAircraftByID", mock.Anything, int64(2)).Return(templateAircraft(), nil)

	_, err := svc.Generate(context.Background(), 3, 2, flightActor())

	assert.ErrorIs(t, err, schedule.ErrInactiveTemplate)
	repo.AssertNotCalled(t, "CreateFlightWithSeats", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_Deactivate_RequiresAdmin(t *testing.T) {
	svc, repo := setupTemplateService()

	err := svc.Deactivate(context.Background(), 3, flightActor())

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "DeactivateTemplate", mock.Anything, mock.Anything)
}

func TestTemplateService_Deactivate_AsAdmin(t *testing.T) {
	svc, repo := setupTemplateService()
	repo.On("DeactivateTemplate", mock.Anything, int64(3)).Return(nil)

	admin := flightActor()
	admin.Role = database.RoleAdmin

	require.NoError(t, svc.Deactivate(context.Background(), 3, admin))
	repo.AssertExpectations(t)
}
