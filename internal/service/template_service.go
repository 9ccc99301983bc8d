package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/monitoring"
	"github.com/skylink-air/skylink-backend/internal/schedule"
	"github.com/skylink-air/skylink-backend/internal/seatmap"
)

// CreateTemplateRequest is the input for creating a recurring flight template.
type CreateTemplateRequest struct {
	TemplateName       string  `json:"templateName"`
	FlightNumberPrefix string  `json:"flightNumberPrefix"`
	RouteID            int64   `json:"routeId"`
	AircraftID         int64   `json:"aircraftId"`
	RecurrenceType     string  `json:"recurrenceType"`
	DaysOfWeek         *string `json:"daysOfWeek,omitempty"`
	DepartureTime      string  `json:"departureTime"` // "HH:MM"
	DurationMinutes    int     `json:"durationMinutes"`
	StartDate          string  `json:"startDate"` // "YYYY-MM-DD"
	EndDate            *string `json:"endDate,omitempty"`
	Gate               *string `json:"gate,omitempty"`
}

// GeneratedFlight is one flight created during an expansion run.
type GeneratedFlight struct {
	FlightNumber string `json:"flightNumber"`
	Date         string `json:"date"`
}

// GenerateResult reports an expansion run: the flights actually created
// (skipped duplicates excluded) and any dates that failed independently.
type GenerateResult struct {
	Created []GeneratedFlight `json:"flights"`
	Failed  []string          `json:"failedDates,omitempty"`
}

// templateRepository is the slice of the store the template service reads
// and writes.
type templateRepository interface {
	ListTemplates(ctx context.Context) ([]database.FlightTemplate, error)
	GetTemplateByID(ctx context.Context, id int64) (*database.FlightTemplate, error)
	CreateTemplate(ctx context.Context, t *database.FlightTemplate) error
	DeactivateTemplate(ctx context.Context, id int64) error
	GetRouteByID(ctx context.Context, id int64) (*database.Route, error)
	GetAircraftByID(ctx context.Context, id int64) (*database.Aircraft, error)
	GetFlightByNumber(ctx context.Context, number string) (*database.Flight, error)
	CreateFlightWithSeats(ctx context.Context, f *database.Flight, seats []database.Seat) error
}

// TemplateService covers recurring flight templates and their expansion.
type TemplateService interface {
	List(ctx context.Context) ([]database.FlightTemplate, error)
	Create(ctx context.Context, req CreateTemplateRequest, actor *database.User) (*database.FlightTemplate, error)
	Generate(ctx context.Context, templateID int64, daysAhead int, actor *database.User) (*GenerateResult, error)
	Deactivate(ctx context.Context, templateID int64, actor *database.User) error
}

type templateServiceImpl struct {
	repo  templateRepository
	clock schedule.Clock
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(repo templateRepository, clock schedule.Clock) TemplateService {
	return &templateServiceImpl{repo: repo, clock: clock}
}

func (s *templateServiceImpl) List(ctx context.Context) ([]database.FlightTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *templateServiceImpl) Create(ctx context.Context, req CreateTemplateRequest, actor *database.User) (*database.FlightTemplate, error) {
	if req.TemplateName == "" || req.FlightNumberPrefix == "" {
		return nil, fmt.Errorf("%w: template name and flight number prefix are required", ErrValidation)
	}
	switch req.RecurrenceType {
	case database.RecurrenceDaily, database.RecurrenceWeekly, database.RecurrenceMonthly:
	default:
		return nil, fmt.Errorf("%w: unknown recurrence type %q", ErrValidation, req.RecurrenceType)
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date, use YYYY-MM-DD", ErrValidation)
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date, use YYYY-MM-DD", ErrValidation)
		}
		endDate = &parsed
	}

	if _, err := s.repo.GetRouteByID(ctx, req.RouteID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAircraftByID(ctx, req.AircraftID); err != nil {
		return nil, err
	}

	tpl := &database.FlightTemplate{
		TemplateName:       req.TemplateName,
		FlightNumberPrefix: req.FlightNumberPrefix,
		RouteID:            req.RouteID,
		AircraftID:         req.AircraftID,
		RecurrenceType:     req.RecurrenceType,
		DaysOfWeek:         req.DaysOfWeek,
		DepartureTime:      req.DepartureTime,
		DurationMinutes:    req.DurationMinutes,
		StartDate:          startDate,
		EndDate:            endDate,
		Gate:               req.Gate,
		IsActive:           true,
		CreatedBy:          actor.ID,
	}

	// Validate the recurrence rule up front by expanding an empty window.
	if _, err := schedule.Expand(tpl, startDate, startDate); err != nil {
		if errors.Is(err, schedule.ErrInvalidTemplate) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}

	if err := s.repo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Generate expands a template over the next daysAhead days. Each matched
// date is handled independently: existing flight numbers are skipped
// silently, a lost insert race counts as a skip, and any other per-date
// failure is recorded without aborting the rest of the batch.
func (s *templateServiceImpl) Generate(ctx context.Context, templateID int64, daysAhead int, actor *database.User) (*GenerateResult, error) {
	tpl, err := s.repo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	route, err := s.repo.GetRouteByID(ctx, tpl.RouteID)
	if err != nil {
		return nil, err
	}
	aircraft, err := s.repo.GetAircraftByID(ctx, tpl.AircraftID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now()
	occurrences, err := schedule.Expand(tpl, today, today.AddDate(0, 0, daysAhead))
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Created: []GeneratedFlight{}}
	for _, occ := range occurrences {
		created, err := s.createOccurrence(ctx, tpl, route, aircraft, occ)
		if err != nil {
			log.Printf("TemplateService: template %d: failed to create flight %s: %v", tpl.ID, occ.FlightNumber, err)
			result.Failed = append(result.Failed, occ.Date.Format("2006-01-02"))
			continue
		}
		if created {
			result.Created = append(result.Created, GeneratedFlight{
				FlightNumber: occ.FlightNumber,
				Date:         occ.Date.Format("2006-01-02"),
			})
		}
	}
	return result, nil
}

// createOccurrence creates one date's flight with its seat map. It returns
// false when the flight number already exists, which is the designed
// duplicate-date skip, not an error.
func (s *templateServiceImpl) createOccurrence(ctx context.Context, tpl *database.FlightTemplate, route *database.Route, aircraft *database.Aircraft, occ schedule.Occurrence) (bool, error) {
	if _, err := s.repo.GetFlightByNumber(ctx, occ.FlightNumber); err == nil {
		return false, nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return false, err
	}

	flight := &database.Flight{
		FlightNumber:      occ.FlightNumber,
		RouteID:           tpl.RouteID,
		AircraftID:        tpl.AircraftID,
		DepartureDatetime: occ.Departure,
		ArrivalDatetime:   occ.Arrival,
		Status:            database.FlightStatusScheduled,
		AvailableEconomy:  aircraft.EconomySeats,
		AvailableBusiness: aircraft.BusinessSeats,
		AvailableFirst:    aircraft.FirstClassSeats,
		Gate:              tpl.Gate,
		ParentTemplateID:  &tpl.ID,
	}

	seats, err := seatmap.Generate(seatmap.LayoutFor(aircraft), seatmap.PricingFor(route), 0)
	if err != nil {
		return false, err
	}

	if err := s.repo.CreateFlightWithSeats(ctx, flight, seats); err != nil {
		// A concurrent expansion won the insert; the unique flight-number
		// constraint is the backstop for the check-then-create race.
		if errors.Is(err, database.ErrConflict) {
			return false, nil
		}
		return false, err
	}

	monitoring.ObserveFlightGenerated(tpl.TemplateName, len(seats))
	return true, nil
}

func (s *templateServiceImpl) Deactivate(ctx context.Context, templateID int64, actor *database.User) error {
	if actor.Role != database.RoleAdmin {
		return fmt.Errorf("%w: only admins can deactivate templates", ErrForbidden)
	}
	return s.repo.DeactivateTemplate(ctx, templateID)
}
