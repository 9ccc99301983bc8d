package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/monitoring"
	"github.com/skylink-air/skylink-backend/internal/realtime"
	"github.com/skylink-air/skylink-backend/internal/schedule"
	"github.com/skylink-air/skylink-backend/internal/seatmap"
)

// CreateFlightRequest is the input for creating a single flight by hand.
type CreateFlightRequest struct {
	FlightNumber      string    `json:"flightNumber"`
	RouteID           int64     `json:"routeId"`
	AircraftID        int64     `json:"aircraftId"`
	DepartureDatetime time.Time `json:"departureDatetime"`
	ArrivalDatetime   time.Time `json:"arrivalDatetime"`
	Gate              *string   `json:"gate,omitempty"`
}

// UpdateFlightRequest carries the optional fields of a partial flight
// update; only fields present are applied.
type UpdateFlightRequest struct {
	Status             *string    `json:"status,omitempty"`
	Gate               *string    `json:"gate,omitempty"`
	DepartureDatetime  *time.Time `json:"departureDatetime,omitempty"`
	ArrivalDatetime    *time.Time `json:"arrivalDatetime,omitempty"`
	Reason             *string    `json:"reason,omitempty"`
	DelayReason        *string    `json:"delayReason,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
}

// SaveCostsRequest is the input for recording a flight's operational costs.
type SaveCostsRequest struct {
	FuelCost        decimal.Decimal `json:"fuelCost"`
	CrewCost        decimal.Decimal `json:"crewCost"`
	AirportCharges  decimal.Decimal `json:"airportCharges"`
	CateringCost    decimal.Decimal `json:"cateringCost"`
	MaintenanceCost decimal.Decimal `json:"maintenanceCost"`
	OtherCosts      decimal.Decimal `json:"otherCosts"`
	Notes           *string         `json:"notes,omitempty"`
}

// CostsResponse is the cost row of a flight with the computed total. A
// flight without recorded costs yields the zero structure.
type CostsResponse struct {
	ID              int64           `json:"id"`
	FlightID        int64           `json:"flightId"`
	FuelCost        decimal.Decimal `json:"fuelCost"`
	CrewCost        decimal.Decimal `json:"crewCost"`
	AirportCharges  decimal.Decimal `json:"airportCharges"`
	CateringCost    decimal.Decimal `json:"cateringCost"`
	MaintenanceCost decimal.Decimal `json:"maintenanceCost"`
	OtherCosts      decimal.Decimal `json:"otherCosts"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	Notes           *string         `json:"notes,omitempty"`
	RecordedAt      *time.Time      `json:"recordedAt,omitempty"`
}

// flightRepository is the slice of the store the flight service reads and
// writes.
type flightRepository interface {
	SearchFlights(ctx context.Context, origin, destination string, departureDate *time.Time) ([]database.FlightDetails, error)
	ListFlights(ctx context.Context) ([]database.Flight, error)
	GetFlightDetails(ctx context.Context, id int64) (*database.FlightDetails, error)
	GetFlightByID(ctx context.Context, id int64) (*database.Flight, error)
	GetFlightByNumber(ctx context.Context, number string) (*database.Flight, error)
	ListSeats(ctx context.Context, flightID int64) ([]database.Seat, error)
	GetRouteByID(ctx context.Context, id int64) (*database.Route, error)
	GetAircraftByID(ctx context.Context, id int64) (*database.Aircraft, error)
	CreateFlightWithSeats(ctx context.Context, f *database.Flight, seats []database.Seat) error
	UpdateFlight(ctx context.Context, id int64, upd database.FlightUpdate) error
	InsertStatusLog(ctx context.Context, log *database.FlightStatusLog) error
	ListStatusLogs(ctx context.Context, flightID int64) ([]database.FlightStatusLog, error)
	InsertAuditLog(ctx context.Context, log *database.FlightAuditLog) error
	GetOperationalCost(ctx context.Context, flightID int64) (*database.FlightOperationalCost, error)
	UpsertOperationalCost(ctx context.Context, c *database.FlightOperationalCost) error
}

// FlightService covers flight lifecycle, search, status history and costs.
type FlightService interface {
	Search(ctx context.Context, origin, destination, departureDate string) ([]database.FlightDetails, error)
	ListAll(ctx context.Context) ([]database.Flight, error)
	Details(ctx context.Context, id int64) (*database.FlightDetails, error)
	Seats(ctx context.Context, id int64) ([]database.Seat, error)
	Create(ctx context.Context, req CreateFlightRequest, actor *database.User) (*database.Flight, error)
	Update(ctx context.Context, id int64, req UpdateFlightRequest, actor *database.User) (*database.Flight, error)
	Cancel(ctx context.Context, id int64, actor *database.User) error
	StatusHistory(ctx context.Context, id int64) ([]database.FlightStatusLog, error)
	Costs(ctx context.Context, flightID int64) (*CostsResponse, error)
	SaveCosts(ctx context.Context, flightID int64, req SaveCostsRequest, actor *database.User) (*database.FlightOperationalCost, error)
}

type flightServiceImpl struct {
	repo  flightRepository
	hub   *realtime.Hub
	clock schedule.Clock
}

// NewFlightService creates a FlightService. hub may be nil in tests.
func NewFlightService(repo flightRepository, hub *realtime.Hub, clock schedule.Clock) FlightService {
	return &flightServiceImpl{repo: repo, hub: hub, clock: clock}
}

func (s *flightServiceImpl) Search(ctx context.Context, origin, destination, departureDate string) ([]database.FlightDetails, error) {
	var day *time.Time
	if departureDate != "" {
		parsed, err := time.Parse("2006-01-02", departureDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
		}
		day = &parsed
	}
	return s.repo.SearchFlights(ctx, origin, destination, day)
}

func (s *flightServiceImpl) ListAll(ctx context.Context) ([]database.Flight, error) {
	return s.repo.ListFlights(ctx)
}

func (s *flightServiceImpl) Details(ctx context.Context, id int64) (*database.FlightDetails, error) {
	return s.repo.GetFlightDetails(ctx, id)
}

func (s *flightServiceImpl) Seats(ctx context.Context, id int64) ([]database.Seat, error) {
	if _, err := s.repo.GetFlightByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListSeats(ctx, id)
}

func (s *flightServiceImpl) Create(ctx context.Context, req CreateFlightRequest, actor *database.User) (*database.Flight, error) {
	if req.FlightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", ErrValidation)
	}
	if !req.ArrivalDatetime.After(req.DepartureDatetime) {
		return nil, fmt.Errorf("%w: arrival must be after departure", ErrValidation)
	}

	if _, err := s.repo.GetFlightByNumber(ctx, req.FlightNumber); err == nil {
		return nil, fmt.Errorf("%w: flight number %s", database.ErrConflict, req.FlightNumber)
	}
	route, err := s.repo.GetRouteByID(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	aircraft, err := s.repo.GetAircraftByID(ctx, req.AircraftID)
	if err != nil {
		return nil, err
	}
	if aircraft.Status != database.AircraftStatusActive {
		return nil, fmt.Errorf("%w: aircraft is not active", ErrValidation)
	}

	flight := &database.Flight{
		FlightNumber:      req.FlightNumber,
		RouteID:           route.ID,
		AircraftID:        aircraft.ID,
		DepartureDatetime: req.DepartureDatetime,
		ArrivalDatetime:   req.ArrivalDatetime,
		Status:            database.FlightStatusScheduled,
		AvailableEconomy:  aircraft.EconomySeats,
		AvailableBusiness: aircraft.BusinessSeats,
		AvailableFirst:    aircraft.FirstClassSeats,
		Gate:              req.Gate,
	}

	seats, err := seatmap.Generate(seatmap.LayoutFor(aircraft), seatmap.PricingFor(route), 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateFlightWithSeats(ctx, flight, seats); err != nil {
		return nil, err
	}

	s.audit(ctx, flight.ID, "created", actor, nil, map[string]any{
		"flight_number": flight.FlightNumber,
		"status":        flight.Status,
	}, nil)

	return flight, nil
}

func (s *flightServiceImpl) Update(ctx context.Context, id int64, req UpdateFlightRequest, actor *database.User) (*database.Flight, error) {
	flight, err := s.repo.GetFlightByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValues := map[string]any{}
	newValues := map[string]any{}

	statusChanged := req.Status != nil && *req.Status != flight.Status
	if statusChanged {
		// Delay and cancellation transitions must carry a reason before any
		// state is mutated or logged.
		if *req.Status == database.FlightStatusDelayed && emptyReason(req.DelayReason) {
			return nil, fmt.Errorf("%w: delay reason is required when marking flight as delayed", ErrValidation)
		}
		if *req.Status == database.FlightStatusCancelled && emptyReason(req.CancellationReason) {
			return nil, fmt.Errorf("%w: cancellation reason is required when cancelling flight", ErrValidation)
		}

		oldValues["status"] = flight.Status
		newValues["status"] = *req.Status
	}

	if req.Gate != nil {
		oldValues["gate"] = flight.Gate
		newValues["gate"] = *req.Gate
	}
	if req.DepartureDatetime != nil {
		oldValues["departure_datetime"] = flight.DepartureDatetime
		newValues["departure_datetime"] = *req.DepartureDatetime
	}
	if req.ArrivalDatetime != nil {
		oldValues["arrival_datetime"] = flight.ArrivalDatetime
		newValues["arrival_datetime"] = *req.ArrivalDatetime
	}

	upd := database.FlightUpdate{
		Status:             req.Status,
		Gate:               req.Gate,
		DepartureDatetime:  req.DepartureDatetime,
		ArrivalDatetime:    req.ArrivalDatetime,
		DelayReason:        req.DelayReason,
		CancellationReason: req.CancellationReason,
	}
	if err := s.repo.UpdateFlight(ctx, id, upd); err != nil {
		return nil, err
	}

	// History and subscribers only hear about a transition once it is in the
	// flights table. A failed update must leave neither.
	var reason *string
	if txt := reasonText(req.Reason, req.DelayReason, req.CancellationReason); txt != "" {
		reason = &txt
	}
	if statusChanged {
		statusLog := &database.FlightStatusLog{
			FlightID:  flight.ID,
			OldStatus: flight.Status,
			NewStatus: *req.Status,
			Reason:    reason,
			ChangedBy: actor.ID,
			ChangedAt: s.clock.Now(),
		}
		if err := s.repo.InsertStatusLog(ctx, statusLog); err != nil {
			log.Printf("FlightService: failed to record status change for flight %d: %v", flight.ID, err)
		}
		monitoring.ObserveStatusTransition(*req.Status)
		if s.hub != nil {
			s.hub.BroadcastStatusChange(flight.ID, flight.Status, *req.Status, reasonText(reason))
		}
	}
	if req.Gate != nil && s.hub != nil {
		s.hub.BroadcastGateChange(flight.ID, *req.Gate)
	}

	s.audit(ctx, id, "updated", actor, oldValues, newValues, reason)

	return s.repo.GetFlightByID(ctx, id)
}

func (s *flightServiceImpl) Cancel(ctx context.Context, id int64, actor *database.User) error {
	flight, err := s.repo.GetFlightByID(ctx, id)
	if err != nil {
		return err
	}
	if flight.Status == database.FlightStatusDeparted {
		return fmt.Errorf("%w: cannot cancel a flight that has already departed", ErrValidation)
	}

	reason := "Cancelled by admin"
	cancelled := database.FlightStatusCancelled
	upd := database.FlightUpdate{Status: &cancelled, CancellationReason: &reason}
	if err := s.repo.UpdateFlight(ctx, id, upd); err != nil {
		return err
	}

	statusLog := &database.FlightStatusLog{
		FlightID:  id,
		OldStatus: flight.Status,
		NewStatus: cancelled,
		Reason:    &reason,
		ChangedBy: actor.ID,
		ChangedAt: s.clock.Now(),
	}
	if err := s.repo.InsertStatusLog(ctx, statusLog); err != nil {
		log.Printf("FlightService: failed to record cancellation for flight %d: %v", id, err)
	}
	monitoring.ObserveStatusTransition(cancelled)
	if s.hub != nil {
		s.hub.BroadcastStatusChange(id, flight.Status, cancelled, reason)
	}

	s.audit(ctx, id, "cancelled", actor, nil, nil, &reason)
	return nil
}

func (s *flightServiceImpl) StatusHistory(ctx context.Context, id int64) ([]database.FlightStatusLog, error) {
	if _, err := s.repo.GetFlightByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListStatusLogs(ctx, id)
}

func (s *flightServiceImpl) Costs(ctx context.Context, flightID int64) (*CostsResponse, error) {
	costs, err := s.repo.GetOperationalCost(ctx, flightID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &CostsResponse{FlightID: flightID}, nil
		}
		return nil, err
	}

	total := costs.FuelCost.
		Add(costs.CrewCost).
		Add(costs.AirportCharges).
		Add(costs.CateringCost).
		Add(costs.MaintenanceCost).
		Add(costs.OtherCosts)

	recordedAt := costs.RecordedAt
	return &CostsResponse{
		ID:              costs.ID,
		FlightID:        costs.FlightID,
		FuelCost:        costs.FuelCost,
		CrewCost:        costs.CrewCost,
		AirportCharges:  costs.AirportCharges,
		CateringCost:    costs.CateringCost,
		MaintenanceCost: costs.MaintenanceCost,
		OtherCosts:      costs.OtherCosts,
		TotalCost:       total,
		Notes:           costs.Notes,
		RecordedAt:      &recordedAt,
	}, nil
}

func (s *flightServiceImpl) SaveCosts(ctx context.Context, flightID int64, req SaveCostsRequest, actor *database.User) (*database.FlightOperationalCost, error) {
	if _, err := s.repo.GetFlightByID(ctx, flightID); err != nil {
		return nil, err
	}

	costs := &database.FlightOperationalCost{
		FlightID:        flightID,
		FuelCost:        req.FuelCost,
		CrewCost:        req.CrewCost,
		AirportCharges:  req.AirportCharges,
		CateringCost:    req.CateringCost,
		MaintenanceCost: req.MaintenanceCost,
		OtherCosts:      req.OtherCosts,
		Notes:           req.Notes,
		RecordedBy:      actor.ID,
	}
	if err := s.repo.UpsertOperationalCost(ctx, costs); err != nil {
		return nil, err
	}
	return costs, nil
}

// audit appends an audit record; failures are logged, not surfaced, so the
// trail never breaks the operation it describes.
func (s *flightServiceImpl) audit(ctx context.Context, flightID int64, action string, actor *database.User, oldValues, newValues map[string]any, reason *string) {
	entry := &database.FlightAuditLog{
		FlightID:    flightID,
		Action:      action,
		PerformedBy: actor.ID,
		OldValues:   oldValues,
		NewValues:   newValues,
		Reason:      reason,
		Timestamp:   s.clock.Now(),
	}
	if err := s.repo.InsertAuditLog(ctx, entry); err != nil {
		log.Printf("FlightService: failed to record audit %s for flight %d: %v", action, flightID, err)
	}
}

func emptyReason(reason *string) bool {
	return reason == nil || *reason == ""
}

func reasonText(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}
