package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/seatmap"
)

// CreateAircraftRequest is the input for adding an aircraft to the fleet.
// The cabin layout (start rows, seats per row) is derived from the seat
// counts, not supplied by the caller.
type CreateAircraftRequest struct {
	AircraftNumber    string `json:"aircraftNumber"`
	Model             string `json:"model"`
	Manufacturer      string `json:"manufacturer"`
	TotalSeats        int    `json:"totalSeats"`
	EconomySeats      int    `json:"economySeats"`
	BusinessSeats     int    `json:"businessSeats"`
	FirstClassSeats   int    `json:"firstClassSeats"`
	ManufacturingYear *int   `json:"manufacturingYear,omitempty"`
	Status            string `json:"status,omitempty"`
}

// UpdateAircraftRequest carries the optional fields of an aircraft update.
type UpdateAircraftRequest struct {
	Model  *string `json:"model,omitempty"`
	Status *string `json:"status,omitempty"`
}

// CreateAirportRequest is the input for adding an airport.
type CreateAirportRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone *string `json:"timezone,omitempty"`
}

// CreateRouteRequest is the input for adding a route.
type CreateRouteRequest struct {
	OriginAirportID      int64           `json:"originAirportId"`
	DestinationAirportID int64           `json:"destinationAirportId"`
	DistanceKM           *int            `json:"distanceKm,omitempty"`
	EstimatedDuration    *int            `json:"estimatedDuration,omitempty"`
	BasePriceEconomy     decimal.Decimal `json:"basePriceEconomy"`
	BasePriceBusiness    decimal.Decimal `json:"basePriceBusiness"`
	BasePriceFirst       decimal.Decimal `json:"basePriceFirst"`
}

// FleetService covers aircraft, airport and route management.
type FleetService interface {
	ListAircraft(ctx context.Context) ([]database.Aircraft, error)
	GetAircraft(ctx context.Context, id int64) (*database.Aircraft, error)
	CreateAircraft(ctx context.Context, req CreateAircraftRequest) (*database.Aircraft, error)
	UpdateAircraft(ctx context.Context, id int64, req UpdateAircraftRequest) (*database.Aircraft, error)
	ListAirports(ctx context.Context) ([]database.Airport, error)
	GetAirport(ctx context.Context, id int64) (*database.Airport, error)
	CreateAirport(ctx context.Context, req CreateAirportRequest) (*database.Airport, error)
	ListRoutes(ctx context.Context, activeOnly bool) ([]database.Route, error)
	CreateRoute(ctx context.Context, req CreateRouteRequest) (*database.Route, error)
}

type fleetServiceImpl struct {
	repo *database.Repository
}

// NewFleetService creates a FleetService.
func NewFleetService(repo *database.Repository) FleetService {
	return &fleetServiceImpl{repo: repo}
}

func (s *fleetServiceImpl) ListAircraft(ctx context.Context) ([]database.Aircraft, error) {
	return s.repo.ListAircraft(ctx)
}

func (s *fleetServiceImpl) GetAircraft(ctx context.Context, id int64) (*database.Aircraft, error) {
	return s.repo.GetAircraftByID(ctx, id)
}

func (s *fleetServiceImpl) CreateAircraft(ctx context.Context, req CreateAircraftRequest) (*database.Aircraft, error) {
	if req.AircraftNumber == "" || req.Model == "" || req.Manufacturer == "" {
		return nil, fmt.Errorf("%w: aircraft number, model and manufacturer are required", ErrValidation)
	}
	if req.TotalSeats <= 0 || req.EconomySeats < 0 || req.BusinessSeats < 0 || req.FirstClassSeats < 0 {
		return nil, fmt.Errorf("%w: seat counts must be non-negative with a positive total", ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = database.AircraftStatusActive
	}

	layout := seatmap.DeriveLayout(req.EconomySeats, req.BusinessSeats, req.FirstClassSeats)
	aircraft := &database.Aircraft{
		AircraftNumber:      req.AircraftNumber,
		Model:               req.Model,
		Manufacturer:        req.Manufacturer,
		TotalSeats:          req.TotalSeats,
		EconomySeats:        req.EconomySeats,
		BusinessSeats:       req.BusinessSeats,
		FirstClassSeats:     req.FirstClassSeats,
		ManufacturingYear:   req.ManufacturingYear,
		Status:              status,
		EconomyStartRow:     layout.EconomyStartRow,
		SeatsPerRowEconomy:  layout.SeatsPerRowEconomy,
		SeatsPerRowBusiness: layout.SeatsPerRowBusiness,
		SeatsPerRowFirst:    layout.SeatsPerRowFirst,
	}
	if req.BusinessSeats > 0 {
		row := layout.BusinessStartRow
		aircraft.BusinessStartRow = &row
	}
	if req.FirstClassSeats > 0 {
		row := layout.FirstStartRow
		aircraft.FirstStartRow = &row
	}

	if err := s.repo.CreateAircraft(ctx, aircraft); err != nil {
		return nil, err
	}
	return aircraft, nil
}

func (s *fleetServiceImpl) UpdateAircraft(ctx context.Context, id int64, req UpdateAircraftRequest) (*database.Aircraft, error) {
	upd := database.AircraftUpdate{Model: req.Model, Status: req.Status}
	if err := s.repo.UpdateAircraft(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.repo.GetAircraftByID(ctx, id)
}

func (s *fleetServiceImpl) ListAirports(ctx context.Context) ([]database.Airport, error) {
	return s.repo.ListAirports(ctx)
}

func (s *fleetServiceImpl) GetAirport(ctx context.Context, id int64) (*database.Airport, error) {
	return s.repo.GetAirportByID(ctx, id)
}

func (s *fleetServiceImpl) CreateAirport(ctx context.Context, req CreateAirportRequest) (*database.Airport, error) {
	if req.Code == "" || req.Name == "" || req.City == "" || req.Country == "" {
		return nil, fmt.Errorf("%w: code, name, city and country are required", ErrValidation)
	}

	airport := &database.Airport{
		Code:     req.Code,
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		Timezone: req.Timezone,
	}
	if err := s.repo.CreateAirport(ctx, airport); err != nil {
		return nil, err
	}
	return airport, nil
}

func (s *fleetServiceImpl) ListRoutes(ctx context.Context, activeOnly bool) ([]database.Route, error) {
	return s.repo.ListRoutes(ctx, activeOnly)
}

func (s *fleetServiceImpl) CreateRoute(ctx context.Context, req CreateRouteRequest) (*database.Route, error) {
	if req.OriginAirportID == req.DestinationAirportID {
		return nil, fmt.Errorf("%w: origin and destination must be different", ErrValidation)
	}
	if _, err := s.repo.GetAirportByID(ctx, req.OriginAirportID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAirportByID(ctx, req.DestinationAirportID); err != nil {
		return nil, err
	}

	route := &database.Route{
		OriginAirportID:      req.OriginAirportID,
		DestinationAirportID: req.DestinationAirportID,
		DistanceKM:           req.DistanceKM,
		EstimatedDuration:    req.EstimatedDuration,
		BasePriceEconomy:     req.BasePriceEconomy,
		BasePriceBusiness:    req.BasePriceBusiness,
		BasePriceFirst:       req.BasePriceFirst,
		IsActive:             true,
	}
	if err := s.repo.CreateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}
