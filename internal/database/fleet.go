package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const aircraftColumns = `id, aircraft_number, model, manufacturer, total_seats,
	economy_seats, business_seats, first_class_seats, manufacturing_year, status,
	economy_start_row, business_start_row, first_start_row,
	seats_per_row_economy, seats_per_row_business, seats_per_row_first,
	created_at, updated_at`

func scanAircraft(row pgx.Row) (*Aircraft, error) {
	var a Aircraft
	err := row.Scan(
		&a.ID, &a.AircraftNumber, &a.Model, &a.Manufacturer, &a.TotalSeats,
		&a.EconomySeats, &a.BusinessSeats, &a.FirstClassSeats, &a.ManufacturingYear, &a.Status,
		&a.EconomyStartRow, &a.BusinessStartRow, &a.FirstStartRow,
		&a.SeatsPerRowEconomy, &a.SeatsPerRowBusiness, &a.SeatsPerRowFirst,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan aircraft: %w", err)
	}
	return &a, nil
}

// ListAircraft returns the whole fleet.
func (r *Repository) ListAircraft(ctx context.Context) ([]Aircraft, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+aircraftColumns+` FROM aircraft ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}
	defer rows.Close()

	var fleet []Aircraft
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, *a)
	}
	return fleet, nil
}

// GetAircraftByID returns one aircraft by primary key.
func (r *Repository) GetAircraftByID(ctx context.Context, id int64) (*Aircraft, error) {
	return scanAircraft(r.pool.QueryRow(ctx, `SELECT `+aircraftColumns+` FROM aircraft WHERE id = $1`, id))
}

// CreateAircraft inserts a new aircraft with its derived cabin layout.
// Duplicate aircraft numbers map to ErrConflict.
func (r *Repository) CreateAircraft(ctx context.Context, a *Aircraft) error {
	query := `
		INSERT INTO aircraft (aircraft_number, model, manufacturer, total_seats,
		                      economy_seats, business_seats, first_class_seats, manufacturing_year, status,
		                      economy_start_row, business_start_row, first_start_row,
		                      seats_per_row_economy, seats_per_row_business, seats_per_row_first)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.AircraftNumber, a.Model, a.Manufacturer, a.TotalSeats,
		a.EconomySeats, a.BusinessSeats, a.FirstClassSeats, a.ManufacturingYear, a.Status,
		a.EconomyStartRow, a.BusinessStartRow, a.FirstStartRow,
		a.SeatsPerRowEconomy, a.SeatsPerRowBusiness, a.SeatsPerRowFirst,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create aircraft: %w", err)
	}
	return nil
}

// AircraftUpdate carries the optional fields of a partial aircraft update.
type AircraftUpdate struct {
	Model  *string
	Status *string
}

// UpdateAircraft applies a partial update to an aircraft.
func (r *Repository) UpdateAircraft(ctx context.Context, id int64, upd AircraftUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := 1
	if upd.Model != nil {
		sets = append(sets, fmt.Sprintf("model = $%d", arg))
		args = append(args, *upd.Model)
		arg++
	}
	if upd.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", arg))
		args = append(args, *upd.Status)
		arg++
	}
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, fmt.Sprintf("UPDATE aircraft SET %s WHERE id = $%d", strings.Join(sets, ", "), arg), args...)
	if err != nil {
		return fmt.Errorf("failed to update aircraft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const airportColumns = `id, code, name, city, country, timezone, created_at`

func scanAirport(row pgx.Row) (*Airport, error) {
	var a Airport
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country, &a.Timezone, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan airport: %w", err)
	}
	return &a, nil
}

// ListAirports returns all airports.
func (r *Repository) ListAirports(ctx context.Context) ([]Airport, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+airportColumns+` FROM airports ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []Airport
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		airports = append(airports, *a)
	}
	return airports, nil
}

// GetAirportByID returns one airport by primary key.
func (r *Repository) GetAirportByID(ctx context.Context, id int64) (*Airport, error) {
	return scanAirport(r.pool.QueryRow(ctx, `SELECT `+airportColumns+` FROM airports WHERE id = $1`, id))
}

// CreateAirport inserts a new airport. Duplicate codes map to ErrConflict.
func (r *Repository) CreateAirport(ctx context.Context, a *Airport) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO airports (code, name, city, country, timezone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.Code, a.Name, a.City, a.Country, a.Timezone).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create airport: %w", err)
	}
	return nil
}

const routeColumns = `id, origin_airport_id, destination_airport_id, distance_km, estimated_duration,
	base_price_economy, base_price_business, base_price_first, is_active, created_at`

func scanRoute(row pgx.Row) (*Route, error) {
	var rt Route
	err := row.Scan(
		&rt.ID, &rt.OriginAirportID, &rt.DestinationAirportID, &rt.DistanceKM, &rt.EstimatedDuration,
		&rt.BasePriceEconomy, &rt.BasePriceBusiness, &rt.BasePriceFirst, &rt.IsActive, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan route: %w", err)
	}
	return &rt, nil
}

// ListRoutes returns routes, optionally restricted to active ones.
func (r *Repository) ListRoutes(ctx context.Context, activeOnly bool) ([]Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *rt)
	}
	return routes, nil
}

// GetRouteByID returns one route by primary key.
func (r *Repository) GetRouteByID(ctx context.Context, id int64) (*Route, error) {
	return scanRoute(r.pool.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, id))
}

// CreateRoute inserts a new route.
func (r *Repository) CreateRoute(ctx context.Context, rt *Route) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO routes (origin_airport_id, destination_airport_id, distance_km, estimated_duration,
		                    base_price_economy, base_price_business, base_price_first, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, rt.OriginAirportID, rt.DestinationAirportID, rt.DistanceKM, rt.EstimatedDuration,
		rt.BasePriceEconomy, rt.BasePriceBusiness, rt.BasePriceFirst, rt.IsActive,
	).Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}
