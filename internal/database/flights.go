package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const flightColumns = `id, flight_number, route_id, aircraft_id, departure_datetime, arrival_datetime,
	status, available_economy, available_business, available_first, gate,
	delay_reason, cancellation_reason, parent_template_id, created_at, updated_at`

func scanFlight(row pgx.Row) (*Flight, error) {
	var f Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.RouteID, &f.AircraftID, &f.DepartureDatetime, &f.ArrivalDatetime,
		&f.Status, &f.AvailableEconomy, &f.AvailableBusiness, &f.AvailableFirst, &f.Gate,
		&f.DelayReason, &f.CancellationReason, &f.ParentTemplateID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan flight: %w", err)
	}
	return &f, nil
}

// ListFlights returns every flight, newest departure first.
func (r *Repository) ListFlights(ctx context.Context) ([]Flight, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_datetime DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, nil
}

// GetFlightByID returns a flight by primary key.
func (r *Repository) GetFlightByID(ctx context.Context, id int64) (*Flight, error) {
	return scanFlight(r.pool.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = $1`, id))
}

// GetFlightByNumber returns a flight by its unique flight number. Template
// expansion uses this as the idempotency probe before creating a date.
func (r *Repository) GetFlightByNumber(ctx context.Context, number string) (*Flight, error) {
	return scanFlight(r.pool.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number = $1`, number))
}

// CreateFlightWithSeats inserts a flight and its full seat map in one
// transaction; the flight row and its seats commit together or not at all.
// A duplicate flight number maps to ErrConflict, which expansion treats as a
// lost race rather than a failure.
func (r *Repository) CreateFlightWithSeats(ctx context.Context, f *Flight, seats []Seat) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO flights (flight_number, route_id, aircraft_id, departure_datetime, arrival_datetime,
		                     status, available_economy, available_business, available_first, gate, parent_template_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, f.FlightNumber, f.RouteID, f.AircraftID, f.DepartureDatetime, f.ArrivalDatetime,
		f.Status, f.AvailableEconomy, f.AvailableBusiness, f.AvailableFirst, f.Gate, f.ParentTemplateID,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert flight: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range seats {
		seats[i].FlightID = f.ID
		batch.Queue(`
			INSERT INTO seats (flight_id, seat_number, seat_class, is_available, is_window, is_aisle, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, f.ID, seats[i].SeatNumber, seats[i].SeatClass, seats[i].IsAvailable, seats[i].IsWindow, seats[i].IsAisle, seats[i].Price)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to bulk insert seats: %w", err)
	}

	return tx.Commit(ctx)
}

// ListSeats returns the seat map of a flight in generation order.
func (r *Repository) ListSeats(ctx context.Context, flightID int64) ([]Seat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, flight_id, seat_number, seat_class, is_available, is_window, is_aisle, price
		FROM seats
		WHERE flight_id = $1
		ORDER BY id
	`, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seats: %w", err)
	}
	defer rows.Close()

	var seats []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.SeatClass, &s.IsAvailable, &s.IsWindow, &s.IsAisle, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, s)
	}
	return seats, nil
}

// FlightUpdate carries the optional fields of a partial flight update.
type FlightUpdate struct {
	Status             *string
	Gate               *string
	DepartureDatetime  *time.Time
	ArrivalDatetime    *time.Time
	DelayReason        *string
	CancellationReason *string
}

// UpdateFlight applies a partial update to a flight.
func (r *Repository) UpdateFlight(ctx context.Context, id int64, upd FlightUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := 1
	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}
	if upd.Status != nil {
		appendSet("status", *upd.Status)
	}
	if upd.Gate != nil {
		appendSet("gate", *upd.Gate)
	}
	if upd.DepartureDatetime != nil {
		appendSet("departure_datetime", *upd.DepartureDatetime)
	}
	if upd.ArrivalDatetime != nil {
		appendSet("arrival_datetime", *upd.ArrivalDatetime)
	}
	if upd.DelayReason != nil {
		appendSet("delay_reason", *upd.DelayReason)
	}
	if upd.CancellationReason != nil {
		appendSet("cancellation_reason", *upd.CancellationReason)
	}
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, fmt.Sprintf("UPDATE flights SET %s WHERE id = $%d", strings.Join(sets, ", "), arg), args...)
	if err != nil {
		return fmt.Errorf("failed to update flight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FlightDetails joins a flight with its route, aircraft and both airports.
type FlightDetails struct {
	Flight      Flight   `json:"flight"`
	Route       Route    `json:"route"`
	Aircraft    Aircraft `json:"aircraft"`
	Origin      Airport  `json:"originAirport"`
	Destination Airport  `json:"destinationAirport"`
}

const flightDetailsQuery = `
	SELECT f.id, f.flight_number, f.route_id, f.aircraft_id, f.departure_datetime, f.arrival_datetime,
	       f.status, f.available_economy, f.available_business, f.available_first, f.gate,
	       f.delay_reason, f.cancellation_reason, f.parent_template_id, f.created_at, f.updated_at,
	       r.id, r.origin_airport_id, r.destination_airport_id, r.distance_km, r.estimated_duration,
	       r.base_price_economy, r.base_price_business, r.base_price_first, r.is_active, r.created_at,
	       a.id, a.aircraft_number, a.model, a.manufacturer, a.total_seats,
	       a.economy_seats, a.business_seats, a.first_class_seats, a.manufacturing_year, a.status,
	       a.economy_start_row, a.business_start_row, a.first_start_row,
	       a.seats_per_row_economy, a.seats_per_row_business, a.seats_per_row_first,
	       a.created_at, a.updated_at,
	       o.id, o.code, o.name, o.city, o.country, o.timezone, o.created_at,
	       d.id, d.code, d.name, d.city, d.country, d.timezone, d.created_at
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN aircraft a ON a.id = f.aircraft_id
	JOIN airports o ON o.id = r.origin_airport_id
	JOIN airports d ON d.id = r.destination_airport_id
`

func scanFlightDetails(row pgx.Row) (*FlightDetails, error) {
	var fd FlightDetails
	f, r, a := &fd.Flight, &fd.Route, &fd.Aircraft
	o, d := &fd.Origin, &fd.Destination
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.RouteID, &f.AircraftID, &f.DepartureDatetime, &f.ArrivalDatetime,
		&f.Status, &f.AvailableEconomy, &f.AvailableBusiness, &f.AvailableFirst, &f.Gate,
		&f.DelayReason, &f.CancellationReason, &f.ParentTemplateID, &f.CreatedAt, &f.UpdatedAt,
		&r.ID, &r.OriginAirportID, &r.DestinationAirportID, &r.DistanceKM, &r.EstimatedDuration,
		&r.BasePriceEconomy, &r.BasePriceBusiness, &r.BasePriceFirst, &r.IsActive, &r.CreatedAt,
		&a.ID, &a.AircraftNumber, &a.Model, &a.Manufacturer, &a.TotalSeats,
		&a.EconomySeats, &a.BusinessSeats, &a.FirstClassSeats, &a.ManufacturingYear, &a.Status,
		&a.EconomyStartRow, &a.BusinessStartRow, &a.FirstStartRow,
		&a.SeatsPerRowEconomy, &a.SeatsPerRowBusiness, &a.SeatsPerRowFirst,
		&a.CreatedAt, &a.UpdatedAt,
		&o.ID, &o.Code, &o.Name, &o.City, &o.Country, &o.Timezone, &o.CreatedAt,
		&d.ID, &d.Code, &d.Name, &d.City, &d.Country, &d.Timezone, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan flight details: %w", err)
	}
	return &fd, nil
}

// GetFlightDetails returns one flight joined with its route, aircraft and airports.
func (r *Repository) GetFlightDetails(ctx context.Context, id int64) (*FlightDetails, error) {
	return scanFlightDetails(r.pool.QueryRow(ctx, flightDetailsQuery+` WHERE f.id = $1`, id))
}

// SearchFlights returns scheduled and boarding flights, optionally filtered
// by origin code, destination code and departure date, in one joined query.
func (r *Repository) SearchFlights(ctx context.Context, origin, destination string, departureDate *time.Time) ([]FlightDetails, error) {
	query := flightDetailsQuery + ` WHERE f.status IN ('scheduled', 'boarding')`
	args := []any{}
	arg := 1
	if origin != "" {
		query += fmt.Sprintf(" AND UPPER(o.code) = UPPER($%d)", arg)
		args = append(args, origin)
		arg++
	}
	if destination != "" {
		query += fmt.Sprintf(" AND UPPER(d.code) = UPPER($%d)", arg)
		args = append(args, destination)
		arg++
	}
	if departureDate != nil {
		query += fmt.Sprintf(" AND f.departure_datetime >= $%d AND f.departure_datetime < $%d", arg, arg+1)
		day := time.Date(departureDate.Year(), departureDate.Month(), departureDate.Day(), 0, 0, 0, 0, departureDate.Location())
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	query += ` ORDER BY f.departure_datetime`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	defer rows.Close()

	var results []FlightDetails
	for rows.Next() {
		fd, err := scanFlightDetails(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *fd)
	}
	return results, nil
}

// InsertStatusLog appends one status transition record.
func (r *Repository) InsertStatusLog(ctx context.Context, log *FlightStatusLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO flight_status_logs (flight_id, old_status, new_status, reason, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, log.FlightID, log.OldStatus, log.NewStatus, log.Reason, log.ChangedBy, log.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}
	return nil
}

// ListStatusLogs returns a flight's status history, most recent first.
func (r *Repository) ListStatusLogs(ctx context.Context, flightID int64) ([]FlightStatusLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, flight_id, old_status, new_status, reason, changed_by, changed_at
		FROM flight_status_logs
		WHERE flight_id = $1
		ORDER BY changed_at DESC
	`, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status logs: %w", err)
	}
	defer rows.Close()

	var logs []FlightStatusLog
	for rows.Next() {
		var l FlightStatusLog
		if err := rows.Scan(&l.ID, &l.FlightID, &l.OldStatus, &l.NewStatus, &l.Reason, &l.ChangedBy, &l.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// InsertAuditLog appends one audit record. Old/new values are stored as JSONB.
func (r *Repository) InsertAuditLog(ctx context.Context, log *FlightAuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO flight_audit_logs (flight_id, action, performed_by, old_values, new_values, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.FlightID, log.Action, log.PerformedBy, log.OldValues, log.NewValues, log.Reason, log.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// GetOperationalCost returns the cost row for a flight.
func (r *Repository) GetOperationalCost(ctx context.Context, flightID int64) (*FlightOperationalCost, error) {
	var c FlightOperationalCost
	err := r.pool.QueryRow(ctx, `
		SELECT id, flight_id, fuel_cost, crew_cost, airport_charges, catering_cost,
		       maintenance_cost, other_costs, notes, recorded_by, recorded_at
		FROM flight_operational_costs
		WHERE flight_id = $1
	`, flightID).Scan(
		&c.ID, &c.FlightID, &c.FuelCost, &c.CrewCost, &c.AirportCharges, &c.CateringCost,
		&c.MaintenanceCost, &c.OtherCosts, &c.Notes, &c.RecordedBy, &c.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get operational cost: %w", err)
	}
	return &c, nil
}

// UpsertOperationalCost creates or replaces the single cost row of a flight.
func (r *Repository) UpsertOperationalCost(ctx context.Context, c *FlightOperationalCost) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO flight_operational_costs
			(flight_id, fuel_cost, crew_cost, airport_charges, catering_cost, maintenance_cost, other_costs, notes, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (flight_id) DO UPDATE SET
			fuel_cost = EXCLUDED.fuel_cost,
			crew_cost = EXCLUDED.crew_cost,
			airport_charges = EXCLUDED.airport_charges,
			catering_cost = EXCLUDED.catering_cost,
			maintenance_cost = EXCLUDED.maintenance_cost,
			other_costs = EXCLUDED.other_costs,
			notes = EXCLUDED.notes,
			recorded_by = EXCLUDED.recorded_by,
			recorded_at = NOW()
		RETURNING id, recorded_at
	`, c.FlightID, c.FuelCost, c.CrewCost, c.AirportCharges, c.CateringCost,
		c.MaintenanceCost, c.OtherCosts, c.Notes, c.RecordedBy,
	).Scan(&c.ID, &c.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert operational cost: %w", err)
	}
	return nil
}
