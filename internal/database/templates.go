package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const templateColumns = `id, template_name, flight_number_prefix, route_id, aircraft_id,
	recurrence_type, days_of_week, departure_time, duration_minutes,
	start_date, end_date, gate, is_active, created_by, created_at`

func scanTemplate(row pgx.Row) (*FlightTemplate, error) {
	var t FlightTemplate
	err := row.Scan(
		&t.ID, &t.TemplateName, &t.FlightNumberPrefix, &t.RouteID, &t.AircraftID,
		&t.RecurrenceType, &t.DaysOfWeek, &t.DepartureTime, &t.DurationMinutes,
		&t.StartDate, &t.EndDate, &t.Gate, &t.IsActive, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}
	return &t, nil
}

// ListTemplates returns every flight template.
func (r *Repository) ListTemplates(ctx context.Context) ([]FlightTemplate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM flight_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []FlightTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, nil
}

// GetTemplateByID returns one template by primary key.
func (r *Repository) GetTemplateByID(ctx context.Context, id int64) (*FlightTemplate, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM flight_templates WHERE id = $1`, id))
}

// CreateTemplate inserts a new flight template.
func (r *Repository) CreateTemplate(ctx context.Context, t *FlightTemplate) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO flight_templates
			(template_name, flight_number_prefix, route_id, aircraft_id, recurrence_type,
			 days_of_week, departure_time, duration_minutes, start_date, end_date, gate, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, t.TemplateName, t.FlightNumberPrefix, t.RouteID, t.AircraftID, t.RecurrenceType,
		t.DaysOfWeek, t.DepartureTime, t.DurationMinutes, t.StartDate, t.EndDate, t.Gate, t.IsActive, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// DeactivateTemplate flips the active flag. Flights already generated from
// the template are left untouched.
func (r *Repository) DeactivateTemplate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE flight_templates SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
