// Package schedule expands recurring flight templates into the concrete
// dates they should fly. The walk is deterministic: it depends only on the
// template and the requested window, never on wall-clock time, so callers
// inject "today" through a Clock.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/skylink-air/skylink-backend/internal/database"
)

var (
	// ErrInactiveTemplate is returned when expansion is requested on a
	// deactivated template.
	ErrInactiveTemplate = errors.New("template is inactive")

	// ErrInvalidTemplate is returned for malformed recurrence input such as
	// an unknown recurrence type or an unparseable departure time.
	ErrInvalidTemplate = errors.New("invalid template")
)

// Clock supplies the current time. Injected so expansion windows and audit
// timestamps stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Occurrence is one date a template should fly, with the synthesized flight
// number that serves as the idempotency key for that date.
type Occurrence struct {
	FlightNumber string
	Date         time.Time
	Departure    time.Time
	Arrival      time.Time
}

// Expand walks calendar days from max(windowStart, template start) through
// min(windowEnd, template end) inclusive and returns, in date order, every
// occurrence the recurrence rule matches. Weekly rules without a weekday set
// never match; monthly rules match only the start date's day-of-month, so
// months lacking that day are skipped rather than rolled to month-end.
func Expand(tpl *database.FlightTemplate, windowStart, windowEnd time.Time) ([]Occurrence, error) {
	if !tpl.IsActive {
		return nil, ErrInactiveTemplate
	}

	depHour, depMinute, err := parseDepartureTime(tpl.DepartureTime)
	if err != nil {
		return nil, err
	}

	var allowedDays map[int]bool
	switch tpl.RecurrenceType {
	case database.RecurrenceDaily, database.RecurrenceMonthly:
	case database.RecurrenceWeekly:
		allowedDays, err = parseDaysOfWeek(tpl.DaysOfWeek)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidTemplate, tpl.RecurrenceType)
	}

	start := dateOnly(windowStart)
	if tplStart := dateOnly(tpl.StartDate); tplStart.After(start) {
		start = tplStart
	}
	end := dateOnly(windowEnd)
	if tpl.EndDate != nil {
		if tplEnd := dateOnly(*tpl.EndDate); tplEnd.Before(end) {
			end = tplEnd
		}
	}

	var occurrences []Occurrence
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		include := false
		switch tpl.RecurrenceType {
		case database.RecurrenceDaily:
			include = true
		case database.RecurrenceWeekly:
			include = allowedDays[isoWeekday(d)]
		case database.RecurrenceMonthly:
			include = d.Day() == tpl.StartDate.Day()
		}
		if !include {
			continue
		}

		departure := time.Date(d.Year(), d.Month(), d.Day(), depHour, depMinute, 0, 0, d.Location())
		occurrences = append(occurrences, Occurrence{
			FlightNumber: tpl.FlightNumberPrefix + d.Format("020106"),
			Date:         d,
			Departure:    departure,
			Arrival:      departure.Add(time.Duration(tpl.DurationMinutes) * time.Minute),
		})
	}

	return occurrences, nil
}

// isoWeekday maps time.Weekday to ISO numbering, 1=Monday through 7=Sunday.
func isoWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseDepartureTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: departure time %q is not HH:MM", ErrInvalidTemplate, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: departure time %q is not HH:MM", ErrInvalidTemplate, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: departure time %q is not HH:MM", ErrInvalidTemplate, s)
	}
	return hour, minute, nil
}

// parseDaysOfWeek parses the "1,3,5" CSV form. A weekly template with no
// weekday set yields an empty set and therefore never matches.
func parseDaysOfWeek(csv *string) (map[int]bool, error) {
	days := make(map[int]bool)
	if csv == nil || strings.TrimSpace(*csv) == "" {
		return days, nil
	}
	for _, part := range strings.Split(*csv, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 1 || day > 7 {
			return nil, fmt.Errorf("%w: bad weekday %q", ErrInvalidTemplate, part)
		}
		days[day] = true
	}
	return days, nil
}
