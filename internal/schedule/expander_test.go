package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylink-air/skylink-backend/internal/database"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklyTemplate(days string) *database.FlightTemplate {
	d := days
	return &database.FlightTemplate{
		FlightNumberPrefix: "SL1",
		DepartureTime:      "08:30",
		DurationMinutes:    150,
		RecurrenceType:     database.RecurrenceWeekly,
		DaysOfWeek:         &d,
		StartDate:          date(2025, time.March, 3), // a Monday
		IsActive:           true,
	}
}

func TestExpand_WeeklyMatchesOnlyListedDays(t *testing.T) {
	tpl := weeklyTemplate("1,3,5")

	occurrences, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 16))
	require.NoError(t, err)

	// Two full weeks from a Monday: Mon, Wed, Fri twice over.
	want := []time.Time{
		date(2025, time.March, 3),
		date(2025, time.March, 5),
		date(2025, time.March, 7),
		date(2025, time.March, 10),
		date(2025, time.March, 12),
		date(2025, time.March, 14),
	}
	require.Len(t, occurrences, len(want))
	for i, occ := range occurrences {
		assert.Equal(t, want[i], occ.Date)
	}
}

func TestExpand_WeeklySundayIsSeven(t *testing.T) {
	tpl := weeklyTemplate("7")

	occurrences, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 16))
	require.NoError(t, err)

	require.Len(t, occurrences, 2)
	assert.Equal(t, date(2025, time.March, 9), occurrences[0].Date)
	assert.Equal(t, date(2025, time.March, 16), occurrences[1].Date)
}

func TestExpand_WeeklyWithoutDaysNeverMatches(t *testing.T) {
	tpl := weeklyTemplate("1")
	tpl.DaysOfWeek = nil

	occurrences, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 16))
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestExpand_DailyCoversEveryDayInclusive(t *testing.T) {
	tpl := weeklyTemplate("")
	tpl.RecurrenceType = database.RecurrenceDaily
	tpl.DaysOfWeek = nil

	occurrences, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 7))
	require.NoError(t, err)
	assert.Len(t, occurrences, 5)
}

func TestExpand_MonthlySkipsShortMonths(t *testing.T) {
	tpl := &database.FlightTemplate{
		FlightNumberPrefix: "SL31",
		DepartureTime:      "10:00",
		DurationMinutes:    60,
		RecurrenceType:     database.RecurrenceMonthly,
		StartDate:          date(2025, time.January, 31),
		IsActive:           true,
	}

	occurrences, err := Expand(tpl, date(2025, time.January, 1), date(2025, time.April, 30))
	require.NoError(t, err)

	// February and April have no 31st; those months are skipped outright.
	require.Len(t, occurrences, 2)
	assert.Equal(t, date(2025, time.January, 31), occurrences[0].Date)
	assert.Equal(t, date(2025, time.March, 31), occurrences[1].Date)
}

func TestExpand_WindowClampedToTemplateDates(t *testing.T) {
	tpl := weeklyTemplate("1,2,3,4,5,6,7")
	tpl.RecurrenceType = database.RecurrenceDaily
	tpl.StartDate = date(2025, time.March, 5)
	end := date(2025, time.March, 8)
	tpl.EndDate = &end

	occurrences, err := Expand(tpl, date(2025, time.March, 1), date(2025, time.March, 31))
	require.NoError(t, err)

	require.Len(t, occurrences, 4)
	assert.Equal(t, date(2025, time.March, 5), occurrences[0].Date)
	assert.Equal(t, date(2025, time.March, 8), occurrences[3].Date)
}

func TestExpand_FlightNumbersEncodeDate(t *testing.T) {
	tpl := weeklyTemplate("1")

	occurrences, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 9))
	require.NoError(t, err)

	require.Len(t, occurrences, 1)
	assert.Equal(t, "SL1030325", occurrences[0].FlightNumber)
}

func TestExpand_DepartureAndArrivalTimes(t *testing.T) {
	tpl := weeklyTemplate("1")

	occurrences, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 3))
	require.NoError(t, err)
	require.Len(t, occurrences, 1)

	occ := occurrences[0]
	assert.Equal(t, time.Date(2025, time.March, 3, 8, 30, 0, 0, time.UTC), occ.Departure)
	assert.Equal(t, time.Date(2025, time.March, 3, 11, 0, 0, 0, time.UTC), occ.Arrival)
}

func TestExpand_InactiveTemplate(t *testing.T) {
	tpl := weeklyTemplate("1")
	tpl.IsActive = false

	_, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 16))
	assert.ErrorIs(t, err, ErrInactiveTemplate)
}

func TestExpand_InvalidTemplates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*database.FlightTemplate)
	}{
		{
			name:   "unknown recurrence type",
			mutate: func(tpl *database.FlightTemplate) { tpl.RecurrenceType = "yearly" },
		},
		{
			name:   "malformed departure time",
			mutate: func(tpl *database.FlightTemplate) { tpl.DepartureTime = "8am" },
		},
		{
			name:   "departure hour out of range",
			mutate: func(tpl *database.FlightTemplate) { tpl.DepartureTime = "24:00" },
		},
		{
			name: "weekday out of range",
			mutate: func(tpl *database.FlightTemplate) {
				bad := "0,8"
				tpl.DaysOfWeek = &bad
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := weeklyTemplate("1")
			tt.mutate(tpl)

			_, err := Expand(tpl, date(2025, time.March, 3), date(2025, time.March, 16))
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}
