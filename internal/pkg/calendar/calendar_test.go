package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"same day next month", date(2024, time.January, 15), 1, date(2024, time.February, 15)},
		{"month end clamps in leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"month end clamps in common year", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"clamp does not stick", date(2024, time.January, 31), 2, date(2024, time.March, 31)},
		{"year rollover", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"zero months", date(2024, time.May, 5), 0, date(2024, time.May, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.n))
		})
	}
}

func TestAddMonthsDropsClock(t *testing.T) {
	start := time.Date(2024, time.March, 10, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, date(2024, time.April, 10), AddMonths(start, 1))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 30, DaysBetween(date(2024, time.January, 15), date(2024, time.February, 14)))
	assert.Equal(t, -3, DaysBetween(date(2024, time.March, 4), date(2024, time.March, 1)))
	assert.Equal(t, 0, DaysBetween(
		time.Date(2024, time.March, 4, 1, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 4, 23, 0, 0, 0, time.UTC),
	))
}

func TestTodayUsesBusinessZone(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	// 20:00 UTC on the 1st is already the 2nd in Manila.
	now := time.Date(2024, time.June, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2024, time.June, 2), Today(now, manila))
	assert.Equal(t, date(2024, time.June, 1), Today(now, nil))
}

func TestAddDaysAndParse(t *testing.T) {
	d, err := Parse("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 14), AddDays(d, 30))
	assert.Equal(t, "2024-02-14", Format(AddDays(d, 30)))

	_, err = Parse("15/01/2024")
	assert.Error(t, err)
}
