package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDateOf(t *testing.T) {
	at := time.Date(2025, time.June, 10, 15, 4, 5, 6, time.UTC)
	assert.Equal(t, date(2025, time.June, 10), dateOf(at))
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		from time.Time
		to   time.Time
	}{
		{
			// 2025-06-10 is a Tuesday.
			name: "midweek",
			at:   time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC),
			from: date(2025, time.June, 9),
			to:   date(2025, time.June, 15),
		},
		{
			name: "monday is the week start",
			at:   date(2025, time.June, 9),
			from: date(2025, time.June, 9),
			to:   date(2025, time.June, 15),
		},
		{
			name: "sunday belongs to the preceding week",
			at:   date(2025, time.June, 15),
			from: date(2025, time.June, 9),
			to:   date(2025, time.June, 15),
		},
		{
			name: "week spanning a month boundary",
			at:   date(2025, time.July, 1),
			from: date(2025, time.June, 30),
			to:   date(2025, time.July, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := weekWindow(tt.at)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := monthWindow(time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2025, time.June, 1), from)
	assert.Equal(t, date(2025, time.June, 30), to)

	from, to = monthWindow(date(2024, time.February, 15))
	assert.Equal(t, date(2024, time.February, 1), from)
	assert.Equal(t, date(2024, time.February, 29), to)
}
