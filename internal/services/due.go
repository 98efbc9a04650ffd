package services

import "time"

// dateOf truncates t to midnight in its own location, matching the
// date-only due_date column.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekWindow returns the inclusive Monday..Sunday range containing t.
func weekWindow(t time.Time) (from, to time.Time) {
	day := dateOf(t)
	// time.Weekday counts Sunday as 0.
	offset := (int(day.Weekday()) + 6) % 7
	from = day.AddDate(0, 0, -offset)
	to = from.AddDate(0, 0, 6)
	return from, to
}

// monthWindow returns the inclusive first..last day range of the
// month containing t.
func monthWindow(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	to = from.AddDate(0, 1, -1)
	return from, to
}
