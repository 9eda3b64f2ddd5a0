package model

import "time"

// Weekly publishing schedule constants.
const (
	weekLabelLayout = "2006-01-02"
	releaseHour     = 9
)

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
// Sunday belongs to the preceding week.
func WeekStart(t time.Time) time.Time {
	day := int(t.Weekday())
	diff := 1 - day
	if day == 0 {
		diff = -6
	}
	monday := t.AddDate(0, 0, diff)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeekLabel returns the week key used for cache rows and pack ids,
// e.g. "2026-08-31".
func WeekLabel(t time.Time) string {
	return WeekStart(t).Format(weekLabelLayout)
}

// WeekRelease returns the publish moment for the week containing t:
// Monday 09:00 in t's location.
func WeekRelease(t time.Time) time.Time {
	monday := WeekStart(t)
	return monday.Add(releaseHour * time.Hour)
}
