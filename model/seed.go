package model

import "time"

// SeedEvents returns the built-in starter list used when a store has no
// persisted value yet. Entries are laid out across the week containing now
// so a fresh install renders a populated grid.
func SeedEvents(now time.Time) []Event {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Back up to the Sunday week boundary, then place seeds on Mon/Wed/Fri.
	weekStart := day.AddDate(0, 0, -int(day.Weekday()))

	at := func(days, hour, min int) int64 {
		return weekStart.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute).UnixMilli()
	}

	return []Event{
		{ID: 1, Name: "Team standup", Type: TypeTask, Start: at(1, 9, 30), End: at(1, 10, 0)},
		{ID: 2, Name: "Design review", Type: TypeTask, Start: at(3, 14, 0), End: at(3, 15, 30)},
		{ID: 3, Name: "Public holiday", Type: TypeHoliday, Start: at(5, 0, 0), End: at(6, 0, 0)},
	}
}
