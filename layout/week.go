package layout

import (
	"fmt"
	"time"

	"github.com/TannuGARG/weekcal/model"
)

// DaysPerWeek is the number of day columns in the grid.
const DaysPerWeek = 7

// StartOfWeek returns the midnight boundary of the week containing t,
// where firstDay is the weekday the week starts on.
func StartOfWeek(t time.Time, firstDay time.Weekday) time.Time {
	day := Midnight(t)
	offset := (int(day.Weekday()) - int(firstDay) + DaysPerWeek) % DaysPerWeek
	return day.AddDate(0, 0, -offset)
}

// Midnight truncates t to its day boundary in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekDays produces the seven consecutive day boundaries starting at
// weekStart. The input is normalized to midnight first.
func WeekDays(weekStart time.Time) []time.Time {
	start := Midnight(weekStart)
	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// HourLabel formats an hour-of-day [0,24) on a 12-hour clock.
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// HourLabels returns the 24 row labels of the hourly grid.
func HourLabels() []string {
	labels := make([]string, 24)
	for h := range labels {
		labels[h] = HourLabel(h)
	}
	return labels
}

// AllDayEvents returns the all-day bucket for the given day boundary:
// events starting on that calendar day that are holidays or span a full
// day or more.
func AllDayEvents(events []model.Event, day time.Time) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if ev.StartsOn(day, day.Location()) && ev.AllDay() {
			out = append(out, ev)
		}
	}
	return out
}

// TimedEvents returns the timed bucket for the given day boundary: events
// starting on that calendar day that are not holidays. A long task lands
// in both buckets; a holiday never lands here.
func TimedEvents(events []model.Event, day time.Time) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if ev.StartsOn(day, day.Location()) && ev.Type != model.TypeHoliday {
			out = append(out, ev)
		}
	}
	return out
}
