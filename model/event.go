package model

import "time"

// EventType distinguishes regular scheduled work from holidays, which are
// always rendered as all-day entries.
type EventType string

const (
	TypeTask    EventType = "TASK"
	TypeHoliday EventType = "HOLIDAY"
)

// allDayThreshold is the span at which a timed event is promoted to the
// all-day row regardless of its type.
const allDayThreshold = 24 * time.Hour

type Event struct {
	// ID is assigned by the store on creation and stable thereafter.
	// Zero means the event has not been persisted yet.
	ID    int64     `json:"id"`
	Name  string    `json:"name" validate:"required"`
	Type  EventType `json:"type" validate:"required,oneof=TASK HOLIDAY"`
	Start int64     `json:"start" validate:"required"`
	End   int64     `json:"end" validate:"required,gtfield=Start"`
}

func (e Event) StartTime() time.Time {
	return time.UnixMilli(e.Start)
}

func (e Event) EndTime() time.Time {
	return time.UnixMilli(e.End)
}

func (e Event) Duration() time.Duration {
	return time.Duration(e.End-e.Start) * time.Millisecond
}

// Overlaps reports whether the two events intersect with positive duration.
// Touching endpoints (a.End == b.Start) do not count as an overlap.
func (e Event) Overlaps(o Event) bool {
	return e.Start < o.End && o.Start < e.End
}

// AllDay reports whether the event belongs in the all-day row: holidays
// always do, and so does anything spanning a full day or more.
func (e Event) AllDay() bool {
	return e.Type == TypeHoliday || e.Duration() >= allDayThreshold
}

// StartsOn reports whether the event's start instant falls on the same
// calendar day as day, evaluated in loc.
func (e Event) StartsOn(day time.Time, loc *time.Location) bool {
	s := e.StartTime().In(loc)
	d := day.In(loc)
	return s.Year() == d.Year() && s.Month() == d.Month() && s.Day() == d.Day()
}
