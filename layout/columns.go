package layout

import (
	"sort"

	"github.com/TannuGARG/weekcal/model"
)

// Placement records where one timed event sits within its day: a 0-based
// column index and the total number of columns the day was split into.
type Placement struct {
	Column  int `json:"column"`
	Columns int `json:"columns"`
}

// AssignColumns partitions one day's timed events into the minimal number
// of non-overlapping display columns. Events are taken in start order,
// ties broken by longer duration first so packing is deterministic, and
// each is placed in the first column it does not conflict with. The result
// is a side table keyed by event ID plus the total column count, which is
// at least 1 even for an empty day.
func AssignColumns(events []model.Event) (map[int64]Placement, int) {
	ordered := make([]model.Event, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Duration() != b.Duration() {
			return a.Duration() > b.Duration()
		}
		return a.ID < b.ID
	})

	byID := make(map[int64]Placement, len(ordered))
	var columns [][]model.Event

	for _, ev := range ordered {
		placed := false
		for c := range columns {
			if !conflicts(columns[c], ev) {
				columns[c] = append(columns[c], ev)
				byID[ev.ID] = Placement{Column: c}
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []model.Event{ev})
			byID[ev.ID] = Placement{Column: len(columns) - 1}
		}
	}

	total := len(columns)
	if total == 0 {
		total = 1
	}
	for id, p := range byID {
		p.Columns = total
		byID[id] = p
	}
	return byID, total
}

func conflicts(column []model.Event, ev model.Event) bool {
	for _, placed := range column {
		if placed.Overlaps(ev) {
			return true
		}
	}
	return false
}
