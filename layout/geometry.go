package layout

import (
	"time"

	"github.com/TannuGARG/weekcal/model"
)

// HourHeight is the pixel height of one hour row in the day grid.
const HourHeight = 48.0

const (
	// minBlockHours keeps very short events visible (15 minutes).
	minBlockHours = 0.25
	// blockMarginPx is the vertical gutter trimmed off each block.
	blockMarginPx = 4.0
	// blockGutterPct is the horizontal gutter between columns, as a
	// percentage of the day column width.
	blockGutterPct = 2.0
)

// Rect positions an event block inside its day column. Top and Height are
// pixels within the 24*HourHeight grid; Left and Width are percentages of
// the day column width.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
}

// BlockRect maps an event's time-of-day and column assignment to a Rect.
// The event is assumed to start on the day being rendered; loc is the
// display timezone.
func BlockRect(ev model.Event, p Placement, loc *time.Location) Rect {
	start := ev.StartTime().In(loc)
	startHour := float64(start.Hour()) + float64(start.Minute())/60

	durHours := ev.Duration().Minutes() / 60
	if durHours < minBlockHours {
		durHours = minBlockHours
	}

	cols := p.Columns
	if cols < 1 {
		cols = 1
	}
	colWidth := 100.0 / float64(cols)

	return Rect{
		Top:    startHour * HourHeight,
		Height: durHours*HourHeight - blockMarginPx,
		Left:   float64(p.Column)*colWidth + blockGutterPct/2,
		Width:  colWidth - blockGutterPct,
	}
}
