package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TannuGARG/weekcal/layout"
	"github.com/TannuGARG/weekcal/model"
)

type weekResponse struct {
	WeekStart int64     `json:"weekStart"`
	Hours     []string  `json:"hours"`
	Days      []dayView `json:"days"`
}

type dayView struct {
	Date     int64         `json:"date"`
	Weekday  string        `json:"weekday"`
	Disabled bool          `json:"disabled"`
	AllDay   []model.Event `json:"allDay"`
	Timed    []timedBlock  `json:"timed"`
}

type timedBlock struct {
	Event model.Event `json:"event"`
	layout.Placement
	Rect layout.Rect `json:"rect"`
}

// weekView runs the full pipeline for one week: day generation, per-day
// classification, column assignment and geometry.
func (s *Server) weekView(c *gin.Context) {
	at := time.Now().In(s.loc)
	if raw := c.Query("start"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a unix millisecond timestamp"})
			return
		}
		at = time.UnixMilli(ms).In(s.loc)
	}
	// The disabled weekday doubles as the first day of the week.
	weekStart := layout.StartOfWeek(at, s.disabledDay)

	events, err := s.store.List(c.Request.Context())
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	days := layout.WeekDays(weekStart)
	resp := weekResponse{
		WeekStart: weekStart.UnixMilli(),
		Hours:     layout.HourLabels(),
		Days:      make([]dayView, 0, len(days)),
	}

	for _, day := range days {
		timed := layout.TimedEvents(events, day)
		placements, _ := layout.AssignColumns(timed)

		blocks := make([]timedBlock, 0, len(timed))
		for _, ev := range timed {
			p := placements[ev.ID]
			blocks = append(blocks, timedBlock{
				Event:     ev,
				Placement: p,
				Rect:      layout.BlockRect(ev, p, s.loc),
			})
		}

		allDay := layout.AllDayEvents(events, day)
		if allDay == nil {
			allDay = []model.Event{}
		}

		resp.Days = append(resp.Days, dayView{
			Date:     day.UnixMilli(),
			Weekday:  day.Weekday().String(),
			Disabled: day.Weekday() == s.disabledDay,
			AllDay:   allDay,
			Timed:    blocks,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
