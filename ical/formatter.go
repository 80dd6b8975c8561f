// Package ical renders the stored event list as an iCalendar document so
// the week view can be subscribed to from other calendar clients.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/TannuGARG/weekcal/model"
)

const prodID = "-//weekcal//calendar export//EN"

// Format serializes events into an iCalendar document. All-day events
// (holidays and full-day spans) become date-valued VEVENTs.
func Format(events []model.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().UTC()

	for _, ev := range events {
		ve := cal.AddEvent(fmt.Sprintf("event-%d@weekcal", ev.ID))
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Name)

		start := ev.StartTime().UTC()
		end := ev.EndTime().UTC()
		if ev.AllDay() {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(end)
		} else {
			ve.SetStartAt(start)
			ve.SetEndAt(end)
		}

		if ev.Type == model.TypeHoliday {
			ve.SetProperty(ics.ComponentPropertyCategories, string(ev.Type))
		}
	}

	return cal.Serialize()
}
