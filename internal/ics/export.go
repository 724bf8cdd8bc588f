package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"atlanend/internal/model"
)

const productID = "-//atlanend//Weekend Planner//EN"

// slotStart is the local start hour used for each time slot.
var slotStart = map[model.TimeSlot]int{
	model.SlotMorning:   9,
	model.SlotAfternoon: 13,
	model.SlotEvening:   18,
	model.SlotNight:     21,
}

// Options controls calendar generation.
type Options struct {
	// Location is the timezone slot start hours are interpreted in.
	// If nil, time.Local is used.
	Location *time.Location
	// Now is stamped into every VEVENT as DTSTAMP. Zero means time.Now().
	Now time.Time
	// Name sets X-WR-CALNAME when non-empty.
	Name string
}

// Build renders sched as a VCALENDAR with one VEVENT per scheduled activity.
//
// Entries with a time slot get a timed event starting at the slot's hour and
// lasting the activity's duration. Entries without one become all-day events.
func Build(sched model.Schedule, w Weekend, opts Options) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, day := range model.Days {
		date := w.Date(day)
		for _, sa := range sched.Day(day) {
			ev := cal.AddEvent(EventUID(day, sa.ID))
			ev.SetDtStampTime(stamp)
			ev.SetSummary(sa.Title)
			if desc := eventDescription(sa); desc != "" {
				ev.SetDescription(desc)
			}
			ev.AddProperty(ical.ComponentPropertyCategories, string(sa.Category))

			hour, timed := slotStart[sa.ScheduledTime]
			if !timed {
				ev.SetAllDayStartAt(date)
				ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
				continue
			}
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc)
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(time.Duration(sa.Duration) * time.Minute))
		}
	}

	return cal.Serialize()
}

// EventUID identifies an activity on a day. An id appears at most once per
// day, so the uid survives reordering.
func EventUID(day model.Day, activityID string) string {
	return fmt.Sprintf("%s-%s@atlanend", day, activityID)
}

func eventDescription(sa model.ScheduledActivity) string {
	desc := strings.TrimSpace(sa.Description)
	notes := strings.TrimSpace(sa.Notes)
	switch {
	case desc == "":
		return notes
	case notes == "":
		return desc
	}
	return desc + "\n\nNotes: " + notes
}
