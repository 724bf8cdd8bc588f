// Package ics turns the weekend schedule into an iCalendar document.
package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"atlanend/internal/model"
)

// saturdays recurs on every Saturday at the DTSTART time of day.
const saturdays = "FREQ=WEEKLY;BYDAY=SA;COUNT=1"

// Weekend holds local midnight of each planned day.
type Weekend struct {
	Saturday time.Time
	Sunday   time.Time
}

// Date returns midnight of d, or the zero time for an unknown day.
func (w Weekend) Date(d model.Day) time.Time {
	switch d {
	case model.Saturday:
		return w.Saturday
	case model.Sunday:
		return w.Sunday
	}
	return time.Time{}
}

// NextWeekend returns the weekend the plan applies to: the current one when
// now falls on a Saturday or Sunday in loc, else the upcoming one.
func NextWeekend(now time.Time, loc *time.Location) (Weekend, error) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if local.Weekday() == time.Sunday {
		start = start.AddDate(0, 0, -1)
	}

	r, err := rrule.StrToRRule(saturdays)
	if err != nil {
		return Weekend{}, fmt.Errorf("ics: weekend rule: %w", err)
	}
	r.DTStart(start)

	occ := r.All()
	if len(occ) == 0 {
		return Weekend{}, fmt.Errorf("ics: no Saturday after %s", start.Format(time.DateOnly))
	}
	sat := occ[0].In(loc)
	sat = time.Date(sat.Year(), sat.Month(), sat.Day(), 0, 0, 0, 0, loc)

	return Weekend{
		Saturday: sat,
		Sunday:   sat.AddDate(0, 0, 1),
	}, nil
}
