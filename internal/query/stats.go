package query

import (
	"atlanend/internal/model"
)

// DayTotals is the size and length of one day, or of the whole weekend.
type DayTotals struct {
	Activities   int `json:"activities"`
	TotalMinutes int `json:"totalMinutes"`
	// Hours and Minutes split TotalMinutes for display.
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Summary is the planning overview shown next to the schedule.
type Summary struct {
	Saturday       DayTotals   `json:"saturday"`
	Sunday         DayTotals   `json:"sunday"`
	Weekend        DayTotals   `json:"weekend"`
	Theme          model.Theme `json:"theme"`
	SelectedCount  int         `json:"selectedCount"`
	ScheduledCount int         `json:"scheduledCount"`
}

// Totals adds up the durations of items.
func Totals(items []model.ScheduledActivity) DayTotals {
	total := 0
	for _, a := range items {
		total += a.Duration
	}
	return DayTotals{
		Activities:   len(items),
		TotalMinutes: total,
		Hours:        total / 60,
		Minutes:      total % 60,
	}
}

// Summarize derives the planning overview from a catalog and schedule.
func Summarize(catalog []model.Activity, sched model.Schedule, theme model.Theme) Summary {
	selected := 0
	for _, a := range catalog {
		if a.IsSelected {
			selected++
		}
	}

	all := make([]model.ScheduledActivity, 0, sched.Len())
	all = append(all, sched.Saturday...)
	all = append(all, sched.Sunday...)

	return Summary{
		Saturday:       Totals(sched.Saturday),
		Sunday:         Totals(sched.Sunday),
		Weekend:        Totals(all),
		Theme:          theme,
		SelectedCount:  selected,
		ScheduledCount: sched.Len(),
	}
}

// Available returns the selected activities under f that are not yet on day,
// in catalog order. These are the candidates a day can still take.
func Available(catalog []model.Activity, f Filter, sched model.Schedule, day model.Day) []model.Activity {
	out := make([]model.Activity, 0)
	if !day.Valid() {
		return out
	}
	for _, a := range Activities(catalog, f) {
		if !a.IsSelected || sched.IndexOf(day, a.ID) >= 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}
