package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"atlanend/internal/model"
)

// ExportDateLayout is ISO-8601 in UTC with millisecond precision.
const ExportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Export is the one-way export document.
type Export struct {
	Theme      model.Theme    `json:"theme"`
	Schedule   model.Schedule `json:"schedule"`
	ExportDate string         `json:"exportDate"`
}

// ExportSchedule returns the current theme and schedule with the export time,
// pretty-printed with two-space indentation. State is not modified.
func (s *Store) ExportSchedule() (string, error) {
	s.mu.Lock()
	doc := Export{
		Theme:      s.currentTheme,
		Schedule:   s.schedule.Clone(),
		ExportDate: s.now().UTC().Format(ExportDateLayout),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("store: encode export: %w", err)
	}
	return string(data), nil
}

// ExportFileName is the suggested download name for an export made now.
func (s *Store) ExportFileName() string {
	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()
	return "atlanend-schedule-" + now.UTC().Format("2006-01-02") + ".json"
}

// ShareText renders a short plain-text summary of the weekend plan.
func (s *Store) ShareText() string {
	s.mu.Lock()
	th := s.currentTheme
	sched := s.schedule.Clone()
	s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "My Weekend Plan (%s theme)\n", th)
	writeShareDay(&b, "Saturday", sched.Saturday)
	writeShareDay(&b, "Sunday", sched.Sunday)
	b.WriteString("\nPlanned with atlanend")
	return b.String()
}

func writeShareDay(b *strings.Builder, label string, items []model.ScheduledActivity) {
	fmt.Fprintf(b, "\n%s:\n", label)
	if len(items) == 0 {
		b.WriteString("• No activities planned\n")
		return
	}
	for _, a := range items {
		fmt.Fprintf(b, "• %s\n", a.Title)
	}
}
