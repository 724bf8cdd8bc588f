package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"atlanend/internal/ics"
	appLog "atlanend/internal/log"
	"atlanend/internal/model"
	"atlanend/internal/query"
	"atlanend/internal/theme"
)

//go:embed templates/agenda.html
var templatesFS embed.FS

var agendaTmpl = template.Must(template.ParseFS(templatesFS, "templates/agenda.html"))

type agendaEntry struct {
	Title    string
	Category model.Category
	Slot     model.TimeSlot
	Duration int
	Notes    string
}

type agendaDay struct {
	Label   string
	Date    time.Time
	Totals  query.DayTotals
	Entries []agendaEntry
}

type agendaPage struct {
	Theme   theme.Info
	Weekend query.DayTotals
	Days    []agendaDay
}

func (s *Server) agendaPage() agendaPage {
	sched := s.store.Schedule()
	page := agendaPage{
		Theme:   theme.Lookup(s.store.CurrentTheme()),
		Weekend: s.store.Summary().Weekend,
	}

	weekend, err := ics.NextWeekend(s.now(), s.loc)
	if err != nil {
		appLog.Warn("agenda: weekend lookup failed", "err", err.Error())
	}

	labels := map[model.Day]string{model.Saturday: "Saturday", model.Sunday: "Sunday"}
	for _, d := range model.Days {
		day := agendaDay{Label: labels[d], Date: weekend.Date(d), Totals: query.Totals(sched.Day(d))}
		for _, sa := range sched.Day(d) {
			day.Entries = append(day.Entries, agendaEntry{
				Title:    sa.Title,
				Category: sa.Category,
				Slot:     sa.ScheduledTime,
				Duration: sa.Duration,
				Notes:    sa.Notes,
			})
		}
		page.Days = append(page.Days, day)
	}
	return page
}

// handleAgenda renders the printable weekend agenda. The root element carries
// data-ready="true" once rendered, which the PNG capture waits for.
func (s *Server) handleAgenda(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := agendaTmpl.Execute(&buf, s.agendaPage()); err != nil {
		appLog.Error("agenda render failed", err)
		http.Error(w, "failed to render agenda", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
