package web

import (
	"fmt"
	"net/http"
	"time"

	"atlanend/internal/ics"
	appLog "atlanend/internal/log"
)

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	body, err := s.store.ExportSchedule()
	if err != nil {
		appLog.Error("export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export schedule")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", s.store.ExportFileName()))
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleExportICS(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	weekend, err := ics.NextWeekend(now, s.loc)
	if err != nil {
		appLog.Error("ics export: weekend lookup failed", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve weekend")
		return
	}

	body := ics.Build(s.store.Schedule(), weekend, ics.Options{
		Location: s.loc,
		Now:      now,
		Name:     "Weekend Plan",
	})

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=atlanend-weekend-%s.ics", weekend.Saturday.Format(time.DateOnly)))
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleShare(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.store.ShareText()))
}
