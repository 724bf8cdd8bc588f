package web

import (
	"net/http"

	"atlanend/internal/model"
	"atlanend/internal/theme"
)

type themesResponse struct {
	Themes  []theme.Info `json:"themes"`
	Current model.Theme  `json:"current"`
}

type themeRequest struct {
	Theme model.Theme `json:"theme" validate:"required,oneof=balanced adventurous lazy social wellness creative"`
}

type viewRequest struct {
	View model.View `json:"view" validate:"required,oneof=browse schedule"`
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, themesResponse{
		Themes:  theme.All(),
		Current: s.store.CurrentTheme(),
	})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.SetCurrentTheme(req.Theme)
	s.metrics.mutation("set_theme", true)
	s.handleThemes(w, r)
}

func (s *Server) handleApplyTheme(w http.ResponseWriter, _ *http.Request) {
	s.store.ApplyThemeToSchedule()
	s.metrics.mutation("apply_theme", true)
	writeJSON(w, http.StatusOK, s.store.Schedule())
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.SetCurrentView(req.View)
	writeJSON(w, http.StatusOK, map[string]model.View{"view": s.store.CurrentView()})
}
