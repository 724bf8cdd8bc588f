package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"atlanend/internal/model"
)

type activitiesResponse struct {
	Activities       []model.Activity `json:"activities"`
	SelectedCategory model.Category   `json:"selectedCategory"`
	SearchQuery      string           `json:"searchQuery"`
}

// filterRequest updates the browse filter. Omitted fields keep their value.
type filterRequest struct {
	Category *model.Category `json:"category" validate:"omitempty,oneof=all outdoor indoor food social wellness creative"`
	Search   *string         `json:"search" validate:"omitempty,max=200"`
}

func (s *Server) activitiesView() activitiesResponse {
	return activitiesResponse{
		Activities:       s.store.FilteredActivities(),
		SelectedCategory: s.store.SelectedCategory(),
		SearchQuery:      s.store.SearchQuery(),
	}
}

func (s *Server) handleActivities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.activitiesView())
}

func (s *Server) handleCounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CategoryCounts())
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category != nil {
		s.store.SetSelectedCategory(*req.Category)
	}
	if req.Search != nil {
		s.store.SetSearchQuery(*req.Search)
	}
	writeJSON(w, http.StatusOK, s.activitiesView())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	toggled := s.store.ToggleActivitySelection(id)
	s.metrics.mutation("toggle", toggled)
	if !toggled {
		s.writeUnchanged(w, http.StatusNotFound, "unknown activity: "+id)
		return
	}
	a, _ := s.store.Activity(id)
	writeJSON(w, http.StatusOK, a)
}
