package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"atlanend/internal/model"
	"atlanend/internal/store"
)

type addRequest struct {
	ActivityID string `json:"activityId" validate:"required"`
}

// updateRequest is a partial update; an empty scheduledTime clears the slot.
type updateRequest struct {
	ScheduledTime *model.TimeSlot `json:"scheduledTime"`
	Notes         *string         `json:"notes" validate:"omitempty,max=2000"`
}

// reorderRequest moves by index ({from,to}) or by identity
// ({activityId,overId}).
type reorderRequest struct {
	From       *int   `json:"from" validate:"required_without=ActivityID"`
	To         *int   `json:"to" validate:"required_without=ActivityID"`
	ActivityID string `json:"activityId"`
	OverID     string `json:"overId" validate:"required_with=ActivityID"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Schedule())
}

func (s *Server) handleClearSchedule(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearSchedule()
	s.metrics.mutation("clear", true)
	writeJSON(w, http.StatusOK, s.store.Schedule())
}

// pathDay resolves the {day} segment, answering 404 for unknown days.
func (s *Server) pathDay(w http.ResponseWriter, r *http.Request) (model.Day, bool) {
	day := model.Day(chi.URLParam(r, "day"))
	if !day.Valid() {
		s.writeUnchanged(w, http.StatusNotFound, "unknown day: "+string(day))
		return "", false
	}
	return day, true
}

// handleAvailable lists what day can still take under the current filter.
func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.AvailableFor(day))
}

func (s *Server) handleAddToSchedule(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, found := s.store.Activity(req.ActivityID); !found {
		s.writeUnchanged(w, http.StatusNotFound, "unknown activity: "+req.ActivityID)
		return
	}
	added := s.store.AddActivityToSchedule(req.ActivityID, day)
	s.metrics.mutation("add", added)
	if !added {
		s.writeUnchanged(w, http.StatusConflict, "activity already scheduled on "+string(day))
		return
	}
	writeJSON(w, http.StatusCreated, s.store.Schedule())
}

func (s *Server) handleRemoveFromSchedule(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	removed := s.store.RemoveActivityFromSchedule(id, day)
	s.metrics.mutation("remove", removed)
	if !removed {
		s.writeUnchanged(w, http.StatusNotFound, "activity not scheduled: "+id)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Schedule())
}

func (s *Server) handleUpdateScheduled(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ScheduledTime != nil && !req.ScheduledTime.Valid() {
		writeError(w, http.StatusBadRequest, "scheduledTime must be one of [morning afternoon evening night] or empty")
		return
	}

	id := chi.URLParam(r, "id")
	u := store.ScheduledUpdate{ScheduledTime: req.ScheduledTime, Notes: req.Notes}
	updated := s.store.UpdateScheduledActivity(id, day, u)
	s.metrics.mutation("update", updated)
	if !updated {
		s.writeUnchanged(w, http.StatusNotFound, "activity not scheduled: "+id)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Schedule())
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var moved bool
	if req.ActivityID != "" {
		moved = s.store.MoveScheduledActivity(day, req.ActivityID, req.OverID)
	} else {
		moved = s.store.ReorderScheduleActivities(day, *req.From, *req.To)
	}
	s.metrics.mutation("reorder", moved)
	if !moved {
		s.writeUnchanged(w, http.StatusNotFound, "nothing to move")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Schedule())
}
