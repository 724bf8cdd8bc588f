package store

import (
	"atlanend/internal/model"
)

// ScheduledUpdate is a partial update of a scheduled activity.
// nil => no change.
type ScheduledUpdate struct {
	ScheduledTime *model.TimeSlot `json:"scheduledTime,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// AddActivityToSchedule appends a copy of the catalog activity to day and
// persists. It is a no-op when the id is unknown, the day is unknown, or the
// activity is already on that day. The same activity may be on both days.
func (s *Store) AddActivityToSchedule(activityID string, day model.Day) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !day.Valid() {
		return false
	}
	i := s.activityIndex(activityID)
	if i < 0 {
		return false
	}
	if s.schedule.IndexOf(day, activityID) >= 0 {
		return false
	}

	items := append(s.schedule.Day(day), model.NewScheduledActivity(s.activities[i]))
	s.schedule.SetDay(day, items)
	s.persistLocked()
	return true
}

// RemoveActivityFromSchedule drops the entry with activityID from day.
func (s *Store) RemoveActivityFromSchedule(activityID string, day model.Day) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.schedule.IndexOf(day, activityID)
	if idx < 0 {
		return false
	}

	src := s.schedule.Day(day)
	items := make([]model.ScheduledActivity, 0, len(src)-1)
	items = append(items, src[:idx]...)
	items = append(items, src[idx+1:]...)
	s.schedule.SetDay(day, items)
	s.persistLocked()
	return true
}

// ReorderScheduleActivities moves the element at from to position to within
// day, shifting the elements in between. Both indices must be within the
// current length; otherwise nothing changes.
func (s *Store) ReorderScheduleActivities(day model.Day, from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.moveLocked(day, from, to) {
		return false
	}
	s.persistLocked()
	return true
}

// MoveScheduledActivity moves activityID to the position currently held by
// overID on the same day. This is the identity-based form of reorder.
func (s *Store) MoveScheduledActivity(day model.Day, activityID, overID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.schedule.IndexOf(day, activityID)
	to := s.schedule.IndexOf(day, overID)
	if from < 0 || to < 0 {
		return false
	}
	if !s.moveLocked(day, from, to) {
		return false
	}
	s.persistLocked()
	return true
}

func (s *Store) moveLocked(day model.Day, from, to int) bool {
	src := s.schedule.Day(day)
	n := len(src)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}

	items := make([]model.ScheduledActivity, 0, n)
	items = append(items, src[:from]...)
	items = append(items, src[from+1:]...)
	moved := src[from]

	items = append(items[:to], append([]model.ScheduledActivity{moved}, items[to:]...)...)
	s.schedule.SetDay(day, items)
	return true
}

// UpdateScheduledActivity merges u into the entry with activityID on day.
// The catalog activity is never touched.
func (s *Store) UpdateScheduledActivity(activityID string, day model.Day, u ScheduledUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.schedule.IndexOf(day, activityID)
	if idx < 0 {
		return false
	}

	items := s.schedule.Day(day)
	if u.ScheduledTime != nil {
		items[idx].ScheduledTime = *u.ScheduledTime
	}
	if u.Notes != nil {
		items[idx].Notes = *u.Notes
	}
	s.persistLocked()
	return true
}
