// Package store owns the planner state: the activity catalog with selection
// flags, the two-day schedule, the browse filter, the theme and the view.
//
// A Store is constructed once at startup and handed to its consumers. Every
// operation runs to completion under the store's lock, so callers observe
// each one as an atomic transition. Not-found conditions (unknown ids, days
// or positions) leave the state unchanged and are reported only through the
// boolean results.
package store

import (
	"sync"
	"time"

	"atlanend/internal/model"
	"atlanend/internal/query"
	"atlanend/internal/storage"
	"atlanend/internal/theme"
)

// DefaultStorageKey is the storage key holding the persisted snapshot.
const DefaultStorageKey = "atlanend-data"

// Store is the planner state owner.
type Store struct {
	mu sync.Mutex

	storage storage.Storage
	key     string
	now     func() time.Time

	activities       []model.Activity
	schedule         model.Schedule
	selectedCategory model.Category
	searchQuery      string
	currentTheme     model.Theme
	currentView      model.View
}

// Option customizes a Store.
type Option func(*Store)

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a store over a copy of catalog with every activity unselected.
// Nothing is read from st until Load is called.
func New(catalog []model.Activity, st storage.Storage, opts ...Option) *Store {
	if st == nil {
		st = storage.NewMemoryStorage()
	}

	activities := make([]model.Activity, len(catalog))
	for i, a := range catalog {
		activities[i] = a.Clone()
		activities[i].IsSelected = false
	}

	s := &Store{
		storage:          st,
		key:              DefaultStorageKey,
		now:              time.Now,
		activities:       activities,
		schedule:         model.NewSchedule(),
		selectedCategory: model.CategoryAll,
		currentTheme:     model.DefaultTheme,
		currentView:      model.ViewBrowse,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	Activities       []model.Activity `json:"activities"`
	Schedule         model.Schedule   `json:"schedule"`
	SelectedCategory model.Category   `json:"selectedCategory"`
	SearchQuery      string           `json:"searchQuery"`
	CurrentTheme     model.Theme      `json:"currentTheme"`
	CurrentView      model.View       `json:"currentView"`
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Activities:       s.activitiesLocked(),
		Schedule:         s.schedule.Clone(),
		SelectedCategory: s.selectedCategory,
		SearchQuery:      s.searchQuery,
		CurrentTheme:     s.currentTheme,
		CurrentView:      s.currentView,
	}
}

func (s *Store) Activities() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activitiesLocked()
}

func (s *Store) activitiesLocked() []model.Activity {
	out := make([]model.Activity, len(s.activities))
	for i, a := range s.activities {
		out[i] = a.Clone()
	}
	return out
}

// Activity returns the catalog entry with id.
func (s *Store) Activity(id string) (model.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.activityIndex(id); i >= 0 {
		return s.activities[i].Clone(), true
	}
	return model.Activity{}, false
}

func (s *Store) Schedule() model.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Clone()
}

// HasActivities reports whether either day has anything scheduled.
func (s *Store) HasActivities() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.schedule.Empty()
}

func (s *Store) SelectedCategory() model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

func (s *Store) CurrentTheme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTheme
}

func (s *Store) CurrentView() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentView
}

// SelectedIDs returns ids of selected catalog activities in catalog order.
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIDsLocked()
}

func (s *Store) selectedIDsLocked() []string {
	ids := make([]string, 0)
	for _, a := range s.activities {
		if a.IsSelected {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// ToggleActivitySelection flips IsSelected on the catalog entry and persists.
// Scheduled copies are not affected.
func (s *Store) ToggleActivitySelection(activityID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activityIndex(activityID)
	if i < 0 {
		return false
	}
	s.activities[i].IsSelected = !s.activities[i].IsSelected
	s.persistLocked()
	return true
}

// SetSelectedCategory stores the category filter verbatim. Not persisted.
func (s *Store) SetSelectedCategory(c model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCategory = c
}

// SetSearchQuery stores the search text verbatim. Not persisted.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// SetCurrentTheme replaces the active theme and persists. The schedule is
// left alone; see ApplyThemeToSchedule.
func (s *Store) SetCurrentTheme(t model.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTheme = t
	s.persistLocked()
}

// SetCurrentView flips the navigation flag. Not persisted.
func (s *Store) SetCurrentView(v model.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentView = v
}

// FilteredActivities returns the catalog under the current category and
// search filter, in catalog order.
func (s *Store) FilteredActivities() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return query.Activities(s.activities, query.Filter{
		Category: s.selectedCategory,
		Search:   s.searchQuery,
	})
}

// CategoryCounts returns per-category match counts under the current search.
func (s *Store) CategoryCounts() map[model.Category]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.CountByCategory(s.activities, s.searchQuery)
}

// Summary returns per-day and weekend totals plus selection and schedule
// counts.
func (s *Store) Summary() query.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.Summarize(s.activities, s.schedule, s.currentTheme)
}

// AvailableFor returns the selected activities under the current filter that
// are not yet scheduled on day.
func (s *Store) AvailableFor(day model.Day) []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return query.Available(s.activities, query.Filter{
		Category: s.selectedCategory,
		Search:   s.searchQuery,
	}, s.schedule, day)
}

// ApplyThemeToSchedule replaces the whole schedule with the current theme's
// plan and persists. Existing notes and time slots are discarded.
func (s *Store) ApplyThemeToSchedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule = theme.Plan(s.currentTheme, s.activities)
	s.persistLocked()
}

// ClearSchedule empties both days and persists.
func (s *Store) ClearSchedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule = model.NewSchedule()
	s.persistLocked()
}

func (s *Store) activityIndex(id string) int {
	for i, a := range s.activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}
