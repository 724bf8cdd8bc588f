package store

import (
	"encoding/json"
	"fmt"

	appLog "atlanend/internal/log"
	"atlanend/internal/model"
)

// persisted is the durable layout stored under the storage key.
type persisted struct {
	Schedule           *model.Schedule `json:"schedule"`
	CurrentTheme       model.Theme     `json:"currentTheme"`
	SelectedActivities []string        `json:"selectedActivities"`
}

// Save writes {schedule, currentTheme, selectedActivities} under the storage
// key, replacing any previous value.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	sched := s.schedule.Clone()
	data, err := json.Marshal(persisted{
		Schedule:           &sched,
		CurrentTheme:       s.currentTheme,
		SelectedActivities: s.selectedIDsLocked(),
	})
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	if err := s.storage.SetItem(s.key, data); err != nil {
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	return nil
}

// persistLocked is the mutators' save. Failures are logged, not returned.
func (s *Store) persistLocked() {
	if err := s.saveLocked(); err != nil {
		appLog.Error("store: persist failed", err, "key", s.key)
	}
}

// Load rehydrates the schedule, theme and selection flags from storage.
//
// A missing key leaves the current state as is. A present value replaces the
// schedule (empty if absent), the theme (balanced if absent or unknown) and
// every selection flag by membership in the saved id list. Later copies of an
// activity already on the same day are dropped. Unreadable or corrupt data is
// logged and ignored.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.storage.GetItem(s.key)
	if err != nil {
		appLog.Error("store: failed to read saved data", err, "key", s.key)
		return
	}
	if !ok {
		appLog.Debug("store: no saved data", "key", s.key)
		return
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		appLog.Error("store: failed to load saved data", err, "key", s.key)
		return
	}

	sched := model.NewSchedule()
	if p.Schedule != nil {
		sched = *p.Schedule
		sched.Normalize()
		if n := sched.Dedupe(); n > 0 {
			appLog.Warn("store: dropped duplicate saved entries", "key", s.key, "dropped", n)
		}
	}

	th := p.CurrentTheme
	if !th.Valid() {
		if th != "" {
			appLog.Warn("store: unknown saved theme, using default", "theme", th)
		}
		th = model.DefaultTheme
	}

	selected := make(map[string]struct{}, len(p.SelectedActivities))
	for _, id := range p.SelectedActivities {
		selected[id] = struct{}{}
	}

	s.schedule = sched
	s.currentTheme = th
	for i := range s.activities {
		_, s.activities[i].IsSelected = selected[s.activities[i].ID]
	}

	appLog.Info("store: loaded saved data",
		"key", s.key,
		"saturday", len(s.schedule.Saturday),
		"sunday", len(s.schedule.Sunday),
		"theme", s.currentTheme,
		"selected", len(s.selectedIDsLocked()),
	)
}
