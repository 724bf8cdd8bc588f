package model

// Activity is a catalog entry. Catalog activities are created once from the
// seed list; IsSelected is the only field that changes during a session.
type Activity struct {
	ID          string     `yaml:"id" json:"id" validate:"required"`
	Title       string     `yaml:"title" json:"title" validate:"required"`
	Description string     `yaml:"description" json:"description"`
	Category    Category   `yaml:"category" json:"category" validate:"required,oneof=outdoor indoor food social wellness creative"`
	Duration    int        `yaml:"duration" json:"duration" validate:"gt=0"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty" validate:"required,oneof=easy medium hard"`
	Cost        Cost       `yaml:"cost" json:"cost" validate:"required,oneof=free low medium high"`
	Tags        []string   `yaml:"tags" json:"tags"`
	IsSelected  bool       `yaml:"-" json:"isSelected"`

	// Optional hints.
	Mood     Mood   `yaml:"mood,omitempty" json:"mood,omitempty" validate:"omitempty,oneof=energetic relaxed social focused adventurous"`
	TimeSlot string `yaml:"time_slot,omitempty" json:"timeSlot,omitempty" validate:"omitempty,oneof=morning afternoon evening night"`
}

// Clone returns a deep copy; the tags slice is not shared.
func (a Activity) Clone() Activity {
	out := a
	if a.Tags != nil {
		out.Tags = make([]string, len(a.Tags))
		copy(out.Tags, a.Tags)
	}
	return out
}

// HasTag reports whether tag is one of the activity's tags (exact match).
func (a Activity) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ScheduledActivity is an Activity copied into a day, plus a time slot and
// free-text notes. It does not share identity with the catalog entry.
type ScheduledActivity struct {
	Activity
	ScheduledTime TimeSlot `json:"scheduledTime"`
	Notes         string   `json:"notes"`
}

// NewScheduledActivity copies a into a fresh ScheduledActivity with empty
// time slot and notes.
func NewScheduledActivity(a Activity) ScheduledActivity {
	return ScheduledActivity{Activity: a.Clone()}
}

func (s ScheduledActivity) Clone() ScheduledActivity {
	out := s
	out.Activity = s.Activity.Clone()
	return out
}

// Schedule holds the two ordered day sequences. Order is the agenda order.
type Schedule struct {
	Saturday []ScheduledActivity `json:"saturday"`
	Sunday   []ScheduledActivity `json:"sunday"`
}

// NewSchedule returns an empty schedule whose days serialize as [].
func NewSchedule() Schedule {
	return Schedule{
		Saturday: []ScheduledActivity{},
		Sunday:   []ScheduledActivity{},
	}
}

// Day returns the sequence for d, or nil for an unknown day.
func (s Schedule) Day(d Day) []ScheduledActivity {
	switch d {
	case Saturday:
		return s.Saturday
	case Sunday:
		return s.Sunday
	default:
		return nil
	}
}

// SetDay replaces the sequence for d. Unknown days are ignored.
func (s *Schedule) SetDay(d Day, items []ScheduledActivity) {
	if items == nil {
		items = []ScheduledActivity{}
	}
	switch d {
	case Saturday:
		s.Saturday = items
	case Sunday:
		s.Sunday = items
	}
}

// IndexOf returns the position of activityID within d, or -1.
func (s Schedule) IndexOf(d Day, activityID string) int {
	for i, a := range s.Day(d) {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

func (s Schedule) Len() int {
	return len(s.Saturday) + len(s.Sunday)
}

func (s Schedule) Empty() bool {
	return s.Len() == 0
}

// Clone deep-copies both days.
func (s Schedule) Clone() Schedule {
	out := NewSchedule()
	for _, d := range Days {
		src := s.Day(d)
		items := make([]ScheduledActivity, len(src))
		for i, a := range src {
			items[i] = a.Clone()
		}
		out.SetDay(d, items)
	}
	return out
}

// Normalize replaces nil day slices with empty ones.
func (s *Schedule) Normalize() {
	if s.Saturday == nil {
		s.Saturday = []ScheduledActivity{}
	}
	if s.Sunday == nil {
		s.Sunday = []ScheduledActivity{}
	}
}

// Dedupe keeps the first occurrence of each activity id within each day and
// returns how many later copies were dropped. The same id on both days is
// kept.
func (s *Schedule) Dedupe() int {
	dropped := 0
	for _, d := range Days {
		src := s.Day(d)
		seen := make(map[string]struct{}, len(src))
		items := make([]ScheduledActivity, 0, len(src))
		for _, a := range src {
			if _, ok := seen[a.ID]; ok {
				dropped++
				continue
			}
			seen[a.ID] = struct{}{}
			items = append(items, a)
		}
		s.SetDay(d, items)
	}
	return dropped
}
