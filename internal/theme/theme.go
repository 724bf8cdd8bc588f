// Package theme turns a weekend theme into a recommended schedule.
package theme

import (
	"atlanend/internal/model"
)

// Info describes a theme for display.
type Info struct {
	Key         model.Theme `json:"key"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

var infos = []Info{
	{Key: model.ThemeBalanced, Label: "Balanced", Description: "Perfect mix of activities for a well-rounded weekend"},
	{Key: model.ThemeAdventurous, Label: "Adventurous", Description: "Outdoor activities and exciting challenges"},
	{Key: model.ThemeLazy, Label: "Lazy & Cozy", Description: "Relaxing indoor activities and self-care"},
	{Key: model.ThemeSocial, Label: "Social", Description: "Activities focused on friends and community"},
	{Key: model.ThemeWellness, Label: "Wellness", Description: "Mind and body focused activities"},
	{Key: model.ThemeCreative, Label: "Creative", Description: "Artistic and imaginative pursuits"},
}

// All returns theme descriptors in display order.
func All() []Info {
	out := make([]Info, len(infos))
	copy(out, infos)
	return out
}

// Lookup returns the descriptor for t. Unknown themes resolve to balanced.
func Lookup(t model.Theme) Info {
	for _, i := range infos {
		if i.Key == t {
			return i
		}
	}
	return infos[0]
}

type rule struct {
	match func(model.Activity) bool
	cap   int
}

var rules = map[model.Theme]rule{
	model.ThemeAdventurous: {
		match: func(a model.Activity) bool {
			return a.Category == model.CategoryOutdoor || a.Difficulty == model.DifficultyHard || a.HasTag("adventure")
		},
		cap: 6,
	},
	model.ThemeLazy: {
		match: func(a model.Activity) bool {
			return a.Category == model.CategoryIndoor || a.Difficulty == model.DifficultyEasy || a.HasTag("relaxation")
		},
		cap: 4,
	},
	model.ThemeSocial: {
		match: func(a model.Activity) bool {
			return a.Category == model.CategorySocial || a.HasTag("social") || a.HasTag("friends")
		},
		cap: 5,
	},
	model.ThemeWellness: {
		match: func(a model.Activity) bool {
			return a.Category == model.CategoryWellness || a.HasTag("mindfulness") || a.HasTag("exercise")
		},
		cap: 5,
	},
	model.ThemeCreative: {
		match: func(a model.Activity) bool {
			return a.Category == model.CategoryCreative || a.HasTag("art") || a.HasTag("creative")
		},
		cap: 5,
	},
}

// Recommend selects catalog activities for t in catalog order.
//
// Predicate themes take the first matches up to their cap. Balanced, and any
// theme without a rule, takes the first activity of each category following
// model.Categories order.
func Recommend(t model.Theme, catalog []model.Activity) []model.Activity {
	r, ok := rules[t]
	if !ok {
		return balanced(catalog)
	}

	out := make([]model.Activity, 0, r.cap)
	for _, a := range catalog {
		if len(out) == r.cap {
			break
		}
		if r.match(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func balanced(catalog []model.Activity) []model.Activity {
	out := make([]model.Activity, 0, len(model.Categories))
	for _, c := range model.Categories {
		for _, a := range catalog {
			if a.Category == c {
				out = append(out, a.Clone())
				break
			}
		}
	}
	return out
}

// Plan builds a fresh schedule for t: the first ceil(n/2) recommendations go
// to Saturday, the rest to Sunday, all with empty time slot and notes.
func Plan(t model.Theme, catalog []model.Activity) model.Schedule {
	recs := Recommend(t, catalog)
	half := (len(recs) + 1) / 2

	s := model.NewSchedule()
	for i, a := range recs {
		sa := model.NewScheduledActivity(a)
		if i < half {
			s.Saturday = append(s.Saturday, sa)
		} else {
			s.Sunday = append(s.Sunday, sa)
		}
	}
	return s
}
