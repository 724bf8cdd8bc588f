package model

// Category is the fixed activity category set. The order of Categories is
// significant: the balanced theme walks it front to back.
type Category string

const (
	CategoryOutdoor  Category = "outdoor"
	CategoryIndoor   Category = "indoor"
	CategoryFood     Category = "food"
	CategorySocial   Category = "social"
	CategoryWellness Category = "wellness"
	CategoryCreative Category = "creative"
)

// CategoryAll is the filter sentinel matching every category.
const CategoryAll Category = "all"

var Categories = []Category{
	CategoryOutdoor,
	CategoryIndoor,
	CategoryFood,
	CategorySocial,
	CategoryWellness,
	CategoryCreative,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ValidFilter reports whether c is a category or the "all" sentinel.
func (c Category) ValidFilter() bool {
	return c == CategoryAll || c.Valid()
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Cost string

const (
	CostFree   Cost = "free"
	CostLow    Cost = "low"
	CostMedium Cost = "medium"
	CostHigh   Cost = "high"
)

type Mood string

const (
	MoodEnergetic   Mood = "energetic"
	MoodRelaxed     Mood = "relaxed"
	MoodSocial      Mood = "social"
	MoodFocused     Mood = "focused"
	MoodAdventurous Mood = "adventurous"
)

// Theme drives automatic schedule population.
type Theme string

const (
	ThemeBalanced    Theme = "balanced"
	ThemeAdventurous Theme = "adventurous"
	ThemeLazy        Theme = "lazy"
	ThemeSocial      Theme = "social"
	ThemeWellness    Theme = "wellness"
	ThemeCreative    Theme = "creative"
)

const DefaultTheme = ThemeBalanced

var Themes = []Theme{
	ThemeBalanced,
	ThemeAdventurous,
	ThemeLazy,
	ThemeSocial,
	ThemeWellness,
	ThemeCreative,
}

func (t Theme) Valid() bool {
	for _, k := range Themes {
		if t == k {
			return true
		}
	}
	return false
}

// View is the browse/schedule navigation toggle. It is never persisted.
type View string

const (
	ViewBrowse   View = "browse"
	ViewSchedule View = "schedule"
)

func (v View) Valid() bool {
	return v == ViewBrowse || v == ViewSchedule
}

type Day string

const (
	Saturday Day = "saturday"
	Sunday   Day = "sunday"
)

var Days = []Day{Saturday, Sunday}

func (d Day) Valid() bool {
	return d == Saturday || d == Sunday
}

// TimeSlot is a descriptive period of day. The empty slot means "unset".
type TimeSlot string

const (
	SlotNone      TimeSlot = ""
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
)

var TimeSlots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

// Valid accepts the four named slots and the unset slot.
func (s TimeSlot) Valid() bool {
	if s == SlotNone {
		return true
	}
	for _, k := range TimeSlots {
		if s == k {
			return true
		}
	}
	return false
}
