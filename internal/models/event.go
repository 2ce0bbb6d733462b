package models

import "time"

// Category classifies an event for display and default coloring.
type Category string

const (
	CategoryBusiness Category = "Business"
	CategoryStudent  Category = "Student"
	CategoryPersonal Category = "Personal"
	CategoryOther    Category = "Other"
)

// Valid reports whether the category is a member of the fixed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryBusiness, CategoryStudent, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// Source records where an event came from. Informational only; no core
// behavior branches on it.
type Source string

const (
	SourceUser      Source = "user"
	SourceAI        Source = "ai"
	SourceClassroom Source = "classroom-import"
)

// Palette keys selectable by the user. An event without a color falls back
// to its category default.
const (
	ColorBlue    = "blue"
	ColorEmerald = "emerald"
	ColorPurple  = "purple"
	ColorAmber   = "amber"
	ColorRose    = "rose"
	ColorCyan    = "cyan"
)

// PaletteKeys lists every selectable color key.
var PaletteKeys = []string{ColorBlue, ColorEmerald, ColorPurple, ColorAmber, ColorRose, ColorCyan}

// ValidColor reports whether key names a palette entry. The empty key is
// valid and means "use the category default".
func ValidColor(key string) bool {
	if key == "" {
		return true
	}
	for _, k := range PaletteKeys {
		if k == key {
			return true
		}
	}
	return false
}

var categoryDefaults = map[Category]string{
	CategoryBusiness: ColorBlue,
	CategoryStudent:  ColorEmerald,
	CategoryPersonal: ColorPurple,
	CategoryOther:    "slate",
}

// Event is a confirmed calendar entry. IDs are assigned at commit time and
// never reused.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Category    Category  `json:"category"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Source      Source    `json:"source,omitempty"`
}

// DisplayColor resolves the effective palette key, falling back to the
// category default when no explicit color was chosen.
func (e Event) DisplayColor() string {
	if e.Color != "" {
		return e.Color
	}
	return categoryDefaults[e.Category]
}

// Duration returns the event length at minute resolution, matching the
// system's time granularity.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start).Truncate(time.Minute)
}
