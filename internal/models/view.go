package models

// ViewMode is the calendar granularity the UI is currently displaying.
type ViewMode string

const (
	ViewDay   ViewMode = "Day"
	ViewMonth ViewMode = "Month"
	ViewYear  ViewMode = "Year"
)

// Valid reports whether the mode is one of Day, Month or Year.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewDay, ViewMonth, ViewYear:
		return true
	}
	return false
}
