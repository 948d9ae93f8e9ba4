package models

// TimeSlot is one interval of the daily grid. Intervals never overlap and
// are listed in chronological order.
type TimeSlot struct {
	Start string `json:"time_start"`
	End   string `json:"time_end"`
}

// Days of the scheduling week, in order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// GenerationDays is the default subset used when generating a fresh
// timetable.
var GenerationDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Lunch is reserved campus-wide and never assigned.
var Lunch = TimeSlot{Start: "12:20", End: "13:00"}

// Scheme names for the supported time-grid variants.
const (
	SchemeA       = "Scheme_A"
	SchemeB       = "Scheme_B"
	SchemeDefault = "default"
)

// SchemeGrids maps each scheme to its assignable intervals. The lunch
// interval is already absent from every grid.
var SchemeGrids = map[string][]TimeSlot{
	SchemeA: {
		{Start: "08:00", End: "09:00"},
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
		{Start: "11:20", End: "12:20"},
		{Start: "13:00", End: "14:00"},
		{Start: "14:00", End: "15:00"},
	},
	SchemeB: {
		{Start: "10:00", End: "11:00"},
		{Start: "11:20", End: "12:20"},
		{Start: "13:00", End: "14:00"},
		{Start: "14:00", End: "15:00"},
		{Start: "15:00", End: "16:00"},
		{Start: "16:00", End: "17:00"},
	},
	SchemeDefault: {
		{Start: "08:00", End: "09:00"},
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
		{Start: "11:20", End: "12:20"},
		{Start: "13:00", End: "14:00"},
		{Start: "14:00", End: "15:00"},
		{Start: "15:00", End: "16:00"},
		{Start: "16:00", End: "17:00"},
	},
}

// GridForScheme resolves a scheme to its grid, falling back to the default
// grid for unknown schemes.
func GridForScheme(scheme string) []TimeSlot {
	if grid, ok := SchemeGrids[scheme]; ok {
		return grid
	}
	return SchemeGrids[SchemeDefault]
}
