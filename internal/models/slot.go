package models

import "time"

// ActivityType classifies a scheduled session.
type ActivityType string

const (
	ActivityLecture  ActivityType = "Lecture"
	ActivityLab      ActivityType = "Lab"
	ActivityTutorial ActivityType = "Tutorial"
)

// ScheduleSlot is one scheduled session: a (day, time interval) pairing with
// an assigned subject, teacher and room for a batch. Lifecycle metadata
// (version, active flag, timestamps) belongs to the persistence layer and is
// carried through untouched.
type ScheduleSlot struct {
	ID           string       `json:"id,omitempty"`
	SlotIndex    int          `json:"slot_index"`
	BatchID      string       `json:"batch_id"`
	Section      string       `json:"section"`
	Day          string       `json:"day"`
	TimeStart    string       `json:"time_start"`
	TimeEnd      string       `json:"time_end"`
	SubjectCode  string       `json:"subject_code"`
	SubjectName  string       `json:"subject_name"`
	TeacherID    string       `json:"teacher_id"`
	TeacherName  string       `json:"teacher_name"`
	RoomID       string       `json:"room_id"`
	RoomName     string       `json:"room_name"`
	Campus       string       `json:"campus"`
	ActivityType ActivityType `json:"activity_type"`
	Department   string       `json:"department"`
	Scheme       string       `json:"scheme"`
	Version      int          `json:"version"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
}

// TimeKey identifies one cell of the weekly grid.
type TimeKey struct {
	Day       string
	TimeStart string
}

// Key returns the slot's grid cell.
func (s ScheduleSlot) Key() TimeKey {
	return TimeKey{Day: s.Day, TimeStart: s.TimeStart}
}
