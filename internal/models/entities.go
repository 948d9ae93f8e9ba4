package models

// Batch represents a cohort of students sharing one timetable.
type Batch struct {
	ID         string `json:"batch_id" validate:"required"`
	Department string `json:"department" validate:"required"`
	Scheme     string `json:"scheme" validate:"required"`
	Campus     string `json:"campus" validate:"required"`
	Section    string `json:"section"`
}

// Teacher represents a member of the teaching staff.
type Teacher struct {
	ID         string `json:"teacher_id" validate:"required"`
	Name       string `json:"name"`
	Department string `json:"department" validate:"required"`
}

// Subject represents a course offered under a department and scheme.
type Subject struct {
	Code       string `json:"subject_code" validate:"required"`
	Name       string `json:"subject_name"`
	Department string `json:"department" validate:"required"`
	Scheme     string `json:"scheme" validate:"required"`
	HasLab     bool   `json:"has_lab"`
}

// Room represents a teaching space on a campus.
type Room struct {
	ID     string `json:"room_id" validate:"required"`
	Name   string `json:"room_name"`
	Campus string `json:"campus" validate:"required"`
	Type   string `json:"room_type"`
}
