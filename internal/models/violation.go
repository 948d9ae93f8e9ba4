package models

// ViolationType names the hard constraint a set of slots breaks.
type ViolationType string

const (
	TeacherConflict ViolationType = "TEACHER_CONFLICT"
	RoomConflict    ViolationType = "ROOM_CONFLICT"
	BatchConflict   ViolationType = "BATCH_CONFLICT"

	// Data violations reported by catalog verification, not by Detect.
	CampusMismatch ViolationType = "CAMPUS_MISMATCH"
	InvalidTime    ViolationType = "INVALID_TIME"
)

// Violation groups the slots that jointly break one hard constraint at one
// grid cell. ResourceID is the teacher, room or batch shared by the slots.
type Violation struct {
	Type       ViolationType  `json:"type"`
	Day        string         `json:"day"`
	TimeStart  string         `json:"time_start"`
	ResourceID string         `json:"resource_id"`
	Slots      []ScheduleSlot `json:"slots"`
}

// RoomChange records one best-effort room substitution for audit.
type RoomChange struct {
	SlotID    string `json:"slot_id"`
	BatchID   string `json:"batch_id"`
	Day       string `json:"day"`
	TimeStart string `json:"time_start"`
	FromRoom  string `json:"from_room"`
	ToRoom    string `json:"to_room"`
}

// RepairStrategy names the path that produced a repair result.
type RepairStrategy string

const (
	RepairResolve    RepairStrategy = "resolve"
	RepairBestEffort RepairStrategy = "best_effort"
	RepairNoop       RepairStrategy = "noop"
)

// RepairResult is the outcome of a repair pass. Callers must check Remaining
// before treating Slots as a valid schedule.
type RepairResult struct {
	Slots         []ScheduleSlot `json:"slots"`
	Remaining     []Violation    `json:"remaining_violations"`
	Reassignments []RoomChange   `json:"reassignments,omitempty"`
	Strategy      RepairStrategy `json:"strategy"`
}
