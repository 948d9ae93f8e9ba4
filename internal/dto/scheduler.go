package dto

import (
	"time"

	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
)

// GenerateRequest asks for a fresh timetable over a reference catalog.
type GenerateRequest struct {
	Input catalog.Input `validate:"required"`

	// TimeBudget overrides the configured solver budget when positive.
	TimeBudget time.Duration `validate:"min=0"`
	// Pins are existing slots that must survive the solve unchanged.
	Pins []models.ScheduleSlot
	// Session count overrides; zero keeps the configured defaults.
	LectureSessions int `validate:"min=0"`
	LabSessions     int `validate:"min=0"`
}

// SolveStats summarises one solver run.
type SolveStats struct {
	Variables  int           `json:"variables"`
	Sessions   int           `json:"sessions"`
	Pinned     int           `json:"pinned"`
	Nodes      int64         `json:"nodes"`
	GapMoves   int           `json:"gap_moves"`
	GapPenalty float64       `json:"gap_penalty"`
	Duration   time.Duration `json:"duration"`
}

// GenerateResult carries a conflict-free timetable proposal.
type GenerateResult struct {
	RunID string                `json:"run_id"`
	Score float64               `json:"score"`
	Slots []models.ScheduleSlot `json:"slots"`
	Stats SolveStats            `json:"stats"`
}

// RepairRequest asks for violations in an existing slot set to be fixed.
type RepairRequest struct {
	Input catalog.Input         `validate:"required"`
	Slots []models.ScheduleSlot `validate:"required"`

	// TimeBudget bounds the full re-solve attempt; zero uses the configured
	// repair budget.
	TimeBudget time.Duration `validate:"min=0"`
}
