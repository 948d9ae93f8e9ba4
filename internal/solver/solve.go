package solver

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/timetable-engine/internal/models"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// Params bounds one solve run.
type Params struct {
	// TimeBudget caps the wall-clock search time. Zero means no deadline.
	TimeBudget time.Duration
	// GapRepairPasses bounds the post-search compaction sweep.
	GapRepairPasses int
	// DeadlineCheckNodes sets how many search nodes pass between deadline
	// checks.
	DeadlineCheckNodes int
}

// Stats describes one solve run for logging and metrics.
type Stats struct {
	Variables  int
	Sessions   int
	Pinned     int
	Nodes      int64
	GapMoves   int
	GapPenalty float64
	Duration   time.Duration
}

// Solve runs the bounded search and maps the fixed variables back to
// schedule slots enriched with display names. It always returns by the
// deadline: either a feasible slot set or an INFEASIBLE error. Feasible but
// non-optimal results are accepted; gap compaction only ever lowers the
// penalty.
func Solve(ctx context.Context, m *Model, params Params) ([]models.ScheduleSlot, *Stats, error) {
	started := time.Now()
	if params.GapRepairPasses <= 0 {
		params.GapRepairPasses = 12
	}

	var deadline time.Time
	if params.TimeBudget > 0 {
		deadline = started.Add(params.TimeBudget)
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	st := newSearchState(ctx, m, deadline, params.DeadlineCheckNodes)
	if !st.applyPins() {
		return nil, nil, appErrors.Clone(appErrors.ErrInfeasible, "pinned assignments conflict with each other")
	}

	solved, err := st.run()
	stats := &Stats{
		Variables: m.variables,
		Sessions:  len(st.placed) - len(m.pins),
		Pinned:    len(m.pins),
		Nodes:     st.nodes,
	}
	if err != nil {
		stats.Duration = time.Since(started)
		return nil, stats, appErrors.Clone(appErrors.ErrInfeasible, "time budget exhausted before a feasible assignment was found")
	}
	if !solved {
		stats.Duration = time.Since(started)
		return nil, stats, appErrors.Clone(appErrors.ErrInfeasible, "no feasible assignment exists for the given catalog and pins")
	}

	stats.GapMoves = st.repairGaps(params.GapRepairPasses)

	slots := extractSlots(m, st)
	stats.GapPenalty = GapPenalty(m.cat, slots)
	stats.Duration = time.Since(started)
	return slots, stats, nil
}

// extractSlots converts placed assignments into schedule slots. Pinned
// slots are re-emitted verbatim; solved ones get resolved display names,
// fresh ids and version 1.
func extractSlots(m *Model, st *searchState) []models.ScheduleSlot {
	cat := m.cat
	now := time.Now().UTC()

	slots := make([]models.ScheduleSlot, 0, len(st.placed))
	pinned := make(map[string]bool, len(m.pins))
	for _, a := range st.placed {
		if a.pinned {
			slots = append(slots, m.pinSlots[a.pin])
			pinned[slotIdentity(m.pinSlots[a.pin])] = true
			continue
		}
		batch := cat.Batch(a.batch)
		teacher := cat.Teacher(a.teacher)
		subject := cat.Subject(a.subject)
		room := cat.Room(a.room)
		interval := m.times[a.time]

		activity := models.ActivityLecture
		if subject.HasLab {
			activity = models.ActivityLab
		}

		slots = append(slots, models.ScheduleSlot{
			ID:           uuid.NewString(),
			BatchID:      batch.ID,
			Section:      batch.Section,
			Day:          cat.Days()[a.day],
			TimeStart:    interval.Start,
			TimeEnd:      interval.End,
			SubjectCode:  subject.Code,
			SubjectName:  displayName(subject.Name, subject.Code),
			TeacherID:    teacher.ID,
			TeacherName:  displayName(teacher.Name, teacher.ID),
			RoomID:       room.ID,
			RoomName:     displayName(room.Name, room.ID),
			Campus:       batch.Campus,
			ActivityType: activity,
			Department:   batch.Department,
			Scheme:       batch.Scheme,
			Version:      1,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	dayIdx := make(map[string]int, len(cat.Days()))
	for i, day := range cat.Days() {
		dayIdx[day] = i
	}
	timeIdx := make(map[string]int, len(m.times))
	for i, interval := range m.times {
		timeIdx[interval.Start] = i
	}
	sort.SliceStable(slots, func(x, y int) bool {
		if dayIdx[slots[x].Day] != dayIdx[slots[y].Day] {
			return dayIdx[slots[x].Day] < dayIdx[slots[y].Day]
		}
		if timeIdx[slots[x].TimeStart] != timeIdx[slots[y].TimeStart] {
			return timeIdx[slots[x].TimeStart] < timeIdx[slots[y].TimeStart]
		}
		return slots[x].BatchID < slots[y].BatchID
	})

	perBatch := make(map[string]int)
	for i := range slots {
		// pinned slots keep the numbering they arrived with
		if !pinned[slotIdentity(slots[i])] {
			slots[i].SlotIndex = perBatch[slots[i].BatchID]
		}
		perBatch[slots[i].BatchID]++
	}
	return slots
}

func slotIdentity(s models.ScheduleSlot) string {
	return s.BatchID + "|" + s.Day + "|" + s.TimeStart
}

func displayName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
