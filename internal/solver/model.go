// Package solver builds the sparse assignment model over the reference
// catalog and runs a bounded, deterministic backtracking search over it.
package solver

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// Demand configures how many weekly sessions each eligible subject of a
// batch must receive.
type Demand struct {
	LectureSessions int
	LabSessions     int
}

// Options tunes model construction.
type Options struct {
	Demand Demand
	// Pins are existing slots forced to remain unchanged. A pin that cannot
	// be translated onto the model axes is a data error.
	Pins []models.ScheduleSlot
}

// assignment is one decision fixed to true: a session for a batch taught by
// a teacher in a room at (day, time).
type assignment struct {
	batch   int
	subject int
	teacher int
	room    int
	day     int
	time    int // index into the global time axis
	pinned  bool
	pin     int // index into Model.pinSlots when pinned
}

// requirement is the demand of one (batch, subject) pair together with the
// candidate axes surviving a-priori pruning. The full tuple space is never
// materialised; candidates are enumerated lazily during search.
type requirement struct {
	batch    int
	subject  int
	sessions int
	teachers []int // eligible teacher indices, sorted by id
	rooms    []int // same-campus room indices, sorted by id
	// candidate tuple count for this pair: teachers*rooms*days*times
	candidates int
}

// batchGrid maps a batch onto the global time axis.
type batchGrid struct {
	// allowed global time indices in chronological order
	allowed []int
	// global time index -> position within the batch's scheme grid
	pos map[int]int
}

// Model is the decision-variable space plus constraint data for one solve.
// Models are single-use and never shared between runs.
type Model struct {
	cat *catalog.Catalog

	times   []models.TimeSlot // global time axis (union of scheme grids)
	timeIdx map[string]int

	grids    []batchGrid   // indexed by batch
	reqs     []requirement // one per (batch, subject) pair with demand left
	pins     []assignment
	pinSlots []models.ScheduleSlot

	// variables is the pruned tuple count, kept for logging and metrics.
	variables int
}

// Build constructs the model: the global time axis, per-batch grids, the
// pruned requirement set and the translated pins. Pruning is structural:
// tuples whose subject does not match the batch's department and scheme,
// whose teacher is outside the subject's department, or whose room sits on
// another campus never exist in the model.
func Build(cat *catalog.Catalog, opts Options) (*Model, error) {
	if opts.Demand.LectureSessions <= 0 {
		opts.Demand.LectureSessions = 2
	}
	if opts.Demand.LabSessions <= 0 {
		opts.Demand.LabSessions = 1
	}

	m := &Model{cat: cat}
	m.buildTimeAxis()
	if err := m.buildBatchGrids(); err != nil {
		return nil, err
	}
	if err := m.buildRequirements(opts.Demand); err != nil {
		return nil, err
	}
	if err := m.translatePins(opts.Pins); err != nil {
		return nil, err
	}
	return m, nil
}

// Variables reports the pruned decision-variable count.
func (m *Model) Variables() int { return m.variables }

// Catalog returns the catalog the model was built over.
func (m *Model) Catalog() *catalog.Catalog { return m.cat }

// Times returns the global time axis.
func (m *Model) Times() []models.TimeSlot { return m.times }

func (m *Model) buildTimeAxis() {
	starts := map[string]models.TimeSlot{}
	for _, batch := range m.cat.Batches() {
		for _, slot := range m.cat.GridFor(batch.Scheme) {
			starts[slot.Start] = slot
		}
	}
	m.times = lo.Values(starts)
	sort.Slice(m.times, func(i, j int) bool { return m.times[i].Start < m.times[j].Start })
	m.timeIdx = make(map[string]int, len(m.times))
	for i, slot := range m.times {
		m.timeIdx[slot.Start] = i
	}
}

func (m *Model) buildBatchGrids() error {
	m.grids = make([]batchGrid, len(m.cat.Batches()))
	for b, batch := range m.cat.Batches() {
		grid := m.cat.GridFor(batch.Scheme)
		bg := batchGrid{pos: make(map[int]int, len(grid))}
		for i, slot := range grid {
			global, ok := m.timeIdx[slot.Start]
			if !ok {
				return appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("time %s missing from global axis", slot.Start))
			}
			bg.allowed = append(bg.allowed, global)
			bg.pos[global] = i
		}
		m.grids[b] = bg
	}
	return nil
}

func (m *Model) buildRequirements(demand Demand) error {
	days := len(m.cat.Days())
	for b, batch := range m.cat.Batches() {
		subjects := m.cat.SubjectsFor(batch.Department, batch.Scheme)
		rooms := m.cat.RoomsOnCampus(batch.Campus)
		times := len(m.grids[b].allowed)

		batchVariables := 0
		for _, s := range subjects {
			subject := m.cat.Subject(s)
			teachers := m.cat.TeachersFor(subject.Department)
			candidates := len(teachers) * len(rooms) * days * times
			if candidates == 0 {
				continue
			}
			sessions := demand.LectureSessions
			if subject.HasLab {
				sessions = demand.LabSessions
			}
			m.reqs = append(m.reqs, requirement{
				batch:      b,
				subject:    s,
				sessions:   sessions,
				teachers:   teachers,
				rooms:      rooms,
				candidates: candidates,
			})
			batchVariables += candidates
		}
		if batchVariables == 0 {
			return appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("batch %s has no eligible subject/teacher/room combination", batch.ID))
		}
		m.variables += batchVariables
	}
	return nil
}

// translatePins maps retained slots onto model axes and removes their
// demand so the search only places what is still missing.
func (m *Model) translatePins(pins []models.ScheduleSlot) error {
	reqIdx := make(map[[2]int]int, len(m.reqs))
	for i, req := range m.reqs {
		reqIdx[[2]int{req.batch, req.subject}] = i
	}

	for _, pin := range pins {
		b, ok := m.cat.BatchIndex(pin.BatchID)
		if !ok {
			return pinError(pin, "unknown batch")
		}
		t, ok := m.cat.TeacherIndex(pin.TeacherID)
		if !ok {
			return pinError(pin, "unknown teacher")
		}
		s, ok := m.cat.SubjectIndex(pin.SubjectCode)
		if !ok {
			return pinError(pin, "unknown subject")
		}
		r, ok := m.cat.RoomIndex(pin.RoomID)
		if !ok {
			return pinError(pin, "unknown room")
		}
		d, ok := m.cat.DayIndex(pin.Day)
		if !ok {
			return pinError(pin, "day outside the scheduling week")
		}
		h, ok := m.timeIdx[pin.TimeStart]
		if !ok {
			return pinError(pin, "time outside the grid")
		}
		if _, ok := m.grids[b].pos[h]; !ok {
			return pinError(pin, "time outside the batch scheme grid")
		}
		if room := m.cat.Room(r); room.Campus != m.cat.Batch(b).Campus {
			return pinError(pin, fmt.Sprintf("room campus %s does not match batch campus %s", room.Campus, m.cat.Batch(b).Campus))
		}

		m.pins = append(m.pins, assignment{
			batch: b, subject: s, teacher: t, room: r, day: d, time: h,
			pinned: true, pin: len(m.pinSlots),
		})
		m.pinSlots = append(m.pinSlots, pin)
		if i, ok := reqIdx[[2]int{b, s}]; ok && m.reqs[i].sessions > 0 {
			m.reqs[i].sessions--
		}
	}
	return nil
}

func pinError(pin models.ScheduleSlot, reason string) error {
	return appErrors.Clone(appErrors.ErrDataError,
		fmt.Sprintf("pinned slot %s/%s %s %s: %s", pin.BatchID, pin.SubjectCode, pin.Day, pin.TimeStart, reason))
}
