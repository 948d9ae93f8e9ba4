// Package catalog indexes the read-only reference entities a scheduling run
// works against: batches, teachers, subjects, rooms, the day set and the
// per-scheme time grids. A Catalog is immutable after Load and safe to share
// across concurrent solves.
package catalog

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/noah-isme/timetable-engine/internal/models"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// Input carries the reference data for one scheduling run. Records are
// expected deduplicated and validated upstream; the engine never parses
// source files itself.
type Input struct {
	Batches  []models.Batch   `validate:"required,min=1,dive"`
	Teachers []models.Teacher `validate:"required,min=1,dive"`
	Subjects []models.Subject `validate:"required,min=1,dive"`
	Rooms    []models.Room    `validate:"required,min=1,dive"`

	// Days defaults to Monday-Friday when empty.
	Days []string
	// TimeGrids overrides the built-in scheme grids when non-nil.
	TimeGrids map[string][]models.TimeSlot
	// CampusRooms optionally restricts which rooms count as belonging to a
	// campus. When nil the mapping is derived from the room records.
	CampusRooms map[string][]string
}

// Catalog holds bidirectional entity/index maps over every axis of the
// decision space.
type Catalog struct {
	batches  []models.Batch
	teachers []models.Teacher
	subjects []models.Subject
	rooms    []models.Room
	days     []string

	batchIdx   map[string]int
	teacherIdx map[string]int
	subjectIdx map[string]int
	roomIdx    map[string]int
	dayIdx     map[string]int

	grids       map[string][]models.TimeSlot
	timeIdx     map[string]map[string]int
	campusRooms map[string][]int

	subjectsByDeptScheme map[string][]int
	teachersByDept       map[string][]int
}

var validate = validator.New()

// Load validates the input and builds the lookup tables. It fails with a
// DATA_ERROR when any entity class is empty: the solver cannot build a
// non-trivial model over zero batches, teachers or rooms.
func Load(in Input) (*Catalog, error) {
	if err := validate.Struct(in); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataError.Code, appErrors.ErrDataError.Status, "reference catalog is incomplete")
	}

	days := in.Days
	if len(days) == 0 {
		days = models.GenerationDays
	}
	for _, day := range days {
		if !lo.Contains(models.Weekdays, day) {
			return nil, appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("unknown day %q", day))
		}
	}

	grids := in.TimeGrids
	if grids == nil {
		grids = models.SchemeGrids
	}
	if _, ok := grids[models.SchemeDefault]; !ok {
		return nil, appErrors.Clone(appErrors.ErrDataError, "time grids must include a default scheme")
	}

	c := &Catalog{
		batches:  in.Batches,
		teachers: in.Teachers,
		subjects: in.Subjects,
		rooms:    in.Rooms,
		days:     days,
		grids:    grids,
	}

	c.batchIdx = make(map[string]int, len(c.batches))
	for i, batch := range c.batches {
		if _, dup := c.batchIdx[batch.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("duplicate batch id %s", batch.ID))
		}
		c.batchIdx[batch.ID] = i
	}
	c.teacherIdx = make(map[string]int, len(c.teachers))
	for i, teacher := range c.teachers {
		c.teacherIdx[teacher.ID] = i
	}
	c.subjectIdx = make(map[string]int, len(c.subjects))
	for i, subject := range c.subjects {
		c.subjectIdx[subject.Code] = i
	}
	c.roomIdx = make(map[string]int, len(c.rooms))
	for i, room := range c.rooms {
		c.roomIdx[room.ID] = i
	}
	c.dayIdx = make(map[string]int, len(days))
	for i, day := range days {
		c.dayIdx[day] = i
	}

	c.timeIdx = make(map[string]map[string]int, len(grids))
	for scheme, grid := range grids {
		idx := make(map[string]int, len(grid))
		for i, slot := range grid {
			if slot.Start == models.Lunch.Start {
				return nil, appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("scheme %s grid includes the lunch interval", scheme))
			}
			idx[slot.Start] = i
		}
		c.timeIdx[scheme] = idx
	}

	if err := c.buildCampusRooms(in.CampusRooms); err != nil {
		return nil, err
	}
	c.buildEligibility()

	return c, nil
}

func (c *Catalog) buildCampusRooms(override map[string][]string) error {
	c.campusRooms = make(map[string][]int)
	if override == nil {
		for i, room := range c.rooms {
			c.campusRooms[room.Campus] = append(c.campusRooms[room.Campus], i)
		}
	} else {
		for campus, ids := range override {
			for _, id := range ids {
				idx, ok := c.roomIdx[id]
				if !ok {
					return appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("campus map references unknown room %s", id))
				}
				if c.rooms[idx].Campus != campus {
					return appErrors.Clone(appErrors.ErrDataError, fmt.Sprintf("room %s is mapped to campus %s but belongs to %s", id, campus, c.rooms[idx].Campus))
				}
				c.campusRooms[campus] = append(c.campusRooms[campus], idx)
			}
		}
	}
	// deterministic room order by id
	for campus := range c.campusRooms {
		indices := c.campusRooms[campus]
		sort.Slice(indices, func(i, j int) bool {
			return c.rooms[indices[i]].ID < c.rooms[indices[j]].ID
		})
		c.campusRooms[campus] = indices
	}
	return nil
}

func (c *Catalog) buildEligibility() {
	c.subjectsByDeptScheme = make(map[string][]int)
	for i, subject := range c.subjects {
		key := deptSchemeKey(subject.Department, subject.Scheme)
		c.subjectsByDeptScheme[key] = append(c.subjectsByDeptScheme[key], i)
	}
	c.teachersByDept = make(map[string][]int)
	for i, teacher := range c.teachers {
		c.teachersByDept[teacher.Department] = append(c.teachersByDept[teacher.Department], i)
	}
	// deterministic orders by natural id
	for key := range c.subjectsByDeptScheme {
		indices := c.subjectsByDeptScheme[key]
		sort.Slice(indices, func(i, j int) bool {
			return c.subjects[indices[i]].Code < c.subjects[indices[j]].Code
		})
		c.subjectsByDeptScheme[key] = indices
	}
	for key := range c.teachersByDept {
		indices := c.teachersByDept[key]
		sort.Slice(indices, func(i, j int) bool {
			return c.teachers[indices[i]].ID < c.teachers[indices[j]].ID
		})
		c.teachersByDept[key] = indices
	}
}

func deptSchemeKey(department, scheme string) string {
	return department + "\x00" + scheme
}

// Batches returns all batches in input order.
func (c *Catalog) Batches() []models.Batch { return c.batches }

// Days returns the scheduling day set in order.
func (c *Catalog) Days() []string { return c.days }

// Batch returns the batch at index i.
func (c *Catalog) Batch(i int) models.Batch { return c.batches[i] }

// Teacher returns the teacher at index i.
func (c *Catalog) Teacher(i int) models.Teacher { return c.teachers[i] }

// Subject returns the subject at index i.
func (c *Catalog) Subject(i int) models.Subject { return c.subjects[i] }

// Room returns the room at index i.
func (c *Catalog) Room(i int) models.Room { return c.rooms[i] }

// BatchIndex resolves a batch id to its index.
func (c *Catalog) BatchIndex(id string) (int, bool) {
	i, ok := c.batchIdx[id]
	return i, ok
}

// TeacherIndex resolves a teacher id to its index.
func (c *Catalog) TeacherIndex(id string) (int, bool) {
	i, ok := c.teacherIdx[id]
	return i, ok
}

// SubjectIndex resolves a subject code to its index.
func (c *Catalog) SubjectIndex(code string) (int, bool) {
	i, ok := c.subjectIdx[code]
	return i, ok
}

// RoomIndex resolves a room id to its index.
func (c *Catalog) RoomIndex(id string) (int, bool) {
	i, ok := c.roomIdx[id]
	return i, ok
}

// DayIndex resolves a day name to its index.
func (c *Catalog) DayIndex(day string) (int, bool) {
	i, ok := c.dayIdx[day]
	return i, ok
}

// GridFor resolves a scheme to its assignable intervals, falling back to
// the default grid for unknown schemes.
func (c *Catalog) GridFor(scheme string) []models.TimeSlot {
	if grid, ok := c.grids[scheme]; ok {
		return grid
	}
	return c.grids[models.SchemeDefault]
}

// TimeIndex resolves a time_start to its position in the scheme grid.
func (c *Catalog) TimeIndex(scheme, timeStart string) (int, bool) {
	idx, ok := c.timeIdx[scheme]
	if !ok {
		idx = c.timeIdx[models.SchemeDefault]
	}
	i, ok := idx[timeStart]
	return i, ok
}

// SubjectsFor returns subject indices eligible for a department and scheme,
// sorted by subject code.
func (c *Catalog) SubjectsFor(department, scheme string) []int {
	return c.subjectsByDeptScheme[deptSchemeKey(department, scheme)]
}

// TeachersFor returns teacher indices belonging to a department, sorted by
// teacher id.
func (c *Catalog) TeachersFor(department string) []int {
	return c.teachersByDept[department]
}

// RoomsOnCampus returns room indices on a campus, sorted by room id.
func (c *Catalog) RoomsOnCampus(campus string) []int {
	return c.campusRooms[campus]
}

// Campuses lists the campuses present in the room set.
func (c *Catalog) Campuses() []string {
	campuses := lo.Keys(c.campusRooms)
	sort.Strings(campuses)
	return campuses
}
