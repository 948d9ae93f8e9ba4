package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/models"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

func validInput() Input {
	return Input{
		Batches: []models.Batch{
			{ID: "A01", Department: "CSE", Scheme: models.SchemeA, Campus: "Campus-3", Section: "A"},
			{ID: "A02", Department: "CSE", Scheme: models.SchemeA, Campus: "Campus-3", Section: "B"},
		},
		Teachers: []models.Teacher{
			{ID: "TCH1002", Name: "B. Rao", Department: "CSE"},
			{ID: "TCH1001", Name: "A. Sharma", Department: "CSE"},
		},
		Subjects: []models.Subject{
			{Code: "CS102", Name: "Data Structures", Department: "CSE", Scheme: models.SchemeA},
			{Code: "CS101", Name: "Programming", Department: "CSE", Scheme: models.SchemeA, HasLab: true},
		},
		Rooms: []models.Room{
			{ID: "R302", Name: "Room 302", Campus: "Campus-3"},
			{ID: "R301", Name: "Room 301", Campus: "Campus-3"},
			{ID: "R101", Name: "Room 101", Campus: "Campus-1"},
		},
	}
}

func TestLoadBuildsIndexes(t *testing.T) {
	cat, err := Load(validInput())
	require.NoError(t, err)

	idx, ok := cat.BatchIndex("A02")
	require.True(t, ok)
	assert.Equal(t, "A02", cat.Batch(idx).ID)

	_, ok = cat.TeacherIndex("TCH9999")
	assert.False(t, ok)

	assert.Equal(t, models.GenerationDays, cat.Days())
}

func TestLoadRejectsEmptyEntityClass(t *testing.T) {
	in := validInput()
	in.Teachers = nil

	_, err := Load(in)
	require.Error(t, err)
	assert.True(t, appErrors.IsDataError(err))
}

func TestLoadRejectsUnknownDay(t *testing.T) {
	in := validInput()
	in.Days = []string{"Monday", "Funday"}

	_, err := Load(in)
	require.Error(t, err)
	assert.True(t, appErrors.IsDataError(err))
}

func TestLoadRejectsDuplicateBatch(t *testing.T) {
	in := validInput()
	in.Batches = append(in.Batches, in.Batches[0])

	_, err := Load(in)
	require.Error(t, err)
	assert.True(t, appErrors.IsDataError(err))
}

func TestCampusRoomsSortedAndScoped(t *testing.T) {
	cat, err := Load(validInput())
	require.NoError(t, err)

	rooms := cat.RoomsOnCampus("Campus-3")
	require.Len(t, rooms, 2)
	assert.Equal(t, "R301", cat.Room(rooms[0]).ID)
	assert.Equal(t, "R302", cat.Room(rooms[1]).ID)

	assert.Empty(t, cat.RoomsOnCampus("Campus-9"))
	assert.Equal(t, []string{"Campus-1", "Campus-3"}, cat.Campuses())
}

func TestCampusRoomOverrideValidated(t *testing.T) {
	in := validInput()
	in.CampusRooms = map[string][]string{"Campus-3": {"R101"}}

	_, err := Load(in)
	require.Error(t, err)
	assert.True(t, appErrors.IsDataError(err))

	in.CampusRooms = map[string][]string{"Campus-3": {"R302"}}
	cat, err := Load(in)
	require.NoError(t, err)
	require.Len(t, cat.RoomsOnCampus("Campus-3"), 1)
}

func TestEligibilityOrdering(t *testing.T) {
	cat, err := Load(validInput())
	require.NoError(t, err)

	subjects := cat.SubjectsFor("CSE", models.SchemeA)
	require.Len(t, subjects, 2)
	assert.Equal(t, "CS101", cat.Subject(subjects[0]).Code)
	assert.Equal(t, "CS102", cat.Subject(subjects[1]).Code)

	teachers := cat.TeachersFor("CSE")
	require.Len(t, teachers, 2)
	assert.Equal(t, "TCH1001", cat.Teacher(teachers[0]).ID)

	assert.Empty(t, cat.SubjectsFor("CSE", models.SchemeB))
	assert.Empty(t, cat.TeachersFor("ECE"))
}

func TestGridFallsBackToDefault(t *testing.T) {
	cat, err := Load(validInput())
	require.NoError(t, err)

	assert.Len(t, cat.GridFor(models.SchemeA), 6)
	assert.Len(t, cat.GridFor("Scheme_Z"), 8)

	_, ok := cat.TimeIndex(models.SchemeA, models.Lunch.Start)
	assert.False(t, ok, "lunch must never resolve to a grid position")
}

func TestLoadRejectsGridWithLunch(t *testing.T) {
	in := validInput()
	in.TimeGrids = map[string][]models.TimeSlot{
		models.SchemeDefault: {{Start: "12:20", End: "13:00"}},
	}

	_, err := Load(in)
	require.Error(t, err)
	assert.True(t, appErrors.IsDataError(err))
}
