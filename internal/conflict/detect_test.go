package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
)

func slot(id, batch, teacher, room, day, timeStart string) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:        id,
		BatchID:   batch,
		Section:   batch,
		Day:       day,
		TimeStart: timeStart,
		TimeEnd:   "09:00",
		TeacherID: teacher,
		RoomID:    room,
		Campus:    "Campus-3",
		Scheme:    models.SchemeA,
	}
}

func TestDetectTotalOnTrivialInput(t *testing.T) {
	assert.Empty(t, Detect(nil))
	assert.Empty(t, Detect([]models.ScheduleSlot{}))
	assert.Empty(t, Detect([]models.ScheduleSlot{slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00")}))
}

func TestDetectTeacherConflict(t *testing.T) {
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1001", "R302", "Monday", "08:00"),
	}

	violations := Detect(slots)
	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, models.TeacherConflict, v.Type)
	assert.Equal(t, "Monday", v.Day)
	assert.Equal(t, "08:00", v.TimeStart)
	assert.Equal(t, "TCH1001", v.ResourceID)
	require.Len(t, v.Slots, 2)
	assert.Equal(t, "s1", v.Slots[0].ID)
	assert.Equal(t, "s2", v.Slots[1].ID)
}

func TestDetectCountsEveryInjectedConflict(t *testing.T) {
	slots := []models.ScheduleSlot{
		// teacher conflict at Monday 08:00
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1001", "R302", "Monday", "08:00"),
		// room conflict at Tuesday 09:00
		slot("s3", "A01", "TCH1002", "R303", "Tuesday", "09:00"),
		slot("s4", "A02", "TCH1003", "R303", "Tuesday", "09:00"),
		// batch conflict at Friday 10:00
		slot("s5", "A03", "TCH1004", "R304", "Friday", "10:00"),
		slot("s6", "A03", "TCH1005", "R305", "Friday", "10:00"),
		// clean slot
		slot("s7", "A04", "TCH1006", "R306", "Friday", "13:00"),
	}

	violations := Detect(slots)
	require.Len(t, violations, 3)
	assert.Equal(t, models.TeacherConflict, violations[0].Type)
	assert.Equal(t, models.RoomConflict, violations[1].Type)
	assert.Equal(t, models.BatchConflict, violations[2].Type)
}

func TestDetectSameTimeDifferentDayIsClean(t *testing.T) {
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1001", "R301", "Tuesday", "08:00"),
	}
	assert.Empty(t, Detect(slots))
}

func TestDetectOverlappingConflictTypes(t *testing.T) {
	// same teacher AND same room at the same cell
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1001", "R301", "Monday", "08:00"),
	}

	violations := Detect(slots)
	require.Len(t, violations, 2)
	assert.Equal(t, models.TeacherConflict, violations[0].Type)
	assert.Equal(t, models.RoomConflict, violations[1].Type)
}

func TestPartition(t *testing.T) {
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1001", "R302", "Monday", "08:00"),
		slot("s3", "A03", "TCH1002", "R303", "Monday", "09:00"),
	}

	clean, conflicting := Partition(slots)
	require.Len(t, clean, 1)
	assert.Equal(t, "s3", clean[0].ID)
	require.Len(t, conflicting, 2)
	assert.Equal(t, "s1", conflicting[0].ID)
	assert.Equal(t, "s2", conflicting[1].ID)
}

func TestVerifyFlagsCampusAndGridViolations(t *testing.T) {
	cat, err := catalog.Load(catalog.Input{
		Batches:  []models.Batch{{ID: "A01", Department: "CSE", Scheme: models.SchemeA, Campus: "Campus-3"}},
		Teachers: []models.Teacher{{ID: "TCH1001", Department: "CSE"}},
		Subjects: []models.Subject{{Code: "CS101", Department: "CSE", Scheme: models.SchemeA}},
		Rooms: []models.Room{
			{ID: "R301", Campus: "Campus-3"},
			{ID: "R101", Campus: "Campus-1"},
		},
	})
	require.NoError(t, err)

	mismatch := slot("s1", "A01", "TCH1001", "R101", "Monday", "08:00")
	lunch := slot("s2", "A01", "TCH1001", "R301", "Monday", "12:20")

	violations := Verify(cat, []models.ScheduleSlot{mismatch, lunch})
	require.Len(t, violations, 2)
	assert.Equal(t, models.CampusMismatch, violations[0].Type)
	assert.Equal(t, models.InvalidTime, violations[1].Type)
}

func TestCountByType(t *testing.T) {
	violations := []models.Violation{
		{Type: models.TeacherConflict},
		{Type: models.TeacherConflict},
		{Type: models.RoomConflict},
	}
	counts := CountByType(violations)
	assert.Equal(t, 2, counts[string(models.TeacherConflict)])
	assert.Equal(t, 1, counts[string(models.RoomConflict)])
}
