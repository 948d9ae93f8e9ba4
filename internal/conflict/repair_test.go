package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
)

func repairCatalog(t *testing.T, rooms ...models.Room) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(catalog.Input{
		Batches: []models.Batch{
			{ID: "A01", Department: "CSE", Scheme: models.SchemeA, Campus: "Campus-3"},
			{ID: "A02", Department: "CSE", Scheme: models.SchemeA, Campus: "Campus-3"},
		},
		Teachers: []models.Teacher{
			{ID: "TCH1001", Department: "CSE"},
			{ID: "TCH1002", Department: "CSE"},
		},
		Subjects: []models.Subject{{Code: "CS101", Department: "CSE", Scheme: models.SchemeA}},
		Rooms:    rooms,
	})
	require.NoError(t, err)
	return cat
}

func TestLocalRepairReassignsRoomConflict(t *testing.T) {
	cat := repairCatalog(t,
		models.Room{ID: "R301", Name: "Room 301", Campus: "Campus-3"},
		models.Room{ID: "R302", Name: "Room 302", Campus: "Campus-3"},
	)
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1002", "R301", "Monday", "08:00"),
	}

	result := LocalRepair(cat, slots)
	assert.Empty(t, result.Remaining)
	assert.Equal(t, models.RepairBestEffort, result.Strategy)

	// first slot keeps its room, second moves to the free alternate
	assert.Equal(t, "R301", result.Slots[0].RoomID)
	assert.Equal(t, "R302", result.Slots[1].RoomID)
	assert.Equal(t, "Room 302", result.Slots[1].RoomName)

	require.Len(t, result.Reassignments, 1)
	change := result.Reassignments[0]
	assert.Equal(t, "s2", change.SlotID)
	assert.Equal(t, "R301", change.FromRoom)
	assert.Equal(t, "R302", change.ToRoom)
}

func TestLocalRepairDeterministicRoomChoice(t *testing.T) {
	cat := repairCatalog(t,
		models.Room{ID: "R305", Campus: "Campus-3"},
		models.Room{ID: "R303", Campus: "Campus-3"},
		models.Room{ID: "R304", Campus: "Campus-3"},
	)
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R305", "Monday", "08:00"),
		slot("s2", "A02", "TCH1002", "R305", "Monday", "08:00"),
	}

	first := LocalRepair(cat, slots)
	second := LocalRepair(cat, slots)
	// lowest-id free room wins, every time
	assert.Equal(t, "R303", first.Slots[1].RoomID)
	assert.Equal(t, first.Slots, second.Slots)
}

func TestLocalRepairNoAlternateRoom(t *testing.T) {
	cat := repairCatalog(t, models.Room{ID: "R301", Campus: "Campus-3"})
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1002", "R301", "Monday", "08:00"),
	}

	result := LocalRepair(cat, slots)
	assert.Empty(t, result.Reassignments)
	require.Len(t, result.Remaining, 1)
	assert.Equal(t, models.RoomConflict, result.Remaining[0].Type)
}

func TestLocalRepairLeavesTeacherConflictAlone(t *testing.T) {
	cat := repairCatalog(t,
		models.Room{ID: "R301", Campus: "Campus-3"},
		models.Room{ID: "R302", Campus: "Campus-3"},
	)
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1001", "R302", "Monday", "08:00"),
	}

	result := LocalRepair(cat, slots)
	assert.Empty(t, result.Reassignments)
	require.Len(t, result.Remaining, 1)
	assert.Equal(t, models.TeacherConflict, result.Remaining[0].Type)
	assert.Equal(t, slots, result.Slots, "teacher reassignment is the caller's decision")
}

func TestLocalRepairIdempotent(t *testing.T) {
	cat := repairCatalog(t,
		models.Room{ID: "R301", Campus: "Campus-3"},
		models.Room{ID: "R302", Campus: "Campus-3"},
		models.Room{ID: "R303", Campus: "Campus-3"},
	)
	slots := []models.ScheduleSlot{
		slot("s1", "A01", "TCH1001", "R301", "Monday", "08:00"),
		slot("s2", "A02", "TCH1002", "R301", "Monday", "08:00"),
		slot("s3", "A01", "TCH1001", "R302", "Monday", "09:00"),
	}

	first := LocalRepair(cat, slots)
	second := LocalRepair(cat, first.Slots)
	assert.Empty(t, second.Reassignments, "repaired schedule needs no further fixes")
	assert.LessOrEqual(t, len(second.Remaining), len(first.Remaining))
	assert.Equal(t, first.Slots, second.Slots)
}
