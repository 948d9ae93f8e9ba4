package conflict

import (
	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
)

// LocalRepair applies deterministic best-effort fixes to a conflicting slot
// set without re-solving. Only room conflicts are repaired: the first slot
// of each conflict keeps its room and every later one moves to the lowest-id
// same-campus room still free at that grid cell. Teacher and batch
// conflicts are a policy decision outside the engine's authority and are
// left for the caller; they surface in Remaining, as does any room conflict
// with no free alternative. Every substitution is recorded for audit.
func LocalRepair(cat *catalog.Catalog, slots []models.ScheduleSlot) models.RepairResult {
	fixed := make([]models.ScheduleSlot, len(slots))
	copy(fixed, slots)

	// rooms already taken per grid cell, across the whole input
	busy := make(map[models.TimeKey]map[string]bool)
	for _, slot := range fixed {
		key := slot.Key()
		if busy[key] == nil {
			busy[key] = make(map[string]bool)
		}
		busy[key][slot.RoomID] = true
	}

	var changes []models.RoomChange
	seen := make(map[models.TimeKey]map[string]bool)
	for i, slot := range fixed {
		key := slot.Key()
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if !seen[key][slot.RoomID] {
			// first slot in document order keeps its room
			seen[key][slot.RoomID] = true
			continue
		}

		replacement, ok := firstFreeRoom(cat, slot.Campus, busy[key])
		if !ok {
			continue // no alternate room on campus; stays in Remaining
		}
		busy[key][replacement.ID] = true
		changes = append(changes, models.RoomChange{
			SlotID:    slot.ID,
			BatchID:   slot.BatchID,
			Day:       slot.Day,
			TimeStart: slot.TimeStart,
			FromRoom:  slot.RoomID,
			ToRoom:    replacement.ID,
		})
		fixed[i].RoomID = replacement.ID
		fixed[i].RoomName = replacement.Name
		if fixed[i].RoomName == "" {
			fixed[i].RoomName = replacement.ID
		}
	}

	return models.RepairResult{
		Slots:         fixed,
		Remaining:     Detect(fixed),
		Reassignments: changes,
		Strategy:      models.RepairBestEffort,
	}
}

func firstFreeRoom(cat *catalog.Catalog, campus string, taken map[string]bool) (models.Room, bool) {
	for _, idx := range cat.RoomsOnCampus(campus) {
		room := cat.Room(idx)
		if !taken[room.ID] {
			return room, true
		}
	}
	return models.Room{}, false
}
