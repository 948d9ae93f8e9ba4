// Package conflict finds and repairs hard-constraint violations in
// arbitrary schedule-slot sets, including hand-edited ones.
package conflict

import (
	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
)

// Detect groups slots by (day, time_start) and flags every teacher, room
// and batch double-booking. Pure and total: empty and single-element inputs
// yield an empty violation list. One violation is emitted per conflicting
// resource per grid cell, with the offending slots in input order.
func Detect(slots []models.ScheduleSlot) []models.Violation {
	groups, order := groupByTime(slots)

	var violations []models.Violation
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		violations = append(violations, findDuplicates(key, group, models.TeacherConflict, func(s models.ScheduleSlot) string { return s.TeacherID })...)
		violations = append(violations, findDuplicates(key, group, models.RoomConflict, func(s models.ScheduleSlot) string { return s.RoomID })...)
		violations = append(violations, findDuplicates(key, group, models.BatchConflict, func(s models.ScheduleSlot) string { return s.BatchID })...)
	}
	return violations
}

// Partition splits slots into those untouched by any violation and those
// participating in at least one. Order within each part follows the input.
func Partition(slots []models.ScheduleSlot) (clean, conflicting []models.ScheduleSlot) {
	groups, _ := groupByTime(slots)

	inConflict := make(map[int]bool)
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		markDuplicates(group, inConflict, func(s models.ScheduleSlot) string { return s.TeacherID })
		markDuplicates(group, inConflict, func(s models.ScheduleSlot) string { return s.RoomID })
		markDuplicates(group, inConflict, func(s models.ScheduleSlot) string { return s.BatchID })
	}

	for i, slot := range slots {
		if inConflict[i] {
			conflicting = append(conflicting, slot)
		} else {
			clean = append(clean, slot)
		}
	}
	return clean, conflicting
}

// Verify certifies a slot set against the catalog: room-campus mismatches
// and times outside the batch scheme grid (the lunch interval included).
// These are data violations, distinct from the pairwise conflicts Detect
// reports.
func Verify(cat *catalog.Catalog, slots []models.ScheduleSlot) []models.Violation {
	var violations []models.Violation
	for _, slot := range slots {
		if idx, ok := cat.RoomIndex(slot.RoomID); ok {
			if room := cat.Room(idx); room.Campus != slot.Campus {
				violations = append(violations, models.Violation{
					Type:       models.CampusMismatch,
					Day:        slot.Day,
					TimeStart:  slot.TimeStart,
					ResourceID: slot.RoomID,
					Slots:      []models.ScheduleSlot{slot},
				})
			}
		}
		if _, ok := cat.TimeIndex(slot.Scheme, slot.TimeStart); !ok {
			violations = append(violations, models.Violation{
				Type:       models.InvalidTime,
				Day:        slot.Day,
				TimeStart:  slot.TimeStart,
				ResourceID: slot.BatchID,
				Slots:      []models.ScheduleSlot{slot},
			})
		}
	}
	return violations
}

// CountByType tallies violations for metrics.
func CountByType(violations []models.Violation) map[string]int {
	counts := make(map[string]int, len(violations))
	for _, v := range violations {
		counts[string(v.Type)]++
	}
	return counts
}

type slotRef struct {
	index int
	slot  models.ScheduleSlot
}

func groupByTime(slots []models.ScheduleSlot) (map[models.TimeKey][]slotRef, []models.TimeKey) {
	groups := make(map[models.TimeKey][]slotRef)
	var order []models.TimeKey
	for i, slot := range slots {
		key := slot.Key()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], slotRef{index: i, slot: slot})
	}
	return groups, order
}

func findDuplicates(key models.TimeKey, group []slotRef, violationType models.ViolationType, resource func(models.ScheduleSlot) string) []models.Violation {
	byResource := make(map[string][]models.ScheduleSlot)
	var order []string
	for _, ref := range group {
		id := resource(ref.slot)
		if _, seen := byResource[id]; !seen {
			order = append(order, id)
		}
		byResource[id] = append(byResource[id], ref.slot)
	}

	var violations []models.Violation
	for _, id := range order {
		if len(byResource[id]) < 2 {
			continue
		}
		violations = append(violations, models.Violation{
			Type:       violationType,
			Day:        key.Day,
			TimeStart:  key.TimeStart,
			ResourceID: id,
			Slots:      byResource[id],
		})
	}
	return violations
}

func markDuplicates(group []slotRef, inConflict map[int]bool, resource func(models.ScheduleSlot) string) {
	byResource := make(map[string][]int)
	for _, ref := range group {
		byResource[resource(ref.slot)] = append(byResource[resource(ref.slot)], ref.index)
	}
	for _, indices := range byResource {
		if len(indices) < 2 {
			continue
		}
		for _, i := range indices {
			inConflict[i] = true
		}
	}
}
