package solver

import (
	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/models"
)

// GapPenalty counts, over every batch and day, the idle grid positions
// lying strictly between two occupied positions. The count is monotone: a
// schedule with more such holes never scores lower. Slots whose time does
// not resolve against the scheme grid are ignored.
func GapPenalty(cat *catalog.Catalog, slots []models.ScheduleSlot) float64 {
	occupied := make(map[string]map[int]bool)
	for _, slot := range slots {
		pos, ok := cat.TimeIndex(slot.Scheme, slot.TimeStart)
		if !ok {
			continue
		}
		key := slot.BatchID + "\x00" + slot.Day
		if occupied[key] == nil {
			occupied[key] = make(map[int]bool)
		}
		occupied[key][pos] = true
	}

	var penalty float64
	for _, positions := range occupied {
		lo, hi := -1, -1
		for pos := range positions {
			if lo == -1 || pos < lo {
				lo = pos
			}
			if pos > hi {
				hi = pos
			}
		}
		for pos := lo + 1; pos < hi; pos++ {
			if !positions[pos] {
				penalty++
			}
		}
	}
	return penalty
}

// repairGaps compacts each batch-day by pulling the session after a hole
// into the hole, provided its teacher and room are free there. Pinned
// assignments never move. Mirrors the constructive gap avoidance in
// timeOrder; bounded by maxPasses.
func (st *searchState) repairGaps(maxPasses int) int {
	moves := 0
	for pass := 0; pass < maxPasses; pass++ {
		moved := false
		for batch := range st.m.grids {
			for day := range st.m.cat.Days() {
				if st.closeFirstGap(batch, day) {
					moved = true
					moves++
				}
			}
		}
		if !moved {
			break
		}
	}
	return moves
}

func (st *searchState) closeFirstGap(batch, day int) bool {
	grid := st.m.grids[batch]
	var occupiedPos []int
	posToGlobal := make(map[int]int, len(grid.allowed))
	for _, t := range grid.allowed {
		posToGlobal[grid.pos[t]] = t
		if _, busy := st.batchBusy[occKey{batch, day, t}]; busy {
			occupiedPos = append(occupiedPos, grid.pos[t])
		}
	}
	if len(occupiedPos) < 2 {
		return false
	}
	// grid.allowed is chronological, so occupiedPos arrives sorted
	for i := 0; i < len(occupiedPos)-1; i++ {
		cur, next := occupiedPos[i], occupiedPos[i+1]
		if next-cur <= 1 {
			continue
		}
		target := posToGlobal[cur+1]
		from := posToGlobal[next]
		idx := st.batchBusy[occKey{batch, day, from}]
		a := st.placed[idx]
		if a.pinned {
			continue
		}
		if st.teacherBusy[occKey{a.teacher, day, target}] || st.roomBusy[occKey{a.room, day, target}] {
			continue
		}
		st.move(idx, target)
		return true
	}
	return false
}

// move shifts a placed assignment to another time on the same day.
func (st *searchState) move(idx, target int) {
	a := st.placed[idx]
	delete(st.batchBusy, occKey{a.batch, a.day, a.time})
	delete(st.teacherBusy, occKey{a.teacher, a.day, a.time})
	delete(st.roomBusy, occKey{a.room, a.day, a.time})

	a.time = target
	st.placed[idx] = a
	st.batchBusy[occKey{a.batch, a.day, a.time}] = idx
	st.teacherBusy[occKey{a.teacher, a.day, a.time}] = true
	st.roomBusy[occKey{a.room, a.day, a.time}] = true
}
