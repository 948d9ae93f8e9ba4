package solver

import (
	"context"
	"errors"
	"sort"
	"time"
)

// errDeadline aborts the search when the time budget runs out.
var errDeadline = errors.New("solver deadline exceeded")

type occKey struct {
	idx  int // batch, teacher or room index depending on the map
	day  int
	time int
}

// session is one unit of demand to place during search.
type session struct {
	req     int // index into Model.reqs
	ordinal int // position among the sessions of the same requirement
}

type searchState struct {
	m *Model

	batchBusy   map[occKey]int // -> index into placed
	teacherBusy map[occKey]bool
	roomBusy    map[occKey]bool
	teacherLoad map[int]int
	dayLoad     map[[2]int]int // (batch, day) -> sessions placed

	placed []assignment
	// lastCell breaks the symmetry between interchangeable sessions of one
	// requirement: each next session must land on a strictly larger cell.
	lastCell map[int][]int

	nodes      int64
	checkEvery int
	deadline   time.Time
	ctx        context.Context
}

func newSearchState(ctx context.Context, m *Model, deadline time.Time, checkEvery int) *searchState {
	if checkEvery <= 0 {
		checkEvery = 1024
	}
	return &searchState{
		m:           m,
		batchBusy:   make(map[occKey]int),
		teacherBusy: make(map[occKey]bool),
		roomBusy:    make(map[occKey]bool),
		teacherLoad: make(map[int]int),
		dayLoad:     make(map[[2]int]int),
		lastCell:    make(map[int][]int),
		checkEvery:  checkEvery,
		deadline:    deadline,
		ctx:         ctx,
	}
}

// applyPins seeds the occupancy maps with the pinned assignments. A pin
// colliding with another pin is a modelling dead end and fails immediately.
func (st *searchState) applyPins() bool {
	for _, pin := range st.m.pins {
		if !st.free(pin) {
			return false
		}
		st.place(pin)
	}
	return true
}

func (st *searchState) free(a assignment) bool {
	if _, busy := st.batchBusy[occKey{a.batch, a.day, a.time}]; busy {
		return false
	}
	if st.teacherBusy[occKey{a.teacher, a.day, a.time}] {
		return false
	}
	if st.roomBusy[occKey{a.room, a.day, a.time}] {
		return false
	}
	return true
}

func (st *searchState) place(a assignment) {
	st.batchBusy[occKey{a.batch, a.day, a.time}] = len(st.placed)
	st.teacherBusy[occKey{a.teacher, a.day, a.time}] = true
	st.roomBusy[occKey{a.room, a.day, a.time}] = true
	st.teacherLoad[a.teacher]++
	st.dayLoad[[2]int{a.batch, a.day}]++
	st.placed = append(st.placed, a)
}

func (st *searchState) unplace() {
	a := st.placed[len(st.placed)-1]
	st.placed = st.placed[:len(st.placed)-1]
	delete(st.batchBusy, occKey{a.batch, a.day, a.time})
	delete(st.teacherBusy, occKey{a.teacher, a.day, a.time})
	delete(st.roomBusy, occKey{a.room, a.day, a.time})
	st.teacherLoad[a.teacher]--
	st.dayLoad[[2]int{a.batch, a.day}]--
}

func (st *searchState) tick() error {
	st.nodes++
	if st.nodes%int64(st.checkEvery) != 0 {
		return nil
	}
	if err := st.ctx.Err(); err != nil {
		return errDeadline
	}
	if !st.deadline.IsZero() && time.Now().After(st.deadline) {
		return errDeadline
	}
	return nil
}

// orderedSessions expands requirements into individual sessions, hardest
// first: fewest candidate tuples, ties broken by batch id then subject code.
func (st *searchState) orderedSessions() []session {
	order := make([]int, 0, len(st.m.reqs))
	for i := range st.m.reqs {
		if st.m.reqs[i].sessions > 0 {
			order = append(order, i)
		}
	}
	cat := st.m.cat
	sort.Slice(order, func(x, y int) bool {
		a, b := st.m.reqs[order[x]], st.m.reqs[order[y]]
		if a.candidates != b.candidates {
			return a.candidates < b.candidates
		}
		if cat.Batch(a.batch).ID != cat.Batch(b.batch).ID {
			return cat.Batch(a.batch).ID < cat.Batch(b.batch).ID
		}
		return cat.Subject(a.subject).Code < cat.Subject(b.subject).Code
	})

	var sessions []session
	for _, i := range order {
		for n := 0; n < st.m.reqs[i].sessions; n++ {
			sessions = append(sessions, session{req: i, ordinal: n})
		}
	}
	return sessions
}

// run performs the backtracking search. It returns true when every session
// is placed, false when the space is exhausted, and errDeadline when the
// budget ran out first.
func (st *searchState) run() (bool, error) {
	sessions := st.orderedSessions()
	return st.extend(sessions, 0)
}

func (st *searchState) extend(sessions []session, i int) (bool, error) {
	if i == len(sessions) {
		return true, nil
	}
	req := st.m.reqs[sessions[i].req]
	prevCell := -1
	if cells := st.lastCell[sessions[i].req]; len(cells) > 0 {
		prevCell = cells[len(cells)-1]
	}

	for _, day := range st.dayOrder(req.batch) {
		for _, t := range st.timeOrder(req.batch, day) {
			cell := day*len(st.m.times) + t
			if cell <= prevCell {
				continue
			}
			if _, busy := st.batchBusy[occKey{req.batch, day, t}]; busy {
				continue
			}
			for _, teacher := range st.teacherOrder(req.teachers) {
				if st.teacherBusy[occKey{teacher, day, t}] {
					continue
				}
				room, ok := st.firstFreeRoom(req.rooms, day, t)
				if !ok {
					break // every room taken at this cell, teacher choice is moot
				}
				if err := st.tick(); err != nil {
					return false, err
				}

				a := assignment{
					batch: req.batch, subject: req.subject,
					teacher: teacher, room: room, day: day, time: t,
				}
				st.place(a)
				st.lastCell[sessions[i].req] = append(st.lastCell[sessions[i].req], cell)

				solved, err := st.extend(sessions, i+1)
				if err != nil {
					return false, err
				}
				if solved {
					return true, nil
				}

				cells := st.lastCell[sessions[i].req]
				st.lastCell[sessions[i].req] = cells[:len(cells)-1]
				st.unplace()
			}
		}
	}
	return false, nil
}

// dayOrder spreads a batch's sessions across the week: least loaded day
// first, index as the deterministic tie-break.
func (st *searchState) dayOrder(batch int) []int {
	days := make([]int, len(st.m.cat.Days()))
	for i := range days {
		days[i] = i
	}
	sort.SliceStable(days, func(x, y int) bool {
		lx := st.dayLoad[[2]int{batch, days[x]}]
		ly := st.dayLoad[[2]int{batch, days[y]}]
		if lx != ly {
			return lx < ly
		}
		return days[x] < days[y]
	})
	return days
}

// timeOrder prefers cells adjacent to the batch's existing sessions on that
// day so schedules grow gap-free, then falls back to the earliest cell.
func (st *searchState) timeOrder(batch, day int) []int {
	grid := st.m.grids[batch]
	occupied := make(map[int]bool)
	for _, t := range grid.allowed {
		if _, busy := st.batchBusy[occKey{batch, day, t}]; busy {
			occupied[grid.pos[t]] = true
		}
	}

	type scored struct {
		t        int
		adjacent bool
		pos      int
	}
	candidates := make([]scored, 0, len(grid.allowed))
	for _, t := range grid.allowed {
		pos := grid.pos[t]
		if occupied[pos] {
			continue
		}
		candidates = append(candidates, scored{
			t:        t,
			adjacent: occupied[pos-1] || occupied[pos+1],
			pos:      pos,
		})
	}
	sort.SliceStable(candidates, func(x, y int) bool {
		if candidates[x].adjacent != candidates[y].adjacent {
			return candidates[x].adjacent
		}
		return candidates[x].pos < candidates[y].pos
	})

	order := make([]int, len(candidates))
	for i, c := range candidates {
		order[i] = c.t
	}
	return order
}

// teacherOrder balances weekly load; the id-sorted base keeps ties stable.
func (st *searchState) teacherOrder(teachers []int) []int {
	order := make([]int, len(teachers))
	copy(order, teachers)
	sort.SliceStable(order, func(x, y int) bool {
		return st.teacherLoad[order[x]] < st.teacherLoad[order[y]]
	})
	return order
}

// firstFreeRoom picks the lowest-id free room, matching the deterministic
// selection rule used by best-effort repair.
func (st *searchState) firstFreeRoom(rooms []int, day, t int) (int, bool) {
	for _, room := range rooms {
		if !st.roomBusy[occKey{room, day, t}] {
			return room, true
		}
	}
	return 0, false
}
