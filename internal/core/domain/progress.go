package domain

import "time"

const DaysPerWeek = 7

var DayLabels = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DaySlot maps t to its Monday-first slot (Monday=0 .. Sunday=6).
// time.Weekday counts from Sunday=0, so Sunday wraps to the end.
func DaySlot(t time.Time) int {
	return (int(t.Weekday()) + DaysPerWeek - 1) % DaysPerWeek
}

// WeeklyProgress stores, per weekday, the completed count observed the last
// time that day was "today". Slots are never decayed.
type WeeklyProgress struct {
	slots [DaysPerWeek]int
}

func NewWeeklyProgress() *WeeklyProgress {
	return &WeeklyProgress{}
}

func (p *WeeklyProgress) RecomputeToday(completed int, now time.Time) {
	if completed < 0 {
		completed = 0
	}
	p.slots[DaySlot(now)] = completed
}

func (p *WeeklyProgress) Today(now time.Time) int {
	return p.slots[DaySlot(now)]
}

func (p *WeeklyProgress) Snapshot() [DaysPerWeek]int {
	return p.slots
}

func (p *WeeklyProgress) Reset() {
	p.slots = [DaysPerWeek]int{}
}
