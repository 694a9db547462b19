package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrHabitIndexOutOfRange = errors.New("habit index out of range")
	ErrGoalEmpty            = errors.New("goal cannot be empty")
	ErrGoalTooLong          = errors.New("goal is too long (max 500 chars)")
)

const MaxGoalLen = 500

type Habit struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// HabitRegistry holds the habits of the currently loaded batch. A habit is
// identified by its position, which is only stable until the next LoadBatch.
type HabitRegistry struct {
	habits []Habit
}

func NewHabitRegistry() *HabitRegistry {
	return &HabitRegistry{}
}

func (r *HabitRegistry) LoadBatch(descriptions []string) {
	habits := make([]Habit, 0, len(descriptions))
	for _, d := range descriptions {
		habits = append(habits, Habit{Description: d})
	}
	r.habits = habits
}

func (r *HabitRegistry) Toggle(index int) (Habit, error) {
	if index < 0 || index >= len(r.habits) {
		return Habit{}, fmt.Errorf("%w: %d (have %d)", ErrHabitIndexOutOfRange, index, len(r.habits))
	}

	r.habits[index].Completed = !r.habits[index].Completed
	return r.habits[index], nil
}

func (r *HabitRegistry) CompletedCount() int {
	count := 0
	for _, h := range r.habits {
		if h.Completed {
			count++
		}
	}
	return count
}

func (r *HabitRegistry) Len() int {
	return len(r.habits)
}

func (r *HabitRegistry) Habits() []Habit {
	out := make([]Habit, len(r.habits))
	copy(out, r.habits)
	return out
}

func NormalizeGoal(goal string) (string, error) {
	trimmed := strings.TrimSpace(goal)
	if trimmed == "" {
		return "", ErrGoalEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxGoalLen {
		return "", ErrGoalTooLong
	}
	return trimmed, nil
}

// NormalizeSuggestions splits every entry on line breaks, trims the pieces
// and drops the empty ones, preserving order.
func NormalizeSuggestions(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, line := range strings.Split(strings.ReplaceAll(entry, "\r\n", "\n"), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}
