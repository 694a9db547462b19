package domain

import "context"

type SuggestionGateway interface {
	// RequestSuggestions asks the relay for habits matching goal. The result
	// is already trimmed and free of empty lines.
	RequestSuggestions(ctx context.Context, goal string) ([]string, error)
}

type Completer interface {
	// Complete sends one system + user prompt pair upstream and returns the
	// raw text of the first answer.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name identifies the upstream provider in logs and health checks.
	Name() string
}

type TrackerSnapshot struct {
	Habits      []Habit
	Progress    [DaysPerWeek]int
	Leaderboard []LeaderboardEntry
}

type Presenter interface {
	Render(snap TrackerSnapshot)
	ShowEmptyState(message string)
	ShowError(message string)
	Notify(message string)
	SetSubmitEnabled(enabled bool)
}
