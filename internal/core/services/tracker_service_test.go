package services_test

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
	"github.com/comitanigiacomo/kanso-coach/internal/core/services"
)

// Wednesday, slot 2.
var wednesday = time.Date(2024, 1, 3, 18, 30, 0, 0, time.UTC)

func newTestTracker(now time.Time) (*services.TrackerService, *recordingPresenter) {
	p := &recordingPresenter{}
	svc := services.NewTrackerService(p, services.TrackerConfig{
		Now: func() time.Time { return now },
	}, zap.NewNop())
	return svc, p
}

func TestTrackerService_LoadBatch(t *testing.T) {
	t.Run("Success: Renders fresh batch with zeroed progress", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)

		svc.LoadBatch([]string{"A", "B", "C"})

		snap := p.lastRender()
		require.Len(t, snap.Habits, 3)
		assert.Equal(t, [7]int{}, snap.Progress)
		assert.Empty(t, p.emptyStates)
	})

	t.Run("Reset: New batch zeroes progress and flags regardless of prior state", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A", "B"})
		_, err := svc.ToggleCompletion(0)
		require.NoError(t, err)
		_, err = svc.ToggleCompletion(1)
		require.NoError(t, err)
		require.Equal(t, 2, p.lastRender().Progress[2])

		svc.LoadBatch([]string{"X", "Y", "Z"})

		snap := svc.Snapshot()
		assert.Equal(t, [7]int{}, snap.Progress)
		assert.Equal(t, 0, svc.CompletedCount())
		for _, h := range snap.Habits {
			assert.False(t, h.Completed)
		}
	})

	t.Run("Empty batch shows the empty state", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)

		svc.LoadBatch([]string{})

		assert.Equal(t, []string{services.EmptyStateMessage}, p.emptyStates)
		assert.Empty(t, p.errorMessages())
	})

	t.Run("Leaderboard survives a new batch", func(t *testing.T) {
		svc, _ := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A"})
		_, _ = svc.ToggleCompletion(0)

		svc.LoadBatch([]string{"B"})

		assert.Equal(t, []domain.LeaderboardEntry{{Name: "User", Score: 1}}, svc.Snapshot().Leaderboard)
	})
}

func TestTrackerService_ToggleCompletion(t *testing.T) {
	t.Run("Scenario: Toggle on then off updates today's slot", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A", "B", "C"})

		h, err := svc.ToggleCompletion(0)
		require.NoError(t, err)
		assert.True(t, h.Completed)
		assert.Equal(t, 1, svc.CompletedCount())
		assert.Equal(t, 1, svc.Snapshot().Progress[2])

		h, err = svc.ToggleCompletion(0)
		require.NoError(t, err)
		assert.False(t, h.Completed)
		assert.Equal(t, 0, svc.CompletedCount())
		assert.Equal(t, 0, svc.Snapshot().Progress[2])

		assert.Equal(t, []string{"Completed: A", "Completed: A"}, p.notifications)
	})

	t.Run("Leaderboard tracks the latest count for the current user", func(t *testing.T) {
		p := &recordingPresenter{}
		svc := services.NewTrackerService(p, services.TrackerConfig{
			Username: "Alice",
			Now:      func() time.Time { return wednesday },
		}, zap.NewNop())
		svc.LoadBatch([]string{"A", "B", "C"})

		_, _ = svc.ToggleCompletion(0)
		_, _ = svc.ToggleCompletion(2)
		_, _ = svc.ToggleCompletion(0)

		assert.Equal(t, []domain.LeaderboardEntry{{Name: "Alice", Score: 1}}, p.lastRender().Leaderboard)
	})

	t.Run("Sunday completions land in the last slot", func(t *testing.T) {
		sunday := time.Date(2024, 1, 7, 7, 0, 0, 0, time.UTC)
		svc, _ := newTestTracker(sunday)
		svc.LoadBatch([]string{"A", "B"})

		_, _ = svc.ToggleCompletion(1)

		assert.Equal(t, [7]int{0, 0, 0, 0, 0, 0, 1}, svc.Snapshot().Progress)
	})

	t.Run("Error: Out of range leaves state untouched", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A"})
		renders := len(p.renders)

		_, err := svc.ToggleCompletion(3)

		assert.ErrorIs(t, err, domain.ErrHabitIndexOutOfRange)
		assert.Len(t, p.renders, renders)
		assert.Empty(t, p.notifications)
		assert.Empty(t, svc.Snapshot().Leaderboard)
	})
}

func TestTrackerService_ApplySuggestions(t *testing.T) {
	t.Run("Scenario: Service error keeps the previous batch", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A", "B"})
		_, _ = svc.ToggleCompletion(1)
		before := svc.Snapshot()

		svc.ApplySuggestions(nil, &domain.ServiceError{Status: 429, Message: "rate limited"})

		assert.Equal(t, before, svc.Snapshot())
		assert.Equal(t, []string{"Server Error: rate limited. Check your terminal for errors (like 429)."}, p.errorMessages())
	})

	t.Run("Network error surfaces a connection message", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A"})

		svc.ApplySuggestions(nil, &domain.NetworkError{Addr: "http://localhost:3000/api/suggestions", Err: syscall.ECONNREFUSED})

		require.Len(t, p.errorMessages(), 1)
		assert.Contains(t, p.errorMessages()[0], "Connection Error")
		assert.Contains(t, p.errorMessages()[0], "http://localhost:3000/api/suggestions")
		assert.Len(t, svc.Snapshot().Habits, 1)
	})

	t.Run("Success replaces the batch", func(t *testing.T) {
		svc, _ := newTestTracker(wednesday)
		svc.LoadBatch([]string{"A"})

		svc.ApplySuggestions([]string{"X", "Y"}, nil)

		habits := svc.Snapshot().Habits
		require.Len(t, habits, 2)
		assert.Equal(t, "X", habits[0].Description)
	})
}

func TestTrackerService_BeginSubmit(t *testing.T) {
	t.Run("Blank goal is rejected without taking the control", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)

		_, _, err := svc.BeginSubmit("   ")

		assert.ErrorIs(t, err, domain.ErrGoalEmpty)
		assert.False(t, svc.SubmitBusy())
		assert.Empty(t, p.enabledHistory())
	})

	t.Run("Control is exclusive until released", func(t *testing.T) {
		svc, p := newTestTracker(wednesday)

		goal, release, err := svc.BeginSubmit("  sleep better ")
		require.NoError(t, err)
		assert.Equal(t, "sleep better", goal)

		_, _, err = svc.BeginSubmit("another")
		assert.ErrorIs(t, err, services.ErrSubmitInProgress)

		release()
		assert.False(t, svc.SubmitBusy())
		assert.Equal(t, []bool{false, true}, p.enabledHistory())
	})
}

func TestFailureMessage(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", &domain.ServiceError{Status: 500, Message: "AI Suggestion failed"})
	assert.Equal(t, "Server Error: AI Suggestion failed. Check your terminal for errors (like 429).", services.FailureMessage(wrapped))

	assert.Equal(t, "Unexpected Error: boom", services.FailureMessage(errors.New("boom")))
}
