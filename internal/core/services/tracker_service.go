package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
)

const (
	DefaultUsername   = "User"
	EmptyStateMessage = "No habits suggested. Try a different goal or check the server status."
)

var DefaultSeedHabits = []string{
	"Drink 2 glasses of water immediately upon waking",
	"Walk for 15 minutes outdoors",
	"Read 10 pages of a book",
}

type TrackerConfig struct {
	Username string
	Now      func() time.Time
}

// TrackerService owns the habit registry, the weekly progress and the
// leaderboard. It is not safe for concurrent use; TrackerController confines
// it to the command loop.
type TrackerService struct {
	registry    *domain.HabitRegistry
	progress    *domain.WeeklyProgress
	leaderboard *domain.Leaderboard
	presenter   domain.Presenter
	control     *SubmitControl
	username    string
	now         func() time.Time
	logger      *zap.Logger
}

func NewTrackerService(presenter domain.Presenter, cfg TrackerConfig, logger *zap.Logger) *TrackerService {
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TrackerService{
		registry:    domain.NewHabitRegistry(),
		progress:    domain.NewWeeklyProgress(),
		leaderboard: domain.NewLeaderboard(),
		presenter:   presenter,
		control:     NewSubmitControl(presenter.SetSubmitEnabled),
		username:    cfg.Username,
		now:         cfg.Now,
		logger:      logger,
	}
}

func (s *TrackerService) LoadBatch(descriptions []string) {
	s.registry.LoadBatch(descriptions)
	s.progress.Reset()

	s.presenter.Render(s.Snapshot())
	if s.registry.Len() == 0 {
		s.presenter.ShowEmptyState(EmptyStateMessage)
	}

	s.logger.Info("habit batch loaded", zap.Int("habits", s.registry.Len()))
}

func (s *TrackerService) ToggleCompletion(index int) (domain.Habit, error) {
	habit, err := s.registry.Toggle(index)
	if err != nil {
		return domain.Habit{}, err
	}

	completed := s.registry.CompletedCount()
	now := s.now()
	s.progress.RecomputeToday(completed, now)
	s.leaderboard.RecordScore(s.username, completed)

	s.presenter.Render(s.Snapshot())
	s.presenter.Notify("Completed: " + habit.Description)

	s.logger.Debug("habit toggled",
		zap.Int("index", index),
		zap.Bool("completed", habit.Completed),
		zap.String("day", domain.DayLabels[domain.DaySlot(now)]),
		zap.Int("today", completed),
	)

	return habit, nil
}

func (s *TrackerService) CompletedCount() int {
	return s.registry.CompletedCount()
}

func (s *TrackerService) Snapshot() domain.TrackerSnapshot {
	return domain.TrackerSnapshot{
		Habits:      s.registry.Habits(),
		Progress:    s.progress.Snapshot(),
		Leaderboard: s.leaderboard.Snapshot(),
	}
}

// BeginSubmit validates the goal and takes the submit control. The caller
// must invoke release exactly when the request has finished.
func (s *TrackerService) BeginSubmit(goal string) (string, func(), error) {
	cleanGoal, err := domain.NormalizeGoal(goal)
	if err != nil {
		return "", nil, err
	}

	release, err := s.control.Acquire()
	if err != nil {
		return "", nil, err
	}

	return cleanGoal, release, nil
}

// ApplySuggestions is the single place a gateway outcome enters the tracker
// state. On failure the current batch is left untouched.
func (s *TrackerService) ApplySuggestions(habits []string, fetchErr error) {
	if fetchErr != nil {
		s.logger.Warn("suggestion request failed", zap.Error(fetchErr))
		s.presenter.ShowError(FailureMessage(fetchErr))
		return
	}
	s.LoadBatch(habits)
}

func (s *TrackerService) SubmitBusy() bool {
	return s.control.Busy()
}

func (s *TrackerService) Username() string {
	return s.username
}

// FailureMessage turns a gateway error into the text shown to the user.
func FailureMessage(err error) string {
	var netErr *domain.NetworkError
	var svcErr *domain.ServiceError

	switch {
	case errors.As(err, &netErr):
		return fmt.Sprintf("Connection Error: Could not reach the server at %s. Make sure the relay is running!", netErr.Addr)
	case errors.As(err, &svcErr):
		return fmt.Sprintf("Server Error: %s. Check your terminal for errors (like 429).", svcErr.Message)
	default:
		return "Unexpected Error: " + err.Error()
	}
}
