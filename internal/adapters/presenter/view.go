package presenter

import (
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
)

const (
	ChartTitle              = "Habits Completed"
	SubmitLabelIdle         = "Get AI Suggestions"
	SubmitLabelLoading      = "Loading..."
	NotificationTitle       = "Better Life Tracker"
	maxPendingNotifications = 50
)

var _ domain.Presenter = (*ViewPresenter)(nil)

type Chart struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	YMax   int      `json:"y_max"`
}

type LeaderboardRow struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Line  string `json:"line"`
}

type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type View struct {
	Habits        []domain.Habit   `json:"habits"`
	EmptyMessage  string           `json:"empty_message,omitempty"`
	Chart         Chart            `json:"chart"`
	Leaderboard   []LeaderboardRow `json:"leaderboard"`
	Error         string           `json:"error,omitempty"`
	SubmitEnabled bool             `json:"submit_enabled"`
	SubmitLabel   string           `json:"submit_label"`
	Pending       int              `json:"pending_notifications"`
}

// ViewPresenter keeps the latest rendered state for the browser page to
// poll. Writes come from the tracker loop, reads from HTTP handlers.
type ViewPresenter struct {
	mu            sync.RWMutex
	view          View
	notifications []Notification
	now           func() time.Time
}

func NewViewPresenter() *ViewPresenter {
	return &ViewPresenter{
		view: View{
			Habits:        []domain.Habit{},
			Chart:         buildChart([domain.DaysPerWeek]int{}, 0),
			Leaderboard:   []LeaderboardRow{},
			SubmitEnabled: true,
			SubmitLabel:   SubmitLabelIdle,
		},
		now: time.Now,
	}
}

// ChartMax is the y-axis upper bound for a batch of n habits.
func ChartMax(n int) int {
	return max(5, n+1)
}

func buildChart(progress [domain.DaysPerWeek]int, habits int) Chart {
	return Chart{
		Title:  ChartTitle,
		Labels: domain.DayLabels[:],
		Data:   progress[:],
		YMax:   ChartMax(habits),
	}
}

func (p *ViewPresenter) Render(snap domain.TrackerSnapshot) {
	rows := make([]LeaderboardRow, 0, len(snap.Leaderboard))
	for i, e := range snap.Leaderboard {
		rows = append(rows, LeaderboardRow{Rank: i + 1, Name: e.Name, Score: e.Score, Line: e.String()})
	}

	habits := snap.Habits
	if habits == nil {
		habits = []domain.Habit{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.Habits = habits
	p.view.Chart = buildChart(snap.Progress, len(habits))
	p.view.Leaderboard = rows
	if len(habits) > 0 {
		p.view.EmptyMessage = ""
	}
}

func (p *ViewPresenter) ShowEmptyState(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.EmptyMessage = message
}

func (p *ViewPresenter) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.Error = message
}

func (p *ViewPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.notifications = append(p.notifications, Notification{
		Title:   NotificationTitle,
		Message: message,
		At:      p.now().UTC(),
	})
	if over := len(p.notifications) - maxPendingNotifications; over > 0 {
		p.notifications = p.notifications[over:]
	}
}

// SetSubmitEnabled(false) marks the start of a new request, so any error
// from the previous one is cleared.
func (p *ViewPresenter) SetSubmitEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.SubmitEnabled = enabled
	if enabled {
		p.view.SubmitLabel = SubmitLabelIdle
		return
	}
	p.view.SubmitLabel = SubmitLabelLoading
	p.view.Error = ""
}

func (p *ViewPresenter) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v := p.view
	v.Habits = append([]domain.Habit(nil), p.view.Habits...)
	v.Chart.Labels = append([]string(nil), p.view.Chart.Labels...)
	v.Chart.Data = append([]int(nil), p.view.Chart.Data...)
	v.Leaderboard = append([]LeaderboardRow(nil), p.view.Leaderboard...)
	v.Pending = len(p.notifications)
	if v.Habits == nil {
		v.Habits = []domain.Habit{}
	}
	if v.Leaderboard == nil {
		v.Leaderboard = []LeaderboardRow{}
	}
	return v
}

func (p *ViewPresenter) DrainNotifications() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.notifications
	p.notifications = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
