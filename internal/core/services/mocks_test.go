package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
)

type recordingPresenter struct {
	mu            sync.Mutex
	renders       []domain.TrackerSnapshot
	emptyStates   []string
	errors        []string
	notifications []string
	enabled       []bool
}

func (p *recordingPresenter) Render(snap domain.TrackerSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders = append(p.renders, snap)
}

func (p *recordingPresenter) ShowEmptyState(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emptyStates = append(p.emptyStates, message)
}

func (p *recordingPresenter) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, message)
}

func (p *recordingPresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, message)
}

func (p *recordingPresenter) SetSubmitEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = append(p.enabled, enabled)
}

func (p *recordingPresenter) lastRender() domain.TrackerSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.renders) == 0 {
		return domain.TrackerSnapshot{}
	}
	return p.renders[len(p.renders)-1]
}

func (p *recordingPresenter) errorMessages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.errors...)
}

func (p *recordingPresenter) enabledHistory() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.enabled...)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) RequestSuggestions(ctx context.Context, goal string) ([]string, error) {
	args := m.Called(ctx, goal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Name() string {
	return "mock"
}
