package http_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

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

// blockingGateway holds every request until release is closed.
type blockingGateway struct {
	mu      sync.Mutex
	goals   []string
	habits  []string
	err     error
	release chan struct{}
}

func newBlockingGateway(habits []string, err error) *blockingGateway {
	return &blockingGateway{habits: habits, err: err, release: make(chan struct{})}
}

func (g *blockingGateway) RequestSuggestions(ctx context.Context, goal string) ([]string, error) {
	g.mu.Lock()
	g.goals = append(g.goals, goal)
	g.mu.Unlock()

	<-g.release
	return g.habits, g.err
}

func (g *blockingGateway) requested() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.goals...)
}
