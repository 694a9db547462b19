package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/platform/metrics"
)

var ErrLoopStopped = errors.New("command loop stopped")

// Command mutates state owned by the loop. It always runs on the loop
// goroutine, one at a time.
type Command func() error

type envelope struct {
	name  string
	run   Command
	reply chan error
}

// CommandLoop serializes every state transition of the tracker onto a single
// goroutine. Background work started with Go reports back through Post.
type CommandLoop struct {
	logger   *zap.Logger
	commands chan envelope
	quit     chan struct{}
	exited   chan struct{}

	mu       sync.RWMutex
	closed   bool
	started  bool
	stopOnce sync.Once
	inflight sync.WaitGroup
}

func NewCommandLoop(logger *zap.Logger, buffer int) *CommandLoop {
	if buffer < 1 {
		buffer = 1
	}
	return &CommandLoop{
		logger:   logger,
		commands: make(chan envelope, buffer),
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

func (l *CommandLoop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.closed {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go func() {
		defer close(l.exited)
		l.logger.Info("command loop started")
		for {
			select {
			case env := <-l.commands:
				l.execute(env)
			case <-ctx.Done():
				l.logger.Info("command loop context done, shutting down")
				return
			case <-l.quit:
				l.logger.Info("command loop shutting down")
				return
			}
		}
	}()
}

// Dispatch runs cmd on the loop and waits for its result.
func (l *CommandLoop) Dispatch(ctx context.Context, name string, cmd Command) error {
	env := envelope{name: name, run: cmd, reply: make(chan error, 1)}
	if err := l.enqueue(env); err != nil {
		return err
	}

	select {
	case err := <-env.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.exited:
		select {
		case err := <-env.reply:
			return err
		default:
			return ErrLoopStopped
		}
	}
}

// Post queues cmd without waiting for it. It fails only once the loop has
// been stopped; a posted command is otherwise guaranteed to run.
func (l *CommandLoop) Post(name string, cmd Command) error {
	return l.enqueue(envelope{name: name, run: cmd})
}

// Go runs fn in the background. Stop waits for it to return.
func (l *CommandLoop) Go(fn func()) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		fn()
	}()
}

// Stop refuses new commands, runs whatever is still queued and waits for
// background work started with Go.
func (l *CommandLoop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		started := l.started
		l.mu.Unlock()

		close(l.quit)
		if started {
			<-l.exited
		} else {
			close(l.exited)
		}

		l.drain()
		l.inflight.Wait()
		l.logger.Info("command loop stopped")
	})
}

func (l *CommandLoop) enqueue(env envelope) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrLoopStopped
	}

	select {
	case l.commands <- env:
		return nil
	case <-l.exited:
		return ErrLoopStopped
	}
}

func (l *CommandLoop) drain() {
	for {
		select {
		case env := <-l.commands:
			l.execute(env)
		default:
			return
		}
	}
}

func (l *CommandLoop) execute(env envelope) {
	start := time.Now()
	err := l.safeRun(env)

	metrics.RecordCommand(env.name, err)
	if err != nil {
		l.logger.Debug("command failed", zap.String("command", env.name), zap.Error(err))
	} else {
		l.logger.Debug("command done", zap.String("command", env.name), zap.Duration("took", time.Since(start)))
	}

	if env.reply != nil {
		env.reply <- err
	}
}

func (l *CommandLoop) safeRun(env envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("command panicked", zap.String("command", env.name), zap.Any("panic", r))
			err = fmt.Errorf("command %s panicked: %v", env.name, r)
		}
	}()
	return env.run()
}
