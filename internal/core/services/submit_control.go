package services

import (
	"errors"
	"sync"
)

var ErrSubmitInProgress = errors.New("a suggestion request is already in progress")

// SubmitControl models the "get suggestions" action: while held, no second
// request may start. The release func returned by Acquire is idempotent.
// onChange runs under the control's lock and must not call back into it.
type SubmitControl struct {
	mu       sync.Mutex
	held     bool
	onChange func(enabled bool)
}

func NewSubmitControl(onChange func(enabled bool)) *SubmitControl {
	if onChange == nil {
		onChange = func(bool) {}
	}
	return &SubmitControl{onChange: onChange}
}

func (c *SubmitControl) Acquire() (func(), error) {
	c.mu.Lock()
	if c.held {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	c.held = true
	c.onChange(false)
	c.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.held = false
			c.onChange(true)
		})
	}
	return release, nil
}

func (c *SubmitControl) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}
