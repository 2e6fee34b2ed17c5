package runner

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a run is requested while another run is active.
var ErrBusy = errors.New("a reconciliation run is already in progress")

// Coordinator holds the single-active-run guard.
// The zero value is ready to use.
type Coordinator struct {
	mu     sync.Mutex
	active bool
}

// TryAcquire attempts to claim the run slot. On success it returns a release
// function that must be called when the run completes or aborts. If a run is
// already active it returns ErrBusy.
func (c *Coordinator) TryAcquire() (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return nil, ErrBusy
	}
	c.active = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			c.active = false
			c.mu.Unlock()
		})
	}
	return release, nil
}

// Active reports whether a run is currently in progress.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
