package sim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process is one cooperatively scheduled actor.
type Process struct {
	env  *Environment
	id   uint64
	name string
	wake chan struct{}
}

// ID is unique within the environment.
func (p *Process) ID() uint64 { return p.id }

// Name returns the name given to Spawn.
func (p *Process) Name() string { return p.name }

// Env returns the environment the process runs in.
func (p *Process) Env() *Environment { return p.env }

// Now returns the current simulated time.
func (p *Process) Now() time.Duration { return p.env.now }

// Context is cancelled when the environment shuts down.
func (p *Process) Context() context.Context { return p.env.ctx }

// Wait suspends the process for d of simulated time.
func (p *Process) Wait(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("wait %s: %w", d, ErrNegativeDelay)
	}
	if p.env.stopped() {
		return ErrStopped
	}
	p.env.schedule(p.env.now+d, p)
	return p.park()
}

// park hands the execution token back to the scheduler and blocks until the process is
// scheduled again.
func (p *Process) park() error {
	select {
	case p.env.yield <- struct{}{}:
	case <-p.env.done:
		return ErrStopped
	}
	select {
	case <-p.wake:
		return nil
	case <-p.env.done:
		return ErrStopped
	}
}

func (p *Process) run(fn func(*Process) error) {
	defer p.env.wg.Done()

	select {
	case <-p.wake:
	case <-p.env.done:
		return
	}

	err := p.call(fn)
	if p.env.stopped() {
		return
	}
	p.env.live--
	if err != nil && !errors.Is(err, ErrStopped) {
		p.env.fail(fmt.Errorf("process %q: %w", p.name, err))
	}
	p.env.yield <- struct{}{}
}

func (p *Process) call(fn func(*Process) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(p)
}
