package sim

import "fmt"

// Resource is a counted resource (staff, beds, equipment) with a FIFO waiting line.
type Resource struct {
	env      *Environment
	name     string
	capacity int
	inUse    int
	waiters  []*Process
}

// NewResource creates a resource with capacity units.
func NewResource(env *Environment, name string, capacity int) (*Resource, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("resource %q: capacity must be positive, got %d", name, capacity)
	}
	return &Resource{env: env, name: name, capacity: capacity}, nil
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the number of units.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of units currently held.
func (r *Resource) InUse() int { return r.inUse }

// Waiting returns the number of processes queued for a unit.
func (r *Resource) Waiting() int { return len(r.waiters) }

// Request acquires one unit, suspending p until one is free.
func (r *Resource) Request(p *Process) error {
	if p.env.stopped() {
		return ErrStopped
	}
	if r.inUse < r.capacity {
		r.inUse++
		return nil
	}
	r.waiters = append(r.waiters, p)
	// Release hands its unit over directly, so inUse is unchanged on wake-up.
	return p.park()
}

// Release returns one unit, passing it to the oldest waiter if any.
func (r *Resource) Release() error {
	if r.inUse == 0 {
		return fmt.Errorf("resource %q: %w", r.name, ErrNotHeld)
	}
	if len(r.waiters) > 0 {
		next := r.waiters[0]
		r.waiters[0] = nil
		r.waiters = r.waiters[1:]
		r.env.schedule(r.env.now, next)
		return nil
	}
	r.inUse--
	return nil
}
