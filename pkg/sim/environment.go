package sim

import (
	"container/heap"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Environment owns the simulated clock and the run queue.
type Environment struct {
	now   time.Duration
	seq   uint64
	queue eventQueue

	yield chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	nextID uint64
	live   int
	err    error
	ran    bool

	logger *slog.Logger
}

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used for scheduler diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(env *Environment) {
		if logger != nil {
			env.logger = logger
		}
	}
}

// WithContext sets the parent of the context handed to processes.
func WithContext(ctx context.Context) Option {
	return func(env *Environment) {
		env.ctx, env.cancel = context.WithCancel(ctx)
	}
}

// New creates an environment with its clock at zero.
func New(opts ...Option) *Environment {
	env := &Environment{
		yield:  make(chan struct{}),
		done:   make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	env.ctx, env.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Now returns the current simulated time.
func (env *Environment) Now() time.Duration {
	return env.now
}

// Live returns the number of spawned processes that have not finished.
// After Run returns, a non-zero value means some processes were parked forever.
func (env *Environment) Live() int {
	return env.live
}

// Pending returns the number of scheduled wake-ups. After Run returns, zero means the run
// drained rather than being cut short.
func (env *Environment) Pending() int {
	return env.queue.Len()
}

// Context is cancelled when the environment shuts down.
func (env *Environment) Context() context.Context {
	return env.ctx
}

// Spawn registers fn as a new process, runnable at the current simulated time.
// A non-nil error returned by fn aborts the whole run.
func (env *Environment) Spawn(name string, fn func(*Process) error) *Process {
	env.nextID++
	p := &Process{
		env:  env,
		id:   env.nextID,
		name: name,
		wake: make(chan struct{}),
	}
	if env.stopped() {
		return p
	}
	env.live++
	env.wg.Add(1)
	go p.run(fn)
	env.schedule(env.now, p)
	return p
}

// Run executes processes until the run queue drains, until is reached (when positive),
// ctx is cancelled, or a process fails. It returns the first process error.
func (env *Environment) Run(ctx context.Context, until time.Duration) error {
	if env.ran {
		return ErrAlreadyRun
	}
	env.ran = true
	defer env.shutdown()

	for env.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := env.queue[0]
		if until > 0 && next.at > until {
			env.now = until
			return nil
		}
		heap.Pop(&env.queue)
		env.now = next.at

		next.proc.wake <- struct{}{}
		<-env.yield

		if env.err != nil {
			env.logger.Debug("simulation aborted", "time", env.now, "err", env.err)
			return env.err
		}
	}
	if until > env.now {
		env.now = until
	}
	return nil
}

func (env *Environment) schedule(at time.Duration, p *Process) {
	env.seq++
	heap.Push(&env.queue, &event{at: at, seq: env.seq, proc: p})
}

func (env *Environment) fail(err error) {
	if env.err == nil {
		env.err = err
	}
}

func (env *Environment) stopped() bool {
	select {
	case <-env.done:
		return true
	default:
		return false
	}
}

func (env *Environment) shutdown() {
	close(env.done)
	env.cancel()
	env.wg.Wait()
	if env.live > 0 {
		env.logger.Debug("processes still parked at shutdown", "count", env.live, "time", env.now)
	}
}
