package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment_Wait(t *testing.T) {
	t.Run("Processes Resume In Time Order", func(t *testing.T) {
		env := New()
		var trail []string
		sleeper := func(name string, d time.Duration) {
			env.Spawn(name, func(p *Process) error {
				if err := p.Wait(d); err != nil {
					return err
				}
				trail = append(trail, name+"@"+p.Now().String())
				return nil
			})
		}
		sleeper("slow", 30*time.Minute)
		sleeper("fast", 5*time.Minute)
		sleeper("mid", 10*time.Minute)

		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, []string{"fast@5m0s", "mid@10m0s", "slow@30m0s"}, trail)
		assert.Equal(t, 30*time.Minute, env.Now())
		assert.Zero(t, env.Live())
	})

	t.Run("Simultaneous Wake-ups Keep Scheduling Order", func(t *testing.T) {
		env := New()
		var trail []string
		for _, name := range []string{"a", "b", "c"} {
			name := name
			env.Spawn(name, func(p *Process) error {
				if err := p.Wait(time.Minute); err != nil {
					return err
				}
				trail = append(trail, name)
				return nil
			})
		}
		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, []string{"a", "b", "c"}, trail)
	})

	t.Run("Negative Delay Is Rejected", func(t *testing.T) {
		env := New()
		env.Spawn("bad", func(p *Process) error {
			return p.Wait(-time.Second)
		})
		err := env.Run(context.Background(), 0)
		assert.ErrorIs(t, err, ErrNegativeDelay)
	})
}

func TestEnvironment_Run(t *testing.T) {
	t.Run("Until Stops The Clock And Wakes Parked Processes", func(t *testing.T) {
		env := New()
		var waitErr error
		env.Spawn("long", func(p *Process) error {
			waitErr = p.Wait(10 * time.Hour)
			return waitErr
		})

		require.NoError(t, env.Run(context.Background(), time.Hour))
		assert.Equal(t, time.Hour, env.Now())
		assert.Equal(t, 1, env.Live())
		assert.Equal(t, 1, env.Pending())
		assert.ErrorIs(t, waitErr, ErrStopped)
		assert.Error(t, env.Context().Err())
	})

	t.Run("Clock Advances To Until When Queue Drains", func(t *testing.T) {
		env := New()
		env.Spawn("short", func(p *Process) error { return p.Wait(time.Minute) })
		require.NoError(t, env.Run(context.Background(), time.Hour))
		assert.Equal(t, time.Hour, env.Now())
	})

	t.Run("Process Error Aborts The Run", func(t *testing.T) {
		env := New()
		boom := errors.New("boom")
		reached := false
		env.Spawn("failing", func(p *Process) error {
			if err := p.Wait(time.Minute); err != nil {
				return err
			}
			return boom
		})
		env.Spawn("later", func(p *Process) error {
			if err := p.Wait(time.Hour); err != nil {
				return err
			}
			reached = true
			return nil
		})

		err := env.Run(context.Background(), 0)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), `process "failing"`)
		assert.False(t, reached)
		assert.Equal(t, time.Minute, env.Now())
	})

	t.Run("Panics Become Errors", func(t *testing.T) {
		env := New()
		env.Spawn("panicky", func(p *Process) error {
			panic("unexpected")
		})
		err := env.Run(context.Background(), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic: unexpected")
	})

	t.Run("Runs Only Once", func(t *testing.T) {
		env := New()
		require.NoError(t, env.Run(context.Background(), 0))
		assert.ErrorIs(t, env.Run(context.Background(), 0), ErrAlreadyRun)
	})

	t.Run("Cancelled Context Stops The Run", func(t *testing.T) {
		env := New()
		env.Spawn("idle", func(p *Process) error { return p.Wait(time.Minute) })
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := env.Run(ctx, 0)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, env.Live())
	})

	t.Run("Processes Can Spawn Processes", func(t *testing.T) {
		env := New()
		var childAt time.Duration
		env.Spawn("parent", func(p *Process) error {
			if err := p.Wait(2 * time.Minute); err != nil {
				return err
			}
			env.Spawn("child", func(c *Process) error {
				childAt = c.Now()
				return nil
			})
			return nil
		})
		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, 2*time.Minute, childAt)
	})
}

func TestStore(t *testing.T) {
	t.Run("Get Blocks Until Put", func(t *testing.T) {
		env := New()
		inbox := NewStore[string](env)
		var got string
		var at time.Duration

		env.Spawn("consumer", func(p *Process) error {
			msg, err := inbox.Get(p)
			if err != nil {
				return err
			}
			got, at = msg, p.Now()
			return nil
		})
		env.Spawn("producer", func(p *Process) error {
			if err := p.Wait(5 * time.Minute); err != nil {
				return err
			}
			inbox.Put("hello")
			return nil
		})

		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, "hello", got)
		assert.Equal(t, 5*time.Minute, at)
	})

	t.Run("Buffered Items Are FIFO", func(t *testing.T) {
		env := New()
		inbox := NewStore[int](env)
		inbox.Put(1)
		inbox.Put(2)
		inbox.Put(3)
		assert.Equal(t, 3, inbox.Len())

		var got []int
		env.Spawn("consumer", func(p *Process) error {
			for i := 0; i < 3; i++ {
				v, err := inbox.Get(p)
				if err != nil {
					return err
				}
				got = append(got, v)
			}
			return nil
		})
		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Zero(t, inbox.Len())
	})

	t.Run("Waiting Receivers Are Served In Arrival Order", func(t *testing.T) {
		env := New()
		inbox := NewStore[int](env)
		got := map[string]int{}
		for _, name := range []string{"first", "second"} {
			name := name
			env.Spawn(name, func(p *Process) error {
				v, err := inbox.Get(p)
				if err != nil {
					return err
				}
				got[name] = v
				return nil
			})
		}
		env.Spawn("producer", func(p *Process) error {
			if err := p.Wait(time.Minute); err != nil {
				return err
			}
			inbox.Put(10)
			inbox.Put(20)
			return nil
		})
		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, map[string]int{"first": 10, "second": 20}, got)
	})

	t.Run("Receiver Parked Forever Is Reported", func(t *testing.T) {
		env := New()
		inbox := NewStore[int](env)
		var getErr error
		env.Spawn("orphan", func(p *Process) error {
			_, getErr = inbox.Get(p)
			return getErr
		})
		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, 1, env.Live())
		assert.Zero(t, env.Pending())
		assert.ErrorIs(t, getErr, ErrStopped)
	})
}

func TestResource(t *testing.T) {
	t.Run("Capacity Must Be Positive", func(t *testing.T) {
		_, err := NewResource(New(), "nurse", 0)
		assert.Error(t, err)
	})

	t.Run("Second Request Waits For Release", func(t *testing.T) {
		env := New()
		nurse, err := NewResource(env, "nurse", 1)
		require.NoError(t, err)

		starts := map[string]time.Duration{}
		patient := func(name string) {
			env.Spawn(name, func(p *Process) error {
				if err := nurse.Request(p); err != nil {
					return err
				}
				starts[name] = p.Now()
				if err := p.Wait(15 * time.Minute); err != nil {
					return err
				}
				return nurse.Release()
			})
		}
		patient("ann")
		patient("bob")

		require.NoError(t, env.Run(context.Background(), 0))
		assert.Equal(t, time.Duration(0), starts["ann"])
		assert.Equal(t, 15*time.Minute, starts["bob"])
		assert.Zero(t, nurse.InUse())
		assert.Zero(t, nurse.Waiting())
		assert.Equal(t, 30*time.Minute, env.Now())
	})

	t.Run("Release Without Hold Fails", func(t *testing.T) {
		env := New()
		bed, err := NewResource(env, "bed", 2)
		require.NoError(t, err)
		assert.ErrorIs(t, bed.Release(), ErrNotHeld)
		assert.Equal(t, 2, bed.Capacity())
		assert.Equal(t, "bed", bed.Name())
	})
}
