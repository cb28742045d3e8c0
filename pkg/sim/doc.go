/*
Package sim implements the cooperative discrete-event scheduler the simulation core runs on.

Every simulated actor (a Person, an Activity, a periodic reporter) is a Process backed by its
own goroutine, but only one Process runs at any moment: the Environment hands a single
execution token to the next runnable Process in (simulated time, sequence) order and waits
until that Process suspends or finishes. There is no preemption and no real parallelism, so
simulation state needs no locking as long as it is only touched from inside processes.

# Suspension points

  - Process.Wait: sleep for a simulated duration.
  - Store.Get: blocking receive on an unbounded FIFO queue.
  - Resource.Request: wait for a free unit of a counted resource.

# Usage

	env := sim.New()
	inbox := sim.NewStore[string](env)

	env.Spawn("consumer", func(p *sim.Process) error {
		msg, err := inbox.Get(p)
		if err != nil {
			return err
		}
		fmt.Println(p.Now(), msg)
		return nil
	})
	env.Spawn("producer", func(p *sim.Process) error {
		if err := p.Wait(5 * time.Minute); err != nil {
			return err
		}
		inbox.Put("hello")
		return nil
	})

	if err := env.Run(context.Background(), 0); err != nil {
		log.Fatal(err)
	}

An Environment runs once. When Run returns, processes still parked are woken with
ErrStopped and must return without touching shared simulation state.
*/
package sim
