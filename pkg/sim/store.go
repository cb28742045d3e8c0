package sim

// Store is an unbounded FIFO queue with a blocking receive.
// Waiting receivers are served in arrival order.
type Store[T any] struct {
	env     *Environment
	items   []T
	getters []*getter[T]
}

type getter[T any] struct {
	proc *Process
	item T
}

// NewStore creates an empty store bound to env.
func NewStore[T any](env *Environment) *Store[T] {
	return &Store[T]{env: env}
}

// Put appends item, handing it straight to the oldest waiting receiver if there is one.
// Put never blocks.
func (s *Store[T]) Put(item T) {
	if len(s.getters) > 0 {
		g := s.getters[0]
		s.getters[0] = nil
		s.getters = s.getters[1:]
		g.item = item
		s.env.schedule(s.env.now, g.proc)
		return
	}
	s.items = append(s.items, item)
}

// Get removes and returns the oldest item, suspending p until one is available.
func (s *Store[T]) Get(p *Process) (T, error) {
	var zero T
	if p.env.stopped() {
		return zero, ErrStopped
	}
	if len(s.items) > 0 {
		item := s.items[0]
		s.items[0] = zero
		s.items = s.items[1:]
		return item, nil
	}
	g := &getter[T]{proc: p}
	s.getters = append(s.getters, g)
	if err := p.park(); err != nil {
		return zero, err
	}
	return g.item, nil
}

// Len returns the number of buffered items.
func (s *Store[T]) Len() int {
	return len(s.items)
}
