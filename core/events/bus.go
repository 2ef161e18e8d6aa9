package events

import (
	"sync"
	"sync/atomic"
)

// DefaultBacklog is the number of undelivered log lines a subscription holds before
// further log lines are dropped.
const DefaultBacklog = 1024

// Publisher is implemented by anything events can be emitted into.
type Publisher interface {
	Publish(e Event)
}

// Bus fans events out to every subscription. Publish never blocks: each subscription
// owns an in-order queue drained by its own goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Options tunes a subscription.
type Options struct {
	// Backlog bounds queued log lines; zero means DefaultBacklog.
	Backlog int
	// Kinds restricts delivery to the listed kinds; empty means all kinds.
	Kinds []Kind
}

// Publish enqueues e for every current subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, s := range b.subs {
		s.enqueue(e)
	}
}

// Subscribe registers a new consumer. The returned subscription must be closed when
// the consumer is done with it.
func (b *Bus) Subscribe(opts Options) *Subscription {
	s := newSubscription(b, opts)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.shutdown()
		return s
	}
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	b.mu.Unlock()

	go s.pump()
	return s
}

// Handle subscribes fn, calling it for every delivered event on a dedicated goroutine.
// A panic inside fn ends that handler only.
func (b *Bus) Handle(opts Options, fn func(Event)) *Subscription {
	s := b.Subscribe(opts)
	go func() {
		defer func() {
			if recover() != nil {
				s.Close()
			}
		}()
		for e := range s.Events() {
			fn(e)
		}
	}()
	return s
}

// Subscribers returns the number of open subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()

	for _, s := range subs {
		s.shutdown()
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Subscription is one consumer's view of the bus.
type Subscription struct {
	id      uint64
	bus     *Bus
	backlog int
	filter  map[Kind]struct{}

	mu     sync.Mutex
	queue  []Event
	closed bool

	wake    chan struct{}
	done    chan struct{}
	out     chan Event
	once    sync.Once
	dropped atomic.Uint64
}

func newSubscription(b *Bus, opts Options) *Subscription {
	backlog := opts.Backlog
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	s := &Subscription{
		bus:     b,
		backlog: backlog,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		out:     make(chan Event),
	}
	if len(opts.Kinds) > 0 {
		s.filter = make(map[Kind]struct{}, len(opts.Kinds))
		for _, k := range opts.Kinds {
			s.filter[k] = struct{}{}
		}
	}
	return s
}

// Events returns the delivery channel. It is closed after Close.
func (s *Subscription) Events() <-chan Event {
	return s.out
}

// Dropped returns how many log lines were discarded because the backlog was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unregisters the subscription and discards undelivered events.
func (s *Subscription) Close() {
	if s.id != 0 {
		s.bus.remove(s.id)
	}
	s.shutdown()
}

func (s *Subscription) shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.queue = nil
		s.mu.Unlock()
		close(s.done)
		if s.id == 0 {
			close(s.out)
		}
	})
}

func (s *Subscription) enqueue(e Event) {
	if s.filter != nil {
		if _, ok := s.filter[e.Kind]; !ok {
			return
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !e.Kind.Lifecycle() && len(s.queue) >= s.backlog {
		s.mu.Unlock()
		s.dropped.Add(1)
		return
	}
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, e := range batch {
			select {
			case s.out <- e:
			case <-s.done:
				return
			}
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}
