package events_test

import (
	"sync"
	"testing"
	"time"

	"transease/core/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *events.Subscription) events.Event {
	t.Helper()
	select {
	case e, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return events.Event{}
}

func TestBus_DeliversInOrder(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	sub := bus.Subscribe(events.Options{})
	defer sub.Close()

	bus.Publish(events.Started())
	bus.Publish(events.Status("Server started on port 21"))
	bus.Publish(events.ConnectionCount(0))

	assert.Equal(t, events.KindStarted, receive(t, sub).Kind)
	status := receive(t, sub)
	assert.Equal(t, events.KindStatus, status.Kind)
	assert.Contains(t, status.Text, "21")
	count := receive(t, sub)
	assert.Equal(t, events.KindConnectionCount, count.Kind)
	assert.Equal(t, 0, count.Count)
}

func TestBus_FanOut(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	a := bus.Subscribe(events.Options{})
	b := bus.Subscribe(events.Options{})
	defer a.Close()
	defer b.Close()
	assert.Equal(t, 2, bus.Subscribers())

	bus.Publish(events.Error("bind failed"))

	assert.Equal(t, "bind failed", receive(t, a).Text)
	assert.Equal(t, "bind failed", receive(t, b).Text)
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	// Nobody reads from this subscription.
	sub := bus.Subscribe(events.Options{Backlog: 10})
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			bus.Publish(events.LogLine("line"))
		}
		bus.Publish(events.Stopped())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	assert.Greater(t, sub.Dropped(), uint64(0))
}

func TestBus_LifecycleEventsAreNeverDropped(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	sub := bus.Subscribe(events.Options{Backlog: 1, Kinds: []events.Kind{events.KindStarted, events.KindStopped}})
	defer sub.Close()

	for i := 0; i < 50; i++ {
		bus.Publish(events.Started())
		bus.Publish(events.LogLine("filtered out"))
		bus.Publish(events.Stopped())
	}

	for i := 0; i < 50; i++ {
		assert.Equal(t, events.KindStarted, receive(t, sub).Kind)
		assert.Equal(t, events.KindStopped, receive(t, sub).Kind)
	}
	assert.Equal(t, uint64(0), sub.Dropped())
}

func TestBus_PerProducerOrdering(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	sub := bus.Subscribe(events.Options{Kinds: []events.Kind{events.KindConnectionCount}})
	defer sub.Close()

	const producers, perProducer = 4, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				bus.Publish(events.ConnectionCount(i).WithInstance(string(rune('a' + p))))
			}
		}(p)
	}

	last := map[string]int{}
	for i := 0; i < producers*perProducer; i++ {
		e := receive(t, sub)
		prev, seen := last[e.Instance]
		if seen {
			assert.Greater(t, e.Count, prev)
		}
		last[e.Instance] = e.Count
	}
	wg.Wait()
}

func TestBus_Handle(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	got := make(chan events.Event, 1)
	sub := bus.Handle(events.Options{}, func(e events.Event) { got <- e })
	defer sub.Close()

	bus.Publish(events.Status("ready"))

	select {
	case e := <-got:
		assert.Equal(t, "ready", e.Text)
		assert.Equal(t, "status", e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestBus_Close(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe(events.Options{})

	bus.Close()
	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := bus.Subscribe(events.Options{})
	_, ok = <-late.Events()
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		bus.Publish(events.Started())
		sub.Close()
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "log", events.KindLogLine.String())
	assert.Equal(t, "error", events.KindError.String())
	assert.Equal(t, "kind(42)", events.Kind(42).String())
	assert.False(t, events.KindLogLine.Lifecycle())
	assert.True(t, events.KindStopped.Lifecycle())
}
