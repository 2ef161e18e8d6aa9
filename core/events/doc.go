// Package events carries typed notifications from the server control plane to its
// observers.
//
// # Event Kinds
//
//   - LogLine: one formatted log record (from the log bridge)
//   - Status: a human-readable status message
//   - ConnectionCount: number of connected clients
//   - Started / Stopped: lifecycle transitions of the server
//   - Error: a human-readable failure message
//
// # Delivery
//
// Bus.Publish never blocks the producer. Each Subscription has its own queue, so one
// slow observer cannot stall another, and events published by one goroutine arrive in
// publish order. Log lines beyond a subscription's backlog are dropped; lifecycle
// events are always queued.
//
// # Usage
//
//	bus := events.NewBus()
//	sub := bus.Subscribe(events.Options{})
//	defer sub.Close()
//	for e := range sub.Events() {
//	    fmt.Println(e.Type, e.Text)
//	}
package events
