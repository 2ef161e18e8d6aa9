package history

import (
	"sync"

	"transease/core/events"
	"transease/core/server"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InstanceSource reports the running server instance.
type InstanceSource interface {
	Instance() (server.Instance, bool)
}

// Recorder writes a Session row for every instance seen on the event bus.
type Recorder struct {
	db     *gorm.DB
	source InstanceSource
	logger *zap.Logger

	sub  *events.Subscription
	done chan struct{}
	once sync.Once
}

// NewRecorder creates a recorder. Call Follow to attach it to a bus.
func NewRecorder(db *gorm.DB, source InstanceSource, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, source: source, logger: logger}
}

// Follow records lifecycle events from bus until Close.
func (r *Recorder) Follow(bus *events.Bus) {
	r.sub = bus.Subscribe(events.Options{Kinds: []events.Kind{
		events.KindStarted, events.KindStopped, events.KindError, events.KindConnectionCount,
	}})
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		for e := range r.sub.Events() {
			if err := r.Record(e); err != nil {
				r.logger.Error("Failed to record session",
					zap.Stringer("event", e.Kind), zap.String("instance", e.Instance), zap.Error(err))
			}
		}
	}()
}

// Close stops following the bus and waits for the pending write.
func (r *Recorder) Close() {
	r.once.Do(func() {
		if r.sub == nil {
			return
		}
		r.sub.Close()
		<-r.done
	})
}

// Record applies one event. Events without an instance are ignored.
func (r *Recorder) Record(e events.Event) error {
	if e.Instance == "" {
		return nil
	}
	sessions := r.db.Model(&Session{}).Where("instance = ?", e.Instance)

	switch e.Kind {
	case events.KindStarted:
		s := Session{Instance: e.Instance, StartedAt: e.Time}
		// The supervisor may have moved on to a newer instance already.
		if inst, ok := r.source.Instance(); ok && inst.ID == e.Instance {
			s.Address = inst.Address
			s.Port = inst.Port
			s.Root = inst.Root
			s.Encoding = inst.Encoding
			s.MaxConnections = inst.MaxConnections
			s.StartedAt = inst.StartedAt
		}
		return r.db.Create(&s).Error
	case events.KindConnectionCount:
		return sessions.Where("peak_connections < ?", e.Count).Update("peak_connections", e.Count).Error
	case events.KindError:
		return sessions.Update("error", e.Text).Error
	case events.KindStopped:
		return sessions.Update("stopped_at", e.Time).Error
	}
	return nil
}
