package telemetry

import "github.com/rs/zerolog"

// DefaultBacklog is the default offline event capacity: several hours of
// minute-cadence position events.
const DefaultBacklog = 256

// Buffered wraps a Publisher and coalesces events while the uplink is down.
// The online gate comes from the connectivity manager, not from the MQTT
// session — the link machine is the authority on whether the radio is up.
type Buffered struct {
	inner  Publisher
	online func() bool
	ring   *ringBuffer
	log    zerolog.Logger
}

// NewBuffered wraps inner with an offline ring of the given capacity
// (DefaultBacklog if n <= 0).
func NewBuffered(inner Publisher, n int, online func() bool, log zerolog.Logger) *Buffered {
	if n <= 0 {
		n = DefaultBacklog
	}
	return &Buffered{
		inner:  inner,
		online: online,
		ring:   newRingBuffer(n, log),
		log:    log,
	}
}

// PublishPosition sends or buffers a position event.
func (b *Buffered) PublishPosition(event PositionEvent) error {
	if !b.online() {
		b.ring.push(bufferedEvent{pos: event})
		return nil
	}
	b.drain()
	return b.inner.PublishPosition(event)
}

// PublishSystem sends or buffers a lifecycle event.
func (b *Buffered) PublishSystem(event SystemEvent) error {
	if !b.online() {
		b.ring.push(bufferedEvent{system: true, sys: event})
		return nil
	}
	b.drain()
	return b.inner.PublishSystem(event)
}

// Drain replays buffered events if the link is up. The coordinator calls
// this when connectivity returns; the publish paths also drain lazily so a
// backlog never outlives the next online publish.
func (b *Buffered) Drain() {
	if !b.online() {
		return
	}
	b.drain()
}

// Backlog returns the number of buffered events.
func (b *Buffered) Backlog() int {
	return b.ring.len()
}

// Close closes the wrapped publisher. Buffered events are dropped — the
// durable track log, not telemetry, is the record of truth.
func (b *Buffered) Close() error {
	return b.inner.Close()
}

func (b *Buffered) drain() {
	events := b.ring.drainAll()
	if events == nil {
		return
	}
	b.log.Info().Int("events", len(events)).Msg("replaying buffered telemetry")
	for _, ev := range events {
		var err error
		if ev.system {
			err = b.inner.PublishSystem(ev.sys)
		} else {
			err = b.inner.PublishPosition(ev.pos)
		}
		if err != nil {
			// Replay is best-effort; a failed event is dropped, the rest
			// still go out.
			b.log.Warn().Err(err).Msg("buffered event replay failed")
		}
	}
}
