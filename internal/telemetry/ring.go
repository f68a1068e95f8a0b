package telemetry

import "github.com/rs/zerolog"

// bufferedEvent stores one event for replay after reconnection.
type bufferedEvent struct {
	system bool
	pos    PositionEvent
	sys    SystemEvent
}

// ringBuffer is a fixed-capacity FIFO that stores events while the link is
// down. Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	buf      []bufferedEvent
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any event was dropped since last drain
	log      zerolog.Logger
}

func newRingBuffer(capacity int, log zerolog.Logger) *ringBuffer {
	return &ringBuffer{
		buf:      make([]bufferedEvent, capacity),
		capacity: capacity,
		log:      log,
	}
}

func (r *ringBuffer) push(ev bufferedEvent) {
	if r.count == r.capacity {
		if !r.overflow {
			r.log.Warn().Int("capacity", r.capacity).Msg("offline event buffer full, dropping oldest")
			r.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = ev
		r.head = (r.head + 1) % r.capacity
		// count stays at capacity
		return
	}
	r.buf[r.head] = ev
	r.head = (r.head + 1) % r.capacity
	r.count++
}

func (r *ringBuffer) drainAll() []bufferedEvent {
	if r.count == 0 {
		return nil
	}

	result := make([]bufferedEvent, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	r.overflow = false
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
