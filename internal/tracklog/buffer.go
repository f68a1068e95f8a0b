package tracklog

import "github.com/rs/zerolog"

const (
	// DefaultCapacity is the arena size. One flush per ~160 records at
	// typical NMEA line lengths keeps card wear negligible.
	DefaultCapacity = 8192

	// margin is slack reserved on every append so the arena never fills to
	// the last byte.
	margin = 10
)

// terminator separates records in the durable log.
var terminator = []byte("\r\n")

// Buffer accumulates terminated text records in a fixed arena. Appends that
// would not fit trigger a synchronous flush first. Not safe for concurrent
// use — only the control loop writes records.
//
// A single record longer than capacity minus margin is a programming error;
// the Buffer does not defend against it.
type Buffer struct {
	store  Store
	log    zerolog.Logger
	data   []byte
	cursor int

	flushes  int
	discards int
}

// NewBuffer creates a Buffer with the given arena capacity (DefaultCapacity
// if n <= 0).
func NewBuffer(store Store, n int, log zerolog.Logger) *Buffer {
	if n <= 0 {
		n = DefaultCapacity
	}
	return &Buffer{store: store, log: log, data: make([]byte, n)}
}

// Append adds one record. Empty input is a no-op. The record is written as
// the line bytes plus the terminator; records are not otherwise delimited.
func (b *Buffer) Append(line string) {
	if line == "" {
		return
	}
	b.reserve(len(line) + len(terminator) + margin)
	b.commit(line)
}

// reserve guarantees n bytes of room at the cursor, flushing the current
// batch first if the arena is too full.
func (b *Buffer) reserve(n int) {
	if b.cursor+n > len(b.data) {
		b.Flush()
	}
}

// commit writes the record at the cursor. Callers must have reserved room.
func (b *Buffer) commit(line string) {
	b.cursor += copy(b.data[b.cursor:], line)
	b.cursor += copy(b.data[b.cursor:], terminator)
}

// Flush writes the buffered batch to the durable store. The cursor is reset
// unconditionally: a failed write discards the batch with a diagnostic and
// the loop carries on. At-most-once, no retry.
func (b *Buffer) Flush() {
	if b.cursor == 0 {
		return
	}
	n := b.cursor
	b.cursor = 0
	if err := b.store.Append(b.data[:n]); err != nil {
		b.discards++
		b.log.Error().Err(err).Int("bytes", n).Msg("flush failed, batch discarded")
		return
	}
	b.flushes++
	b.log.Debug().Int("bytes", n).Msg("batch flushed")
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return b.cursor }

// Cap returns the arena capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Flushes returns the number of successful flushes since start-up.
func (b *Buffer) Flushes() int { return b.flushes }

// Discards returns the number of batches lost to storage failures.
func (b *Buffer) Discards() int { return b.discards }
