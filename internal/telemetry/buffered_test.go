package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func posEvent(n int) PositionEvent {
	return PositionEvent{
		Timestamp: time.Date(2023, 11, 16, 8, n, 0, 0, time.UTC),
		Sentence:  "$GPRMC,sample",
	}
}

func TestBufferedPassthroughWhileOnline(t *testing.T) {
	inner := NewFakePublisher()
	online := true
	b := NewBuffered(inner, 8, func() bool { return online }, zerolog.Nop())

	if err := b.PublishPosition(posEvent(0)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(inner.Positions) != 1 {
		t.Errorf("inner positions: got %d, want 1", len(inner.Positions))
	}
	if b.Backlog() != 0 {
		t.Errorf("backlog: got %d, want 0", b.Backlog())
	}
}

func TestBufferedHoldsWhileOffline(t *testing.T) {
	inner := NewFakePublisher()
	online := false
	b := NewBuffered(inner, 8, func() bool { return online }, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := b.PublishPosition(posEvent(i)); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	if len(inner.Positions) != 0 {
		t.Errorf("inner positions while offline: got %d, want 0", len(inner.Positions))
	}
	if b.Backlog() != 3 {
		t.Errorf("backlog: got %d, want 3", b.Backlog())
	}
}

func TestBufferedReplaysInOrderOnReconnect(t *testing.T) {
	inner := NewFakePublisher()
	online := false
	b := NewBuffered(inner, 8, func() bool { return online }, zerolog.Nop())

	for i := 0; i < 3; i++ {
		b.PublishPosition(posEvent(i))
	}
	b.PublishSystem(SystemEvent{Event: "STATUS"})

	online = true
	b.PublishPosition(posEvent(9))

	if len(inner.Positions) != 4 {
		t.Fatalf("inner positions: got %d, want 4", len(inner.Positions))
	}
	// Buffered events replay before the live one, oldest first.
	for i := 0; i < 3; i++ {
		if inner.Positions[i].Timestamp.Minute() != i {
			t.Errorf("replay order: position %d has minute %d", i, inner.Positions[i].Timestamp.Minute())
		}
	}
	if inner.Positions[3].Timestamp.Minute() != 9 {
		t.Errorf("live event not last: minute %d", inner.Positions[3].Timestamp.Minute())
	}
	if len(inner.SystemEvents) != 1 || inner.SystemEvents[0].Event != "STATUS" {
		t.Errorf("system events: got %+v", inner.SystemEvents)
	}
	if b.Backlog() != 0 {
		t.Errorf("backlog after replay: got %d", b.Backlog())
	}
}

func TestBufferedExplicitDrain(t *testing.T) {
	inner := NewFakePublisher()
	online := false
	b := NewBuffered(inner, 8, func() bool { return online }, zerolog.Nop())

	b.PublishPosition(posEvent(1))

	// Drain while still offline does nothing.
	b.Drain()
	if len(inner.Positions) != 0 || b.Backlog() != 1 {
		t.Fatalf("offline drain touched the buffer: inner=%d backlog=%d", len(inner.Positions), b.Backlog())
	}

	online = true
	b.Drain()
	if len(inner.Positions) != 1 || b.Backlog() != 0 {
		t.Errorf("online drain: inner=%d backlog=%d", len(inner.Positions), b.Backlog())
	}
}

func TestBufferedDropsOldestOnOverflow(t *testing.T) {
	inner := NewFakePublisher()
	b := NewBuffered(inner, 4, func() bool { return false }, zerolog.Nop())

	for i := 0; i < 7; i++ {
		b.PublishPosition(posEvent(i))
	}
	if b.Backlog() != 4 {
		t.Fatalf("backlog: got %d, want 4", b.Backlog())
	}

	drained := b.ring.drainAll()
	for i, ev := range drained {
		want := i + 3 // events 0..2 were dropped
		if ev.pos.Timestamp.Minute() != want {
			t.Errorf("drained %d: minute %d, want %d", i, ev.pos.Timestamp.Minute(), want)
		}
	}
}

func TestBufferedReplayErrorDoesNotStopDrain(t *testing.T) {
	inner := NewFakePublisher()
	online := false
	b := NewBuffered(inner, 8, func() bool { return online }, zerolog.Nop())

	b.PublishPosition(posEvent(1))
	b.PublishPosition(posEvent(2))

	online = true
	inner.PublishError = errors.New("broker gone")
	b.Drain()

	// Buffer is empty even though the replay failed: best-effort.
	if b.Backlog() != 0 {
		t.Errorf("backlog after failed replay: got %d, want 0", b.Backlog())
	}
}

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(10, zerolog.Nop())
	if got := rb.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestRingBufferSecondDrainEmpty(t *testing.T) {
	rb := newRingBuffer(10, zerolog.Nop())
	rb.push(bufferedEvent{pos: posEvent(1)})
	rb.drainAll()
	if got := rb.drainAll(); got != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got))
	}
	if rb.len() != 0 {
		t.Errorf("len after drain: got %d", rb.len())
	}
}
