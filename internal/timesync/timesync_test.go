package timesync

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/gps-logger/internal/clock"
)

var syncTarget = time.Date(2023, 11, 16, 8, 30, 0, 0, time.UTC)

func newTestManager() (*Manager, *FakeSource, *clock.Manual, *int) {
	src := NewFakeSource()
	cl := clock.NewManual(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	resets := 0
	m := NewManager(src, cl, func() { resets++ }, zerolog.Nop())
	return m, src, cl, &resets
}

func TestManagerStartsIdle(t *testing.T) {
	m, src, _, _ := newTestManager()
	if m.State() != Idle {
		t.Errorf("initial state: got %v, want Idle", m.State())
	}
	// Ticking while Idle polls nothing.
	for i := 0; i < 5; i++ {
		m.Tick()
	}
	if src.Queries != 0 {
		t.Errorf("queries while idle: got %d, want 0", src.Queries)
	}
}

func TestSuccessOnFirstPoll(t *testing.T) {
	m, src, cl, resets := newTestManager()
	src.Succeed(syncTarget)

	m.Start()
	if m.State() != Started {
		t.Fatalf("state after Start: got %v", m.State())
	}

	m.Tick()
	if m.State() != Complete {
		t.Errorf("state: got %v, want Complete", m.State())
	}
	if !m.Synced() {
		t.Error("Synced should be true")
	}
	if m.Attempts() != 1 {
		t.Errorf("attempts: got %d, want 1", m.Attempts())
	}
	if got := cl.Now().Unix(); got != syncTarget.Unix() {
		t.Errorf("clock: got %d, want %d", got, syncTarget.Unix())
	}
	if *resets != 1 {
		t.Errorf("scheduler resets: got %d, want exactly 1", *resets)
	}
}

func TestTimeoutAfter30Polls(t *testing.T) {
	m, src, cl, resets := newTestManager()
	m.Start()

	for i := 0; i < 29; i++ {
		m.Tick()
		if m.State() != Started {
			t.Fatalf("poll %d: got %v, want Started", i+1, m.State())
		}
	}

	m.Tick()
	if m.State() != TimedOut {
		t.Errorf("after 30 polls: got %v, want TimedOut", m.State())
	}
	if src.Queries != 30 {
		t.Errorf("queries: got %d, want 30", src.Queries)
	}
	if len(cl.SetEpochCalls) != 0 {
		t.Error("clock must not be touched on timeout")
	}
	if *resets != 0 {
		t.Error("scheduler must not be reset on timeout")
	}
	if m.Synced() {
		t.Error("Synced should be false after timeout")
	}
}

func TestNoInternalRetryAfterTimeout(t *testing.T) {
	m, src, _, _ := newTestManager()
	m.Start()
	for i := 0; i < 30; i++ {
		m.Tick()
	}
	queries := src.Queries

	// Further ticks are no-ops until someone calls Start again.
	src.Succeed(syncTarget)
	for i := 0; i < 10; i++ {
		m.Tick()
	}
	if src.Queries != queries {
		t.Errorf("queries after timeout: got %d, want %d", src.Queries, queries)
	}
	if m.State() != TimedOut {
		t.Errorf("state: got %v, want TimedOut", m.State())
	}
}

func TestStartRestartsInAnyState(t *testing.T) {
	m, src, _, _ := newTestManager()

	// From TimedOut.
	m.Start()
	for i := 0; i < 30; i++ {
		m.Tick()
	}
	src.Succeed(syncTarget)
	m.Start()
	m.Tick()
	if m.State() != Complete {
		t.Errorf("restart from TimedOut: got %v, want Complete", m.State())
	}

	// From Complete.
	m.Start()
	if m.State() != Started {
		t.Errorf("restart from Complete: got %v, want Started", m.State())
	}

	// Mid-session: the counter starts over.
	src.Fail()
	for i := 0; i < 20; i++ {
		m.Tick()
	}
	m.Start()
	for i := 0; i < 29; i++ {
		m.Tick()
		if m.State() != Started {
			t.Fatalf("poll %d after restart: got %v", i+1, m.State())
		}
	}
	m.Tick()
	if m.State() != TimedOut {
		t.Errorf("timeout after restart: got %v", m.State())
	}
}

func TestLateSuccessWithinSession(t *testing.T) {
	m, src, _, resets := newTestManager()
	m.Start()

	for i := 0; i < 25; i++ {
		m.Tick()
	}
	src.Succeed(syncTarget)
	m.Tick()

	if m.State() != Complete {
		t.Errorf("state: got %v, want Complete", m.State())
	}
	if *resets != 1 {
		t.Errorf("scheduler resets: got %d, want 1", *resets)
	}
}

func TestAttemptsAccumulateAcrossSessions(t *testing.T) {
	m, src, _, _ := newTestManager()
	src.Succeed(syncTarget)

	for i := 0; i < 3; i++ {
		m.Start()
		m.Tick()
	}
	if m.Attempts() != 3 {
		t.Errorf("attempts: got %d, want 3", m.Attempts())
	}
}
