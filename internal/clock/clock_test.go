package clock

import (
	"testing"
	"time"
)

func TestRTCStartsUnsynced(t *testing.T) {
	r := NewRTC(0)
	if r.Synced() {
		t.Error("new RTC should not be synced")
	}
	// Uncorrected clock tracks the system clock.
	if d := time.Since(r.Now()); d < -time.Second || d > time.Second {
		t.Errorf("uncorrected RTC drifted from system clock by %v", d)
	}
}

func TestRTCSetEpoch(t *testing.T) {
	r := NewRTC(0)
	target := time.Now().Add(-48 * time.Hour).Unix()
	r.SetEpoch(target)

	if !r.Synced() {
		t.Error("RTC should be synced after SetEpoch")
	}
	got := r.Now().Unix()
	if got < target-1 || got > target+1 {
		t.Errorf("after SetEpoch(%d), Now() = %d", target, got)
	}
}

func TestRTCZoneOffset(t *testing.T) {
	r := NewRTC(-8)
	_, off := r.Now().Zone()
	if off != -8*3600 {
		t.Errorf("zone offset: got %d, want %d", off, -8*3600)
	}
}

func TestTimestampLayout(t *testing.T) {
	ts := time.Date(2023, 11, 12, 14, 23, 5, 0, time.UTC)
	got := Timestamp(ts)
	want := "2023/11/12,14:23:05"
	if got != want {
		t.Errorf("Timestamp: got %q, want %q", got, want)
	}
}

func TestManualAdvanceAndSetEpoch(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManual(start)

	m.Advance(90 * time.Second)
	if got := m.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("after Advance: got %v", got)
	}

	m.SetEpoch(1700000000)
	if got := m.Now().Unix(); got != 1700000000 {
		t.Errorf("after SetEpoch: got %d", got)
	}
	if len(m.SetEpochCalls) != 1 || m.SetEpochCalls[0] != 1700000000 {
		t.Errorf("SetEpochCalls: got %v", m.SetEpochCalls)
	}
}
