// Package timesync corrects the shared device clock from a network time
// source. A Manager runs one query session at a time: Start opens the
// session, each per-second Tick polls the source once, and the session ends
// in Complete (clock corrected, scheduler rebased) or TimedOut (30 polls
// without an answer).
//
// Precondition: Start should only be called while the connectivity manager
// reports connected, and within a control-loop pass the connectivity manager
// must be ticked first. The Manager does not check this itself — behaviour
// with the link down is simply a session that times out.
//
// A timed-out session is not retried internally; the next attempt requires
// another Start (the coordinator issues one daily, and optionally sooner via
// its retry policy).
package timesync

import (
	"time"

	"github.com/rs/zerolog"
)

// State identifies the sync session's current mode.
type State int

const (
	Idle State = iota
	Started
	Complete
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Started:
		return "STARTED"
	case Complete:
		return "COMPLETE"
	case TimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// sessionTimeoutTicks bounds one session: 30 per-second polls.
const sessionTimeoutTicks = 30

// Source is the time collaborator, polled once per tick while a session is
// open.
type Source interface {
	// Query performs one time poll and returns the current time on success.
	Query() (time.Time, error)
}

// SettableClock is the write side of the device clock.
type SettableClock interface {
	SetEpoch(sec int64)
}

type syncState interface {
	state() State
}

type idle struct{}
type started struct{ waited int }
type complete struct{}
type timedOut struct{}

func (idle) state() State     { return Idle }
func (started) state() State  { return Started }
func (complete) state() State { return Complete }
func (timedOut) state() State { return TimedOut }

// Manager is the time-sync state machine. Not safe for concurrent use —
// everything runs on the control loop.
type Manager struct {
	src      Source
	clock    SettableClock
	rebase   func()
	log      zerolog.Logger
	st       syncState
	attempts int
}

// NewManager creates an idle Manager. rebase is invoked once after every
// successful correction, after the clock has been set; the coordinator uses
// it to reset the scheduler so the jump does not fire spurious edges.
func NewManager(src Source, clock SettableClock, rebase func(), log zerolog.Logger) *Manager {
	return &Manager{src: src, clock: clock, rebase: rebase, log: log, st: idle{}}
}

// Start opens a query session. Safe in any state: an in-flight or finished
// session is simply restarted with a fresh counter.
func (m *Manager) Start() {
	m.st = started{}
	m.log.Debug().Msg("time sync session started")
}

// Tick polls the source once. Meaningful only while Started; a no-op in any
// other state.
func (m *Manager) Tick() {
	st, ok := m.st.(started)
	if !ok {
		return
	}

	t, err := m.src.Query()
	if err == nil {
		m.clock.SetEpoch(t.Unix())
		if m.rebase != nil {
			m.rebase()
		}
		m.attempts++
		m.st = complete{}
		m.log.Info().Time("corrected_to", t).Int("attempts", m.attempts).
			Msg("clock corrected")
		return
	}

	st.waited++
	if st.waited >= sessionTimeoutTicks {
		m.st = timedOut{}
		m.log.Warn().Err(err).Int("polls", st.waited).Msg("time sync session timed out")
		return
	}
	m.st = st
}

// State returns the session state for status reporting.
func (m *Manager) State() State {
	return m.st.state()
}

// Synced reports whether the most recent session completed successfully.
func (m *Manager) Synced() bool {
	return m.st.state() == Complete
}

// Attempts returns the number of successful corrections since start-up.
func (m *Manager) Attempts() int {
	return m.attempts
}
