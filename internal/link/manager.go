package link

import "github.com/rs/zerolog"

// State identifies the connectivity machine's current mode.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	DisconnectWait
	Backoff
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case DisconnectWait:
		return "DISCONNECT_WAIT"
	case Backoff:
		return "BACKOFF"
	default:
		return "UNKNOWN"
	}
}

// Tick budgets, in seconds (the Manager is ticked once per second).
const (
	// connectTimeoutTicks is how long an association attempt may take
	// before it is declared failed.
	connectTimeoutTicks = 30

	// backoffTicks is the wait after a failed attempt before retrying.
	backoffTicks = 60

	// disconnectWaitTicks is the wait after a detected link loss before
	// reconnecting, giving the radio time to settle.
	disconnectWaitTicks = 10
)

// connState is the tagged representation of the machine: each waiting state
// carries its own counter, so a counter cannot outlive the state it belongs
// to.
type connState interface {
	state() State
}

type disconnected struct{}
type connecting struct{ waited int }
type connectedState struct{}
type disconnectWait struct{ waited int }
type backoff struct{ waited int }

func (disconnected) state() State   { return Disconnected }
func (connecting) state() State     { return Connecting }
func (connectedState) state() State { return Connected }
func (disconnectWait) state() State { return DisconnectWait }
func (backoff) state() State        { return Backoff }

// Manager is the connectivity state machine. It advances only on explicit
// Tick or request calls; there is no internal goroutine. Not safe for
// concurrent use — everything runs on the control loop.
type Manager struct {
	link  Link
	log   zerolog.Logger
	creds Credentials
	st    connState
}

// NewManager creates a Manager in Disconnected.
func NewManager(l Link, log zerolog.Logger) *Manager {
	return &Manager{link: l, log: log, st: disconnected{}}
}

// RequestConnect stores the credentials and (re)enters Connecting with a
// fresh wait counter. Idempotent: calling it mid-attempt restarts the
// attempt.
func (m *Manager) RequestConnect(creds Credentials) {
	m.creds = creds
	m.connect()
}

// RequestDisconnect forces Disconnected and tears down the link. Idempotent.
func (m *Manager) RequestDisconnect() {
	m.st = disconnected{}
	m.link.Disconnect()
	m.log.Info().Msg("link disconnect requested")
}

// Tick advances the machine by one second.
func (m *Manager) Tick() {
	switch st := m.st.(type) {
	case connecting:
		if m.link.Connected() {
			m.st = connectedState{}
			m.log.Info().Str("addr", m.link.LocalAddr()).Msg("link up")
			return
		}
		st.waited++
		if st.waited >= connectTimeoutTicks {
			m.link.Disconnect()
			m.st = backoff{}
			m.log.Warn().Int("waited", st.waited).Msg("association timed out, backing off")
			return
		}
		m.st = st

	case connectedState:
		if !m.link.Connected() {
			m.st = disconnectWait{}
			m.log.Warn().Msg("link loss detected")
		}

	case disconnectWait:
		st.waited++
		if st.waited >= disconnectWaitTicks {
			m.connect()
			return
		}
		m.st = st

	case backoff:
		st.waited++
		if st.waited >= backoffTicks {
			m.connect()
			return
		}
		m.st = st
	}
}

// IsConnected reports whether the machine currently considers the link up.
// Pure query; does not consult the hardware.
func (m *Manager) IsConnected() bool {
	return m.st.state() == Connected
}

// State returns the current machine state for status reporting.
func (m *Manager) State() State {
	return m.st.state()
}

// LocalAddr returns the link address while connected, "" otherwise.
func (m *Manager) LocalAddr() string {
	if !m.IsConnected() {
		return ""
	}
	return m.link.LocalAddr()
}

func (m *Manager) connect() {
	m.st = connecting{}
	m.link.Associate(m.creds.SSID, m.creds.Secret)
	m.log.Info().Str("ssid", m.creds.SSID).Msg("association initiated")
}
