// Package status provides a thread-safe status tracker for the gps-logger
// daemon. The control loop writes it every pass; HTTP handlers and telemetry
// snapshots read it.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	SerialDevice string
	SerialBaud   int
	SSID         string
	NTPServer    string
	LogPath      string
	CapacityB    int
	Broker       string
	HTTPAddr     string
}

// Counts tracks cumulative activity since startup.
type Counts struct {
	Records     int // position records appended to the track log
	Flushes     int // successful durable writes
	Discards    int // batches lost to storage failures
	Corrections int // successful clock corrections
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	LinkState     string
	LinkAddr      string
	SyncState     string
	ClockSynced   bool
	LastFix       string
	LastFixAt     time.Time
	BufferUsed    int
	BufferCap     int
	Backlog       int // telemetry events waiting for the link
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			BufferCap: cfg.CapacityB,
		},
	}
}

// SetLink sets the connectivity machine state and address.
func (t *Tracker) SetLink(state, addr string) {
	t.mu.Lock()
	t.snap.LinkState = state
	t.snap.LinkAddr = addr
	t.mu.Unlock()
}

// SetSync sets the time-sync session state.
func (t *Tracker) SetSync(state string, synced bool, corrections int) {
	t.mu.Lock()
	t.snap.SyncState = state
	t.snap.ClockSynced = synced
	t.snap.Counts.Corrections = corrections
	t.mu.Unlock()
}

// SetFix records the most recent matching position sentence.
func (t *Tracker) SetFix(line string, at time.Time) {
	t.mu.Lock()
	t.snap.LastFix = line
	t.snap.LastFixAt = at
	t.mu.Unlock()
}

// SetBuffer sets track log buffer usage and counters.
func (t *Tracker) SetBuffer(used, records, flushes, discards int) {
	t.mu.Lock()
	t.snap.BufferUsed = used
	t.snap.Counts.Records = records
	t.snap.Counts.Flushes = flushes
	t.snap.Counts.Discards = discards
	t.mu.Unlock()
}

// SetBacklog sets the telemetry backlog size.
func (t *Tracker) SetBacklog(n int) {
	t.mu.Lock()
	t.snap.Backlog = n
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
