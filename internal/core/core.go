// Package core runs the tracker's control loop. One Coordinator owns the
// pass ordering: absorb receiver output, advance the calendar, and let each
// per-second, per-minute, per-hour, and per-day job run at most once per
// boundary. Everything underneath is a pure state machine driven by Tick, so
// the whole loop can be simulated in tests with fake collaborators and a
// manual clock.
package core

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/gps-logger/internal/clock"
	"github.com/sweeney/gps-logger/internal/ingest"
	"github.com/sweeney/gps-logger/internal/led"
	"github.com/sweeney/gps-logger/internal/link"
	"github.com/sweeney/gps-logger/internal/sched"
	"github.com/sweeney/gps-logger/internal/status"
	"github.com/sweeney/gps-logger/internal/telemetry"
	"github.com/sweeney/gps-logger/internal/timesync"
	"github.com/sweeney/gps-logger/internal/tracklog"
)

// TickInterval is the control loop cadence. Two passes per second keeps
// second-boundary jobs from missing a calendar second.
const TickInterval = 500 * time.Millisecond

// fixFreshFor is how recently a position must have arrived for the fix LED
// to stay lit.
const fixFreshFor = 10 * time.Second

// sentencePrefixes selects the recommended-minimum sentences from the
// receiver stream (GPS-only and multi-constellation talkers).
var sentencePrefixes = []string{"$GPRMC", "$GNRMC"}

// Clock is the coordinator's view of the device clock.
type Clock interface {
	Now() time.Time
	SetEpoch(sec int64)
}

// Options carries the coordinator's collaborators. Publisher, LEDs, Tracker,
// and Backlog are optional; the loop runs headless without them.
type Options struct {
	Clock      Clock
	Source     ingest.Source
	Link       *link.Manager
	Creds      link.Credentials
	TimeSource timesync.Source
	Buffer     *tracklog.Buffer
	Publisher  telemetry.Publisher
	LEDs       led.Setter
	Tracker    *status.Tracker
	Backlog    func() int

	// RetryAfter restarts a timed-out sync session this long after the
	// timeout, once the link is up. Zero waits for the daily trigger.
	RetryAfter time.Duration

	Log zerolog.Logger
}

// Coordinator sequences one control pass per Tick.
type Coordinator struct {
	clock   Clock
	source  ingest.Source
	filter  *ingest.Filter
	sched   *sched.Ticker
	link    *link.Manager
	creds   link.Credentials
	sync    *timesync.Manager
	buf     *tracklog.Buffer
	pub     telemetry.Publisher
	leds    led.Setter
	tracker *status.Tracker
	backlog func() int
	log     zerolog.Logger

	retrySeconds int
	sinceTimeout int
	records      int
	lastFixAt    time.Time
}

// New wires a Coordinator from its collaborators. The calendar and the time
// sync session are built here so a clock correction rebases the calendar
// before any job can observe the jump.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		clock:        opts.Clock,
		source:       opts.Source,
		filter:       ingest.NewFilter(sentencePrefixes...),
		sched:        sched.New(),
		link:         opts.Link,
		creds:        opts.Creds,
		buf:          opts.Buffer,
		pub:          opts.Publisher,
		leds:         opts.LEDs,
		tracker:      opts.Tracker,
		backlog:      opts.Backlog,
		log:          opts.Log,
		retrySeconds: int(opts.RetryAfter / time.Second),
	}
	rebase := func() {
		c.sched.Reset(sched.SampleAt(c.clock.Now()))
	}
	c.sync = timesync.NewManager(opts.TimeSource, opts.Clock, rebase, opts.Log)
	return c
}

// Start requests the initial association and announces the boot. Raised
// before the link is up, the startup event sits in the telemetry backlog
// until the first connect.
func (c *Coordinator) Start() {
	c.link.RequestConnect(c.creds)
	if c.pub != nil {
		evt := telemetry.SystemEvent{Timestamp: c.clock.Now(), Event: "STARTUP"}
		if err := c.pub.PublishSystem(evt); err != nil {
			c.log.Warn().Err(err).Msg("core: publish startup event")
		}
	}
}

// Tick runs one control pass.
func (c *Coordinator) Tick() {
	now := c.clock.Now()

	for _, line := range c.source.Poll() {
		if c.filter.Offer(line) {
			c.lastFixAt = now
			if c.tracker != nil {
				c.tracker.SetFix(line, now)
			}
		}
	}

	edges := c.sched.Tick(sched.SampleAt(now))

	if edges.Second {
		c.link.Tick()
		if c.link.IsConnected() && c.sync.State() == timesync.Idle {
			c.sync.Start()
		}
		c.sync.Tick()
		c.retryTick()
	}

	if edges.Minute {
		if line, ok := c.filter.Take(); ok {
			c.record(now, line)
		}
	}

	if edges.Hour {
		c.buf.Flush()
	}

	if edges.Day && c.link.IsConnected() {
		c.sync.Start()
	}

	c.updateStatus(now)
}

// record appends one timestamped position and mirrors it to telemetry.
func (c *Coordinator) record(now time.Time, line string) {
	c.buf.Append(clock.Timestamp(now) + "," + line)
	c.records++
	if c.pub != nil {
		evt := telemetry.PositionEvent{Timestamp: now, Sentence: line}
		if err := c.pub.PublishPosition(evt); err != nil {
			c.log.Warn().Err(err).Msg("core: publish position")
		}
	}
}

// retryTick restarts a timed-out sync session after the configured hold-off.
// A session that leaves TimedOut by any other means clears the counter.
func (c *Coordinator) retryTick() {
	if c.sync.State() != timesync.TimedOut {
		c.sinceTimeout = 0
		return
	}
	if c.retrySeconds == 0 {
		return
	}
	c.sinceTimeout++
	if c.sinceTimeout >= c.retrySeconds && c.link.IsConnected() {
		c.log.Info().Msg("core: retrying time sync after timeout")
		c.sync.Start()
		c.sinceTimeout = 0
	}
}

func (c *Coordinator) updateStatus(now time.Time) {
	if c.tracker != nil {
		c.tracker.SetLink(c.link.State().String(), c.link.LocalAddr())
		c.tracker.SetSync(c.sync.State().String(), c.sync.Synced(), c.sync.Attempts())
		c.tracker.SetBuffer(c.buf.Len(), c.records, c.buf.Flushes(), c.buf.Discards())
		if c.backlog != nil {
			c.tracker.SetBacklog(c.backlog())
		}
	}
	if c.leds != nil {
		fresh := !c.lastFixAt.IsZero() && now.Sub(c.lastFixAt) <= fixFreshFor
		if err := c.leds.Set(c.link.IsConnected(), fresh); err != nil {
			c.log.Warn().Err(err).Msg("core: set status leds")
		}
	}
}

// Records returns the count of positions appended since boot.
func (c *Coordinator) Records() int { return c.records }

// Shutdown flushes pending records and announces the stop. The reason names
// what ended the process (e.g. "SIGTERM").
func (c *Coordinator) Shutdown(reason string) {
	c.buf.Flush()
	if c.pub != nil {
		evt := telemetry.SystemEvent{Timestamp: c.clock.Now(), Event: "SHUTDOWN", Reason: reason}
		if err := c.pub.PublishSystem(evt); err != nil {
			c.log.Warn().Err(err).Msg("core: publish shutdown event")
		}
	}
	if err := c.source.Close(); err != nil {
		c.log.Warn().Err(err).Msg("core: close receiver")
	}
	if c.leds != nil {
		if err := c.leds.Close(); err != nil {
			c.log.Warn().Err(err).Msg("core: close leds")
		}
	}
}
