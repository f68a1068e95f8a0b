// Package sched detects time-unit boundaries for sequencing periodic work.
// A Ticker is fed wall-clock samples and reports, per unit, whether the
// unit's value changed since the previous sample. All periodic behaviour in
// the daemon (per-second servicing, minute records, hourly flushes, daily
// time sync) hangs off these edges.
//
// The caller must tick at least twice as fast as the fastest unit of
// interest; slower polling silently misses edges.
package sched

import "time"

// Sample is one reading of the wall clock, one field per scheduling unit.
type Sample struct {
	Second int
	Minute int
	Hour   int
	Day    int
}

// SampleAt builds a Sample from a wall-clock time.
func SampleAt(t time.Time) Sample {
	return Sample{
		Second: t.Second(),
		Minute: t.Minute(),
		Hour:   t.Hour(),
		Day:    t.Day(),
	}
}

// Edges reports which units changed value between two consecutive ticks.
// Each field is independent; a minute edge does not imply a second edge.
type Edges struct {
	Second bool
	Minute bool
	Hour   bool
	Day    bool
}

// Ticker is the edge detector. The first Tick after construction or Reset
// only establishes the baseline and reports no edges.
type Ticker struct {
	primed bool
	last   Sample
}

// New creates an unprimed Ticker.
func New() *Ticker {
	return &Ticker{}
}

// Tick compares s against the previous sample and reports edges. The
// comparison is per unit, so a value that wrapped and came back between two
// ticks is missed (accepted; see package contract).
func (tk *Ticker) Tick(s Sample) Edges {
	if !tk.primed {
		tk.last = s
		tk.primed = true
		return Edges{}
	}
	e := Edges{
		Second: s.Second != tk.last.Second,
		Minute: s.Minute != tk.last.Minute,
		Hour:   s.Hour != tk.last.Hour,
		Day:    s.Day != tk.last.Day,
	}
	tk.last = s
	return e
}

// Reset rebases every unit to s without emitting edges. Required after any
// external clock correction: a jump would otherwise fire edges on every unit
// that happened to change, including ones whose period has not elapsed.
func (tk *Ticker) Reset(s Sample) {
	tk.last = s
	tk.primed = true
}
