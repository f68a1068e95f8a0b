package clock

import "time"

// Manual is a test clock that advances only when told to. It implements the
// same read/write surface as RTC so state machines can be driven through
// simulated time without sleeping.
type Manual struct {
	t time.Time

	// SetEpochCalls records corrections for test assertions.
	SetEpochCalls []int64
}

// NewManual creates a Manual clock starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{t: start}
}

// Now returns the current simulated time.
func (m *Manual) Now() time.Time {
	return m.t
}

// Advance moves the simulated time forward.
func (m *Manual) Advance(d time.Duration) {
	m.t = m.t.Add(d)
}

// Set jumps the simulated time to t.
func (m *Manual) Set(t time.Time) {
	m.t = t
}

// SetEpoch corrects the simulated clock to the given Unix time.
func (m *Manual) SetEpoch(sec int64) {
	m.t = time.Unix(sec, 0).In(m.t.Location())
	m.SetEpochCalls = append(m.SetEpochCalls, sec)
}
