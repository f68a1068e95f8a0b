package timesync

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// NTPSource queries an NTP server. The query timeout is kept well under the
// control loop's tick interval budget so a dead server stalls the loop only
// briefly per poll.
type NTPSource struct {
	server  string
	timeout time.Duration
}

// NewNTPSource creates a source for the given server ("pool.ntp.org" style).
func NewNTPSource(server string) *NTPSource {
	return &NTPSource{server: server, timeout: 800 * time.Millisecond}
}

// Query performs one NTP round trip.
func (s *NTPSource) Query() (time.Time, error) {
	resp, err := ntp.QueryWithOptions(s.server, ntp.QueryOptions{Timeout: s.timeout})
	if err != nil {
		return time.Time{}, fmt.Errorf("ntp query %s: %w", s.server, err)
	}
	if err := resp.Validate(); err != nil {
		return time.Time{}, fmt.Errorf("ntp response from %s: %w", s.server, err)
	}
	return time.Now().Add(resp.ClockOffset), nil
}
