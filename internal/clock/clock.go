// Package clock provides the shared device clock: a settable software RTC
// layered on the system clock. The tracker has no battery-backed RTC, so the
// clock free-runs from boot and is corrected by time sync when the link is up.
// Time is always read through this package so that a correction is visible to
// every consumer at once.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock is the read side of the device clock.
type Clock interface {
	Now() time.Time
}

// RTC is the production clock. It applies a mutable offset to the system
// clock and renders times in the configured fixed zone. Reads come from the
// control loop and the HTTP status path, so access is mutex-guarded.
type RTC struct {
	mu     sync.RWMutex
	offset time.Duration
	zone   *time.Location
	synced bool
}

// NewRTC creates an RTC with the given zone offset in hours (the device has
// no tz database; the offset comes from config).
func NewRTC(zoneOffsetHours int) *RTC {
	name := fmt.Sprintf("UTC%+d", zoneOffsetHours)
	return &RTC{zone: time.FixedZone(name, zoneOffsetHours*3600)}
}

// Now returns the corrected wall-clock time in the device zone.
func (r *RTC) Now() time.Time {
	r.mu.RLock()
	off := r.offset
	zone := r.zone
	r.mu.RUnlock()
	return time.Now().Add(off).In(zone)
}

// SetEpoch corrects the clock to the given Unix time. Written only by the
// time sync path.
func (r *RTC) SetEpoch(sec int64) {
	r.mu.Lock()
	r.offset = time.Until(time.Unix(sec, 0))
	r.synced = true
	r.mu.Unlock()
}

// Synced reports whether the clock has ever been corrected.
func (r *RTC) Synced() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.synced
}

// recordLayout is the timestamp prefix for track log records.
const recordLayout = "2006/01/02,15:04:05"

// Timestamp formats t the way track log records expect it.
func Timestamp(t time.Time) string {
	return t.Format(recordLayout)
}
