//go:build !linux

package link

import "github.com/rs/zerolog"

// RealLink is not available on non-Linux platforms.
type RealLink struct{}

// NewRealLink returns a stub that never connects.
func NewRealLink(iface string, log zerolog.Logger) *RealLink {
	log.Warn().Msg("link: real driver requires Linux, running with stub")
	return &RealLink{}
}

// Associate does nothing on non-Linux platforms.
func (l *RealLink) Associate(ssid, secret string) {}

// Connected always reports false.
func (l *RealLink) Connected() bool { return false }

// Disconnect does nothing.
func (l *RealLink) Disconnect() {}

// LocalAddr returns "".
func (l *RealLink) LocalAddr() string { return "" }
