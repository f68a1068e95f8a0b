// Package link manages the radio link. A Manager runs the acquisition /
// loss-detection / retry state machine; the Link interface abstracts the
// actual WiFi hardware so the machine can be driven by a fake in tests.
//
// The machine never gives up: every failure path leads back to Connecting
// after a fixed wait. On an unattended device there is nobody to report an
// error to, so availability wins over bounded effort.
package link

// Credentials identify the access point to associate with.
type Credentials struct {
	SSID   string
	Secret string
}

// Link is the radio collaborator. Associate starts an association attempt
// and returns immediately; progress is observed by polling Connected. None
// of the methods return errors — a failed association simply never reports
// connected, and the Manager times it out.
type Link interface {
	// Associate begins association with the given access point.
	Associate(ssid, secret string)

	// Connected reports whether the link is currently up.
	Connected() bool

	// Disconnect tears the link down. Safe to call when already down.
	Disconnect()

	// LocalAddr returns the interface address, or "" when down.
	LocalAddr() string
}
