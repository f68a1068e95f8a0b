// Package telemetry publishes position and lifecycle events over MQTT, with
// abstraction for testing. The uplink is intermittent, so publishing is
// gated on the connectivity manager's view of the link; events raised while
// offline are coalesced in a bounded ring and replayed on reconnect.
package telemetry

import (
	"encoding/json"
	"time"
)

// TopicPosition is the MQTT topic for position events.
const TopicPosition = "tracker/gps/position"

// TopicSystem is the MQTT topic for lifecycle events.
const TopicSystem = "tracker/gps/system"

// Publisher publishes tracker events.
type Publisher interface {
	// PublishPosition sends a position event to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishPosition(event PositionEvent) error

	// PublishSystem sends a lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// PositionEvent carries one recorded position sentence.
type PositionEvent struct {
	Timestamp time.Time
	Sentence  string
}

// SystemEvent represents a lifecycle event (e.g., startup, shutdown, daily
// status).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "STATUS"
	Reason     string // e.g., "SIGTERM" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the broker should retain the message
}

// positionPayload is the wire shape of a position event.
type positionPayload struct {
	Position positionInner `json:"position"`
}

type positionInner struct {
	Timestamp string `json:"timestamp"`
	Sentence  string `json:"sentence"`
}

// FormatPositionPayload creates the JSON payload for a position event.
func FormatPositionPayload(event PositionEvent) ([]byte, error) {
	return json.Marshal(positionPayload{
		Position: positionInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Sentence:  event.Sentence,
		},
	})
}

// systemPayload is the wire shape of a simple lifecycle event.
type systemPayload struct {
	System systemInner `json:"system"`
}

type systemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event. If
// event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(systemPayload{
		System: systemInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
