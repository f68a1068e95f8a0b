package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Link          LinkJSON   `json:"link"`
	TimeSync      SyncJSON   `json:"time_sync"`
	LastFix       string     `json:"last_fix,omitempty"`
	LastFixAt     string     `json:"last_fix_at,omitempty"`
	Buffer        BufferJSON `json:"buffer"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// LinkJSON reports connectivity machine state.
type LinkJSON struct {
	State string `json:"state"`
	SSID  string `json:"ssid,omitempty"`
	Addr  string `json:"addr,omitempty"`
}

// SyncJSON reports time-sync session state.
type SyncJSON struct {
	State  string `json:"state"`
	Synced bool   `json:"clock_synced"`
}

// BufferJSON reports track log buffer usage.
type BufferJSON struct {
	UsedBytes int `json:"used_bytes"`
	Capacity  int `json:"capacity_bytes"`
	Backlog   int `json:"telemetry_backlog"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of activity counts.
type CountsJSON struct {
	Records     int `json:"records"`
	Flushes     int `json:"flushes"`
	Discards    int `json:"discards"`
	Corrections int `json:"clock_corrections"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SerialDevice string `json:"serial_device"`
	SerialBaud   int    `json:"serial_baud"`
	NTPServer    string `json:"ntp_server"`
	LogPath      string `json:"log_path"`
	Broker       string `json:"broker,omitempty"`
	HTTPAddr     string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	linkState := snap.LinkState
	if linkState == "" {
		linkState = "UNKNOWN"
	}
	syncState := snap.SyncState
	if syncState == "" {
		syncState = "UNKNOWN"
	}

	inner := StatusInner{
		Link:          LinkJSON{State: linkState, SSID: snap.Config.SSID, Addr: snap.LinkAddr},
		TimeSync:      SyncJSON{State: syncState, Synced: snap.ClockSynced},
		LastFix:       snap.LastFix,
		Buffer:        BufferJSON{UsedBytes: snap.BufferUsed, Capacity: snap.BufferCap, Backlog: snap.Backlog},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Records:     snap.Counts.Records,
			Flushes:     snap.Counts.Flushes,
			Discards:    snap.Counts.Discards,
			Corrections: snap.Counts.Corrections,
		},
		Config: ConfigJSON{
			SerialDevice: snap.Config.SerialDevice,
			SerialBaud:   snap.Config.SerialBaud,
			NTPServer:    snap.Config.NTPServer,
			LogPath:      snap.Config.LogPath,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
	if !snap.LastFixAt.IsZero() {
		inner.LastFixAt = snap.LastFixAt.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
