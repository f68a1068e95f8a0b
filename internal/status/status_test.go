package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

var testConfig = Config{
	SerialDevice: "/dev/ttyAMA0",
	SerialBaud:   9600,
	SSID:         "tracker-net",
	NTPServer:    "pool.ntp.org",
	LogPath:      "/data/track.log",
	CapacityB:    8192,
	Broker:       "tcp://192.168.1.200:1883",
	HTTPAddr:     ":8080",
}

func TestNewTrackerSnapshot(t *testing.T) {
	start := time.Date(2023, 11, 16, 8, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v", snap.StartTime)
	}
	if snap.BufferCap != 8192 {
		t.Errorf("BufferCap: got %d", snap.BufferCap)
	}
	if snap.Config != testConfig {
		t.Errorf("Config: got %+v", snap.Config)
	}
	if snap.Now.IsZero() {
		t.Error("Now should be set by Snapshot")
	}
}

func TestTrackerSetters(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig)
	fixAt := time.Date(2023, 11, 16, 8, 30, 0, 0, time.UTC)

	tr.SetLink("CONNECTED", "192.168.1.50")
	tr.SetSync("COMPLETE", true, 2)
	tr.SetFix("$GPRMC,083000,A,...", fixAt)
	tr.SetBuffer(1044, 20, 3, 1)
	tr.SetBacklog(5)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.LinkState != "CONNECTED" || snap.LinkAddr != "192.168.1.50" {
		t.Errorf("link: %q %q", snap.LinkState, snap.LinkAddr)
	}
	if snap.SyncState != "COMPLETE" || !snap.ClockSynced {
		t.Errorf("sync: %q %v", snap.SyncState, snap.ClockSynced)
	}
	if snap.LastFix != "$GPRMC,083000,A,..." || !snap.LastFixAt.Equal(fixAt) {
		t.Errorf("fix: %q %v", snap.LastFix, snap.LastFixAt)
	}
	if snap.BufferUsed != 1044 {
		t.Errorf("BufferUsed: got %d", snap.BufferUsed)
	}
	if snap.Counts != (Counts{Records: 20, Flushes: 3, Discards: 1, Corrections: 2}) {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
	if snap.Backlog != 5 {
		t.Errorf("Backlog: got %d", snap.Backlog)
	}
	if !snap.MQTTConnected {
		t.Error("MQTTConnected: got false")
	}
}

func TestSnapshotIsValueCopy(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig)
	tr.SetLink("CONNECTING", "")
	snap := tr.Snapshot()

	tr.SetLink("CONNECTED", "10.0.0.2")
	if snap.LinkState != "CONNECTING" {
		t.Error("snapshot mutated after later tracker update")
	}
}

func TestFormatJSONShape(t *testing.T) {
	tr := NewTracker(time.Date(2023, 11, 16, 8, 0, 0, 0, time.UTC), testConfig)
	tr.SetLink("CONNECTED", "192.168.1.50")
	tr.SetSync("COMPLETE", true, 1)

	var got StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status.Link.State != "CONNECTED" {
		t.Errorf("link state: got %q", got.Status.Link.State)
	}
	if got.Status.Link.SSID != "tracker-net" {
		t.Errorf("ssid: got %q", got.Status.Link.SSID)
	}
	if !got.Status.TimeSync.Synced {
		t.Error("clock_synced: got false")
	}
	if got.Status.Event != "" {
		t.Errorf("web JSON should carry no event, got %q", got.Status.Event)
	}
	if got.Status.Config.NTPServer != "pool.ntp.org" {
		t.Errorf("ntp server: got %q", got.Status.Config.NTPServer)
	}
}

func TestFormatJSONUnknownStates(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig)
	var got StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status.Link.State != "UNKNOWN" || got.Status.TimeSync.State != "UNKNOWN" {
		t.Errorf("unset states: got %q %q", got.Status.Link.State, got.Status.TimeSync.State)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig)
	payload := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var got StatusJSON
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status.Event != "SHUTDOWN" || got.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q %q", got.Status.Event, got.Status.Reason)
	}
	// MQTT events are compact, not indented.
	if strings.Contains(string(payload), "\n") {
		t.Error("event payload should be compact JSON")
	}
}

func TestUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, testConfig)
	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 92*time.Second {
		t.Errorf("uptime: got %v", up)
	}
}
