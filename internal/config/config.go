// Package config loads the daemon configuration. The device carries one
// YAML file (historically key=value on the SD card) naming the access
// point, the serial receiver, and the storage/telemetry targets; everything
// has a default so a minimal file only needs WiFi credentials.
package config

import (
	"fmt"
	"time"
)

// Config is the complete daemon configuration.
type Config struct {
	WiFi      WiFi      `yaml:"wifi"`
	Serial    Serial    `yaml:"serial"`
	TimeSync  TimeSync  `yaml:"timesync"`
	TrackLog  TrackLog  `yaml:"tracklog"`
	Telemetry Telemetry `yaml:"telemetry"`
	HTTP      HTTP      `yaml:"http"`
	Logging   Logging   `yaml:"logging"`
	LED       LED       `yaml:"led"`
}

// WiFi names the access point the link manager associates with.
type WiFi struct {
	SSID      string `yaml:"ssid"`
	Secret    string `yaml:"secret"`
	Interface string `yaml:"interface"`
}

// Serial locates the GNSS receiver.
type Serial struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// TimeSync configures clock correction.
//
// RetryAfter is a Go duration string. When non-zero, a timed-out sync
// session is retried that long after the timeout (while connected) instead
// of waiting for the daily trigger. "0s" keeps the daily-only behaviour.
type TimeSync struct {
	Server     string `yaml:"server"`
	ZoneOffset int    `yaml:"zone_offset_hours"`
	RetryAfter string `yaml:"retry_after"`
}

// TrackLog configures the durable position log.
type TrackLog struct {
	Path     string `yaml:"path"`
	Capacity int    `yaml:"capacity_bytes"`
}

// Telemetry configures the MQTT uplink. An empty broker disables it.
type Telemetry struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Backlog  int    `yaml:"backlog"`
}

// HTTP configures the status page. An empty addr disables it.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// Logging configures diagnostic output.
type Logging struct {
	Level string `yaml:"level"`
}

// LED configures the status LEDs. Disabled unless both pins are set.
type LED struct {
	PinLink int `yaml:"pin_link"`
	PinFix  int `yaml:"pin_fix"`
}

// Default returns the configuration used when a field is omitted.
func Default() Config {
	return Config{
		WiFi:     WiFi{Interface: "wlan0"},
		Serial:   Serial{Device: "/dev/ttyAMA0", Baud: 9600},
		TimeSync: TimeSync{Server: "pool.ntp.org", RetryAfter: "0s"},
		TrackLog: TrackLog{Path: "/data/track.log", Capacity: 8192},
		Telemetry: Telemetry{
			ClientID: "gps-logger",
			Backlog:  256,
		},
		HTTP:    HTTP{Addr: ":8080"},
		Logging: Logging{Level: "info"},
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c Config) Validate() error {
	if c.WiFi.SSID == "" {
		return fmt.Errorf("wifi.ssid: required")
	}
	if c.Serial.Device == "" {
		return fmt.Errorf("serial.device: required")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud: must be > 0, got %d", c.Serial.Baud)
	}
	if c.TrackLog.Path == "" {
		return fmt.Errorf("tracklog.path: required")
	}
	if c.TrackLog.Capacity <= 0 {
		return fmt.Errorf("tracklog.capacity_bytes: must be > 0, got %d", c.TrackLog.Capacity)
	}
	if c.TimeSync.Server == "" {
		return fmt.Errorf("timesync.server: required")
	}
	if _, err := c.RetryAfter(); err != nil {
		return err
	}
	if (c.LED.PinLink == 0) != (c.LED.PinFix == 0) {
		return fmt.Errorf("led: pin_link and pin_fix must be set together")
	}
	return nil
}

// RetryAfter parses the timesync retry interval. Zero means daily-only.
func (c Config) RetryAfter() (time.Duration, error) {
	return parseDurationField("timesync.retry_after", c.TimeSync.RetryAfter)
}

// LEDEnabled reports whether status LEDs are configured.
func (c Config) LEDEnabled() bool {
	return c.LED.PinLink != 0 && c.LED.PinFix != 0
}

func parseDurationField(path, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}
