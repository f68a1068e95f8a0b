// Package led drives the panel status LEDs with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
//
// Two LEDs: link (radio association state) and fix (recent position data).
package led

// Setter sets the LED states.
type Setter interface {
	// Set drives both LEDs. Levels are logical: true = lit.
	Set(link, fix bool) error

	// Close releases GPIO resources, leaving the LEDs dark.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinLink = 23
	DefaultPinFix  = 24
)
