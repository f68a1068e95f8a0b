//go:build linux

package led

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealSetter drives LEDs on actual hardware using the Linux GPIO character
// device.
type RealSetter struct {
	chip    *gpiocdev.Chip
	linkPin *gpiocdev.Line
	fixPin  *gpiocdev.Line
}

// NewRealSetter requests the two LED lines as outputs, initially dark.
func NewRealSetter(pinLink, pinFix int) (*RealSetter, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	linkLine, err := chip.RequestLine(pinLink, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request link pin %d: %w", pinLink, err)
	}

	fixLine, err := chip.RequestLine(pinFix, gpiocdev.AsOutput(0))
	if err != nil {
		linkLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request fix pin %d: %w", pinFix, err)
	}

	return &RealSetter{
		chip:    chip,
		linkPin: linkLine,
		fixPin:  fixLine,
	}, nil
}

// Set drives both LEDs.
func (r *RealSetter) Set(link, fix bool) error {
	if err := r.linkPin.SetValue(boolToLevel(link)); err != nil {
		return fmt.Errorf("set link pin: %w", err)
	}
	if err := r.fixPin.SetValue(boolToLevel(fix)); err != nil {
		return fmt.Errorf("set fix pin: %w", err)
	}
	return nil
}

// Close darkens both LEDs and releases GPIO resources.
func (r *RealSetter) Close() error {
	var errs []error

	if r.linkPin != nil {
		if err := r.linkPin.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear link pin: %w", err))
		}
		if err := r.linkPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close link pin: %w", err))
		}
	}
	if r.fixPin != nil {
		if err := r.fixPin.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear fix pin: %w", err))
		}
		if err := r.fixPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close fix pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToLevel(on bool) int {
	if on {
		return 1
	}
	return 0
}
