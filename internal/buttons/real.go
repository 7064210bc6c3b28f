//go:build linux

package buttons

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip     *gpiocdev.Chip
	lightPin *gpiocdev.Line
	modePin  *gpiocdev.Line
	alarmPin *gpiocdev.Line
}

// NewRealReader creates a button reader for actual hardware. Buttons short
// the line to ground when pressed, so lines are requested with pull-up.
func NewRealReader(chipName string, pinLight, pinMode, pinAlarm int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lightLine, err := chip.RequestLine(pinLight, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request light pin %d: %w", pinLight, err)
	}

	modeLine, err := chip.RequestLine(pinMode, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		lightLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request mode pin %d: %w", pinMode, err)
	}

	alarmLine, err := chip.RequestLine(pinAlarm, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		modeLine.Close()
		lightLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request alarm pin %d: %w", pinAlarm, err)
	}

	return &RealReader{
		chip:     chip,
		lightPin: lightLine,
		modePin:  modeLine,
		alarmPin: alarmLine,
	}, nil
}

// Read returns the logical pressed state of each button.
// Inverts raw GPIO: raw 0 (line pulled to ground) = pressed.
func (r *RealReader) Read() (bool, bool, bool, error) {
	lightRaw, err := r.lightPin.Value()
	if err != nil {
		return false, false, false, fmt.Errorf("read light pin: %w", err)
	}

	modeRaw, err := r.modePin.Value()
	if err != nil {
		return false, false, false, fmt.Errorf("read mode pin: %w", err)
	}

	alarmRaw, err := r.alarmPin.Value()
	if err != nil {
		return false, false, false, fmt.Errorf("read alarm pin: %w", err)
	}

	return lightRaw == 0, modeRaw == 0, alarmRaw == 0, nil
}

// Close releases GPIO resources, reconfiguring pins back to plain inputs
// first so external wiring sees a clean state across restarts.
func (r *RealReader) Close() error {
	var errs []error

	for _, pin := range []*gpiocdev.Line{r.lightPin, r.modePin, r.alarmPin} {
		if pin == nil {
			continue
		}
		if err := pin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
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
