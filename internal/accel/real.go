//go:build linux

package accel

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/tally-tracker/internal/face"
)

// RealSource reads the tap interrupt lines from actual hardware.
type RealSource struct {
	chip      *gpiocdev.Chip
	singlePin *gpiocdev.Line
	doublePin *gpiocdev.Line
}

// NewRealSource creates a tap source for actual hardware. The interrupt
// lines are push-pull outputs on the accelerometer side, active high.
func NewRealSource(chipName string, pinSingle, pinDouble int) (*RealSource, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	singleLine, err := chip.RequestLine(pinSingle, gpiocdev.AsInput)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request single-tap pin %d: %w", pinSingle, err)
	}

	doubleLine, err := chip.RequestLine(pinDouble, gpiocdev.AsInput)
	if err != nil {
		singleLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request double-tap pin %d: %w", pinDouble, err)
	}

	return &RealSource{
		chip:      chip,
		singlePin: singleLine,
		doublePin: doubleLine,
	}, nil
}

// ReadSource reassembles the interrupt-source byte from the two routed
// interrupt lines.
func (s *RealSource) ReadSource() (byte, error) {
	singleRaw, err := s.singlePin.Value()
	if err != nil {
		return 0, fmt.Errorf("read single-tap pin: %w", err)
	}

	doubleRaw, err := s.doublePin.Value()
	if err != nil {
		return 0, fmt.Errorf("read double-tap pin: %w", err)
	}

	var src byte
	if singleRaw != 0 {
		src |= face.TapSrcSingle
	}
	if doubleRaw != 0 {
		src |= face.TapSrcDouble
	}
	return src, nil
}

// Close releases GPIO resources.
func (s *RealSource) Close() error {
	var errs []error

	for _, pin := range []*gpiocdev.Line{s.singlePin, s.doublePin} {
		if pin == nil {
			continue
		}
		if err := pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
