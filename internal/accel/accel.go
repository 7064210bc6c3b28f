// Package accel provides the accelerometer tap interrupt source with
// hardware abstraction. The real implementation samples the LIS2DW single-
// and double-tap interrupt routing lines through the Linux GPIO character
// device and reassembles the interrupt-source byte; the fake returns
// scripted bytes.
package accel

// Source reads the tap interrupt-source byte. Bit 6 is the single-tap flag,
// bit 5 the double-tap flag; the two signals are independent and may both be
// set in one sample.
type Source interface {
	// ReadSource returns the current interrupt-source byte. Reading clears
	// nothing on the fake; on hardware the interrupt lines are
	// level-latched per the accelerometer's latched-interrupt mode.
	ReadSource() (byte, error)

	// Close releases resources.
	Close() error
}

// Pin definitions (BCM numbering) for the tap interrupt routing lines.
const (
	DefaultPinSingleTap = 23 // INT1: single-tap
	DefaultPinDoubleTap = 24 // INT2: double-tap
)
