//go:build !linux

package accel

import "errors"

// RealSource is not available on non-Linux platforms.
type RealSource struct{}

// NewRealSource returns an error on non-Linux platforms.
func NewRealSource(chipName string, pinSingle, pinDouble int) (*RealSource, error) {
	return nil, errors.New("accel: not supported on this platform (requires Linux)")
}

// ReadSource is not implemented on non-Linux platforms.
func (s *RealSource) ReadSource() (byte, error) {
	return 0, errors.New("accel: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSource) Close() error {
	return nil
}
