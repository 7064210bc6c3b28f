package accel

// FakeSource is a test double that returns scripted interrupt-source bytes.
type FakeSource struct {
	// Samples contains scripted interrupt-source bytes.
	// Each call to ReadSource() consumes the next sample.
	Samples []byte

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by ReadSource()
	ReadError error
}

// NewFakeSource creates a FakeSource with the given samples.
func NewFakeSource(samples []byte) *FakeSource {
	return &FakeSource{Samples: samples}
}

// ReadSource returns the next scripted byte.
// If samples are exhausted, returns 0 (no taps) repeatedly.
func (f *FakeSource) ReadSource() (byte, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if f.index >= len(f.Samples) {
		return 0, nil
	}

	b := f.Samples[f.index]
	f.index++
	return b, nil
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the source to the beginning of samples.
func (f *FakeSource) Reset() {
	f.index = 0
	f.Closed = false
}
