package buttons

import (
	"errors"
	"testing"
)

func TestFakeReaderReturnsScriptedSamples(t *testing.T) {
	fake := NewFakeReader([]Sample{
		{Light: true},
		{Alarm: true},
		{Light: true, Mode: true, Alarm: true},
	})

	light, mode, alarm, err := fake.Read()
	if err != nil {
		t.Fatalf("read 1: %v", err)
	}
	if !light || mode || alarm {
		t.Errorf("read 1: got %v/%v/%v, want light only", light, mode, alarm)
	}

	light, mode, alarm, _ = fake.Read()
	if light || mode || !alarm {
		t.Errorf("read 2: got %v/%v/%v, want alarm only", light, mode, alarm)
	}

	light, mode, alarm, _ = fake.Read()
	if !light || !mode || !alarm {
		t.Errorf("read 3: got %v/%v/%v, want all", light, mode, alarm)
	}
}

func TestFakeReaderRepeatsLastSample(t *testing.T) {
	fake := NewFakeReader([]Sample{{Mode: true}})

	for i := 0; i < 3; i++ {
		_, mode, _, err := fake.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if !mode {
			t.Errorf("read %d: mode not held", i)
		}
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	fake := NewFakeReader(nil)
	if _, _, _, err := fake.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderReadError(t *testing.T) {
	fake := NewFakeReader([]Sample{{Light: true}})
	fake.ReadError = errors.New("chip gone")

	if _, _, _, err := fake.Read(); err == nil {
		t.Error("expected configured read error")
	}
}

func TestFakeReaderReset(t *testing.T) {
	fake := NewFakeReader([]Sample{{Light: true}, {}})

	fake.Read()
	fake.Read()
	fake.Close()
	fake.Reset()

	if fake.Closed {
		t.Error("reset did not clear Closed")
	}
	light, _, _, _ := fake.Read()
	if !light {
		t.Error("reset did not rewind to first sample")
	}
}

func TestFakeReaderImplementsReader(t *testing.T) {
	var _ Reader = NewFakeReader(nil)
}
