package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/tally-tracker/internal/face"
)

func sampleEvent() face.Event {
	return face.Event{
		Timestamp: time.Date(2026, 6, 10, 8, 30, 0, 0, time.UTC),
		Type:      face.EventIncrementA,
		TallyA:    5,
		TallyB:    2,
		GoalA:     12,
		GoalB:     4,
	}
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(sampleEvent())
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	want := `{"tally":{"timestamp":"2026-06-10T08:30:00Z","event":"TALLY_A_INC","a":{"count":5,"goal":12},"b":{"count":2,"goal":4}}}`
	if string(payload) != want {
		t.Errorf("payload:\n got  %s\n want %s", payload, want)
	}
}

func TestFormatPayloadConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := sampleEvent()
	event.Timestamp = time.Date(2026, 6, 10, 9, 30, 0, 0, loc)

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Tally.Timestamp != "2026-06-10T08:30:00Z" {
		t.Errorf("timestamp: got %s, want UTC form", decoded.Tally.Timestamp)
	}
}

func TestFormatPayloadEventTypes(t *testing.T) {
	for _, typ := range []face.EventType{
		face.EventIncrementA, face.EventResetA,
		face.EventIncrementB, face.EventResetB,
		face.EventGoalA, face.EventGoalB,
	} {
		event := sampleEvent()
		event.Type = typ

		payload, err := FormatPayload(event)
		if err != nil {
			t.Fatalf("format %s: %v", typ, err)
		}
		var decoded Payload
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", typ, err)
		}
		if decoded.Tally.Event != string(typ) {
			t.Errorf("event field: got %s, want %s", decoded.Tally.Event, typ)
		}
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 6, 10, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := `{"system":{"timestamp":"2026-06-10T08:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != want {
		t.Errorf("payload:\n got  %s\n want %s", payload, want)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 6, 10, 8, 30, 0, 0, time.UTC),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := `{"system":{"timestamp":"2026-06-10T08:30:00Z","event":"STARTUP"}}`
	if string(payload) != want {
		t.Errorf("payload:\n got  %s\n want %s", payload, want)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	event := SystemEvent{Event: "HEARTBEAT", RawPayload: raw}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", payload)
	}
}

func TestFakePublisherRecordsEvents(t *testing.T) {
	fake := NewFakePublisher()

	if err := fake.Publish(sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(fake.Events) != 1 {
		t.Fatalf("events: got %d, want 1", len(fake.Events))
	}
	if fake.Events[0].Type != face.EventIncrementA {
		t.Errorf("event type: got %s", fake.Events[0].Type)
	}
	if len(fake.Payloads) != 1 {
		t.Fatalf("payloads: got %d, want 1", len(fake.Payloads))
	}
	var decoded Payload
	if err := json.Unmarshal(fake.Payloads[0], &decoded); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
}

func TestFakePublisherRecordsSystemEvents(t *testing.T) {
	fake := NewFakePublisher()

	err := fake.PublishSystem(SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
	})
	if err != nil {
		t.Fatalf("publish system: %v", err)
	}

	if len(fake.SystemEvents) != 1 {
		t.Fatalf("system events: got %d, want 1", len(fake.SystemEvents))
	}
	if !fake.SystemEvents[0].Retained {
		t.Error("retained flag lost")
	}
	if len(fake.SystemPayloads) != 1 {
		t.Fatalf("system payloads: got %d, want 1", len(fake.SystemPayloads))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	fake := NewFakePublisher()
	fake.PublishError = errors.New("broker down")
	fake.PublishSystemError = errors.New("broker down")

	if err := fake.Publish(sampleEvent()); err == nil {
		t.Error("expected publish error")
	}
	if err := fake.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected system publish error")
	}
	if len(fake.Events) != 0 || len(fake.SystemEvents) != 0 {
		t.Error("failed publishes must not be recorded")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	fake := NewFakePublisher()
	fake.Publish(sampleEvent())
	fake.Connected = true
	fake.Close()

	if !fake.Closed {
		t.Error("close not recorded")
	}
	if !fake.IsConnected() {
		t.Error("connected flag should survive close")
	}

	fake.Reset()
	if len(fake.Events) != 0 || len(fake.Payloads) != 0 || fake.Closed || fake.IsConnected() {
		t.Error("reset did not clear state")
	}
}

func TestFakePublisherImplementsInterfaces(t *testing.T) {
	var _ Publisher = NewFakePublisher()
	var _ ConnectionStatus = NewFakePublisher()
}
