// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/tally-tracker/internal/face"
)

// Topic is the MQTT topic for tally mutation events.
const Topic = "habits/tally/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "habits/tally/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a tally mutation event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event face.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Tally TallyPayload `json:"tally"`
}

// TallyPayload contains the tally event details.
type TallyPayload struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	A         CounterPayload `json:"a"`
	B         CounterPayload `json:"b"`
}

// CounterPayload represents one tracked counter and its goal.
type CounterPayload struct {
	Count uint16 `json:"count"`
	Goal  uint16 `json:"goal"`
}

// FormatPayload creates the JSON payload for a tally event.
func FormatPayload(event face.Event) ([]byte, error) {
	payload := Payload{
		Tally: TallyPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			A:         CounterPayload{Count: event.TallyA, Goal: event.GoalA},
			B:         CounterPayload{Count: event.TallyB, Goal: event.GoalB},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
