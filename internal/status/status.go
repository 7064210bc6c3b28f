// Package status provides a thread-safe status tracker for the tally-tracker
// daemon. It is designed to be read by HTTP handlers and MQTT system
// payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/tally-tracker/internal/face"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	BackupPath  string
	JournalPath string
}

// EventCounts tracks the number of each mutation event since startup.
type EventCounts struct {
	IncA   int
	ResetA int
	IncB   int
	ResetB int
	GoalA  int
	GoalB  int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Face          face.Snapshot
	DeficitA      float64
	DeficitB      float64
	Counts        EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Face:      face.Snapshot{Mode: face.ModeNormal},
		},
	}
}

// Update sets the face state and current deficits.
// Called from the run loop on every tick.
func (t *Tracker) Update(snap face.Snapshot, deficitA, deficitB float64) {
	t.mu.Lock()
	t.snap.Face = snap
	t.snap.DeficitA = deficitA
	t.snap.DeficitB = deficitB
	t.mu.Unlock()
}

// CountEvents adds this tick's mutation events to the running counts.
func (t *Tracker) CountEvents(events []face.Event) {
	if len(events) == 0 {
		return
	}
	t.mu.Lock()
	for _, e := range events {
		switch e.Type {
		case face.EventIncrementA:
			t.snap.Counts.IncA++
		case face.EventResetA:
			t.snap.Counts.ResetA++
		case face.EventIncrementB:
			t.snap.Counts.IncB++
		case face.EventResetB:
			t.snap.Counts.ResetB++
		case face.EventGoalA:
			t.snap.Counts.GoalA++
		case face.EventGoalB:
			t.snap.Counts.GoalB++
		}
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
