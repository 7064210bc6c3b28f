// Package face contains the pure tracker core: two persisted tallies measured
// against monthly goals, button hold-action detection, accelerometer tap
// gesture recognition, mode transitions, and rendering.
// This package has NO hardware dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Each whole-second tick carries everything the core needs.
package face

import "time"

// Fixed device contract. These are not runtime-configurable.
const (
	DefaultGoalA = 12
	DefaultGoalB = 4

	MinGoal   = 1
	MaxGoalA  = 999
	MaxGoalB  = 99
	MaxTallyA = 999
	MaxTallyB = 99

	// Hold thresholds in whole seconds.
	IncHoldSeconds   = 2
	ResetHoldSeconds = 5

	// Deficit display auto-expiry in seconds.
	DeficitShowSeconds = 3

	// Tap timing in milliseconds.
	TapDebounceMS    = 250
	MultiTapWindowMS = 1500
)

// Mode is the UI mode of the face.
type Mode string

const (
	ModeNormal      Mode = "NORMAL"
	ModeShowDeficit Mode = "SHOW_DEFICIT"
	ModeSetGoalA    Mode = "SET_A"
	ModeSetGoalB    Mode = "SET_B"
)

// Gesture is a classified accelerometer tap pattern.
type Gesture string

const (
	GestureNone      Gesture = ""
	GestureSingleTap Gesture = "SINGLE_TAP"
	GestureDoubleTap Gesture = "DOUBLE_TAP"
	GestureTripleTap Gesture = "TRIPLE_TAP"
)

// Tap interrupt-source bits, as routed by the LIS2DW tap engine.
const (
	TapSrcSingle = 1 << 6
	TapSrcDouble = 1 << 5
)

// TapFlags decodes the interrupt-source byte into its two independent
// tap signals.
type TapFlags struct {
	Single bool
	Double bool
}

// DecodeTapSource extracts the tap flags from a raw interrupt-source byte.
func DecodeTapSource(src byte) TapFlags {
	return TapFlags{
		Single: src&TapSrcSingle != 0,
		Double: src&TapSrcDouble != 0,
	}
}

// EventType identifies a persisted-field mutation.
type EventType string

const (
	EventIncrementA EventType = "TALLY_A_INC"
	EventResetA     EventType = "TALLY_A_RESET"
	EventIncrementB EventType = "TALLY_B_INC"
	EventResetB     EventType = "TALLY_B_RESET"
	EventGoalA      EventType = "GOAL_A_SET"
	EventGoalB      EventType = "GOAL_B_SET"
)

// Event records a single mutation of a persisted field, together with the
// resulting values. Events are emitted for journaling and telemetry; by the
// time an event is visible the mutation has already been written through to
// the backup store.
type Event struct {
	Timestamp time.Time
	Type      EventType
	TallyA    uint16
	TallyB    uint16
	GoalA     uint16
	GoalB     uint16
}

// ButtonEvent is a button release reported by the host.
type ButtonEvent int

const (
	// ButtonLightUp raises the goal in SET A mode.
	ButtonLightUp ButtonEvent = iota
	// ButtonAlarmUp lowers the goal in either set mode.
	ButtonAlarmUp
	// ButtonModeUp confirms a set mode back to normal, or resigns the face.
	ButtonModeUp
)

// Date is a calendar date from the host clock source.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Input is one whole-second tick sample.
type Input struct {
	// Button levels this second. Light drives tally A, Alarm drives tally B.
	LightPressed bool
	AlarmPressed bool

	// Tap interrupt-source byte read from the accelerometer this second.
	TapSource byte

	// Wall clock. DateValid is false when the clock source is unavailable;
	// deficits are then zero by definition.
	Time      time.Time
	DateValid bool
}

// DateOf returns the calendar date of the input sample.
func (in Input) DateOf() Date {
	y, m, d := in.Time.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Frame is the rendered output of one tick: a top status line and a main
// line, mirroring the two-line device display.
type Frame struct {
	Top  string
	Main string
}

// Result is the outcome of processing one tick.
type Result struct {
	// Events contains the persisted-field mutations this tick, in the order
	// they were applied.
	Events []Event
	// Gesture is the gesture recognized this tick, if any. At most one
	// gesture fires per tick.
	Gesture Gesture
	// Frame is the display output for this tick.
	Frame Frame
}

// Snapshot is a point-in-time copy of the face state for status consumers.
type Snapshot struct {
	TallyA       uint16
	TallyB       uint16
	GoalA        uint16
	GoalB        uint16
	Mode         Mode
	CountdownSec uint8
}

// Store is the persistence hook the face writes through on every mutation of
// a persisted field. Implementations must not fail loudly: a write that
// cannot complete is logged and dropped, never surfaced to the core.
type Store interface {
	// Load returns the validated persisted values: out-of-range goals are
	// replaced by their defaults, out-of-range tallies clamped to their
	// maxima.
	Load() (tallyA, tallyB, goalA, goalB uint16)

	StoreTallyA(v uint16)
	StoreTallyB(v uint16)
	StoreGoalA(v uint16)
	StoreGoalB(v uint16)
}
