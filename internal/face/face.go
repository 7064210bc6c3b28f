package face

import "time"

// Face is the tracker aggregate: persisted tallies and goals plus the
// transient hold, gesture, and mode state of one activation session. It is
// exclusively owned by the session; no locking.
type Face struct {
	store Store

	tallyA uint16
	tallyB uint16
	goalA  uint16
	goalB  uint16

	holdSecA    uint8
	holdSecB    uint8
	actionDoneA bool
	actionDoneB bool

	// msClock advances by 1000 on every whole-second tick and is never reset
	// during a session. Tap timing compares against it, not wall time.
	msClock       uint32
	lastTapMS     uint32
	lastGestureMS uint32
	gestureSeen   bool
	tapCount      uint8

	mode         Mode
	countdownSec uint8
}

// New creates a Face and loads the persisted tallies and goals from the
// store. The store has already normalized invalid values.
func New(store Store) *Face {
	tallyA, tallyB, goalA, goalB := store.Load()
	return &Face{
		store:  store,
		tallyA: tallyA,
		tallyB: tallyB,
		goalA:  goalA,
		goalB:  goalB,
		mode:   ModeNormal,
	}
}

// Activate resets the per-activation hold state. Gesture state and mode
// survive across activations within a session.
func (f *Face) Activate() {
	f.holdSecA = 0
	f.holdSecB = 0
	f.actionDoneA = false
	f.actionDoneB = false
}

// Snapshot returns a copy of the displayable state.
func (f *Face) Snapshot() Snapshot {
	return Snapshot{
		TallyA:       f.tallyA,
		TallyB:       f.tallyB,
		GoalA:        f.goalA,
		GoalB:        f.goalB,
		Mode:         f.mode,
		CountdownSec: f.countdownSec,
	}
}

// Tick processes one whole-second tick. Within the tick, hold detection
// resolves before gesture recognition, which resolves before the mode
// countdown, which resolves before rendering — so a gesture recognized this
// tick affects this same tick's frame.
func (f *Face) Tick(in Input) Result {
	var res Result
	f.msClock += 1000

	switch tickHold(in.LightPressed, &f.holdSecA, &f.actionDoneA) {
	case holdIncrement:
		if f.tallyA < MaxTallyA {
			f.tallyA++
		}
		f.store.StoreTallyA(f.tallyA)
		res.Events = append(res.Events, f.event(EventIncrementA, in.Time))
	case holdReset:
		f.tallyA = 0
		f.store.StoreTallyA(f.tallyA)
		res.Events = append(res.Events, f.event(EventResetA, in.Time))
	}

	switch tickHold(in.AlarmPressed, &f.holdSecB, &f.actionDoneB) {
	case holdIncrement:
		if f.tallyB < MaxTallyB {
			f.tallyB++
		}
		f.store.StoreTallyB(f.tallyB)
		res.Events = append(res.Events, f.event(EventIncrementB, in.Time))
	case holdReset:
		f.tallyB = 0
		f.store.StoreTallyB(f.tallyB)
		res.Events = append(res.Events, f.event(EventResetB, in.Time))
	}

	res.Gesture = f.recognize(DecodeTapSource(in.TapSource))
	switch res.Gesture {
	case GestureSingleTap:
		// Only enter the deficit display when A is actually behind.
		if deficitFor(f.goalA, f.tallyA, in) > deficitEpsilon {
			f.mode = ModeShowDeficit
			f.countdownSec = DeficitShowSeconds
		}
	case GestureDoubleTap:
		if deficitFor(f.goalB, f.tallyB, in) > deficitEpsilon {
			f.mode = ModeShowDeficit
			f.countdownSec = DeficitShowSeconds
		}
	case GestureTripleTap:
		if f.mode == ModeSetGoalA {
			f.mode = ModeSetGoalB
		} else {
			f.mode = ModeSetGoalA
		}
	}

	if f.mode == ModeShowDeficit {
		if f.countdownSec > 0 {
			f.countdownSec--
		}
		if f.countdownSec == 0 {
			f.mode = ModeNormal
		}
	}

	res.Frame = f.render(in)
	return res
}

// HandleButton processes a button release. It returns false when the face
// resigns (mode button outside the set modes), plus any mutation events.
func (f *Face) HandleButton(ev ButtonEvent, now time.Time) (bool, []Event) {
	var events []Event

	switch ev {
	case ButtonLightUp:
		if f.mode == ModeSetGoalA {
			if f.goalA < MaxGoalA {
				f.goalA++
			}
			f.store.StoreGoalA(f.goalA)
			events = append(events, f.event(EventGoalA, now))
		}

	case ButtonAlarmUp:
		if f.mode == ModeSetGoalA {
			if f.goalA > MinGoal {
				f.goalA--
			}
			f.store.StoreGoalA(f.goalA)
			events = append(events, f.event(EventGoalA, now))
		} else if f.mode == ModeSetGoalB {
			if f.goalB > MinGoal {
				f.goalB--
			}
			f.store.StoreGoalB(f.goalB)
			events = append(events, f.event(EventGoalB, now))
		}

	case ButtonModeUp:
		if f.mode == ModeSetGoalA || f.mode == ModeSetGoalB {
			f.mode = ModeNormal
		} else {
			return false, events
		}
	}

	return true, events
}

func (f *Face) event(t EventType, ts time.Time) Event {
	return Event{
		Timestamp: ts,
		Type:      t,
		TallyA:    f.tallyA,
		TallyB:    f.tallyB,
		GoalA:     f.goalA,
		GoalB:     f.goalB,
	}
}
