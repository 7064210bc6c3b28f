package face

// recognize classifies this tick's tap flags against the millisecond clock.
// Evaluation order within a tick: double-tap check, then single-tap
// accumulation / triple-tap check, then stale-run finalization. The debounce
// window after any recognized gesture suppresses further classification, so
// at most one gesture fires per tick.
func (f *Face) recognize(flags TapFlags) Gesture {
	now := f.msClock

	// A double tap preempts any in-progress single-tap run.
	if flags.Double {
		if f.debounceClear(now) {
			f.fireGesture(now)
			f.tapCount = 0
			f.lastTapMS = 0
			return GestureDoubleTap
		}
	}

	if flags.Single {
		if f.debounceClear(now) {
			if f.tapCount == 0 || now-f.lastTapMS > MultiTapWindowMS {
				f.tapCount = 1
			} else {
				f.tapCount++
			}
			f.lastTapMS = now
			if f.tapCount >= 3 {
				f.tapCount = 0
				f.lastTapMS = 0
				f.fireGesture(now)
				return GestureTripleTap
			}
		}
	}

	// A run of 1 or 2 taps left alone past the window finalizes as a single
	// tap, fired now rather than at the original tap time.
	if f.tapCount > 0 && now-f.lastTapMS > MultiTapWindowMS {
		fired := f.debounceClear(now)
		f.tapCount = 0
		f.lastTapMS = 0
		if fired {
			f.fireGesture(now)
			return GestureSingleTap
		}
	}

	return GestureNone
}

// debounceClear reports whether enough time has passed since the last
// recognized gesture for a new one to fire.
func (f *Face) debounceClear(now uint32) bool {
	return !f.gestureSeen || now-f.lastGestureMS > TapDebounceMS
}

func (f *Face) fireGesture(now uint32) {
	f.lastGestureMS = now
	f.gestureSeen = true
}
