package face

// holdAction is the action chosen by a continuous button hold.
type holdAction int

const (
	holdNone holdAction = iota
	holdIncrement
	holdReset
)

// tickHold advances one button's continuous-hold counter by one second and
// returns the action to fire this tick, if any.
//
// Exactly one action fires per continuous hold, chosen by duration: a hold
// reaching 5 s fires a reset at that instant and latches; a shorter hold of
// at least 2 s fires an increment on release, when the final duration is
// known. Release always clears the counter and the latch.
func tickHold(pressed bool, hold *uint8, done *bool) holdAction {
	if !pressed {
		fired := holdNone
		if !*done && *hold >= IncHoldSeconds && *hold < ResetHoldSeconds {
			fired = holdIncrement
		}
		*hold = 0
		*done = false
		return fired
	}

	if *hold < 255 {
		*hold++
	}
	if !*done && *hold >= ResetHoldSeconds {
		*done = true
		return holdReset
	}
	return holdNone
}
