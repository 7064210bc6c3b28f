package face

import "fmt"

// render produces the two display lines for the current state. Pure: it
// mutates nothing, so the same state and input always yield the same frame.
func (f *Face) render(in Input) Frame {
	switch f.mode {
	case ModeShowDeficit:
		defA := deficitFor(f.goalA, f.tallyA, in)
		defB := deficitFor(f.goalB, f.tallyB, in)
		if defA > deficitEpsilon {
			return Frame{Top: "GET A", Main: fmt.Sprintf("%5.2f", defA)}
		}
		if defB > deficitEpsilon {
			return Frame{Top: "GET B", Main: fmt.Sprintf("%5.2f", defB)}
		}
		return f.renderNormal(in)

	case ModeSetGoalA:
		return Frame{Top: "SET A", Main: fmt.Sprintf("%03d", f.goalA)}

	case ModeSetGoalB:
		return Frame{Top: "SET B", Main: fmt.Sprintf("%02d", f.goalB)}

	default:
		return f.renderNormal(in)
	}
}

func (f *Face) renderNormal(in Input) Frame {
	frame := Frame{Top: fmt.Sprintf("A:%03d  B:%02d", f.tallyA, f.tallyB)}
	if in.DateValid {
		frame.Main = in.Time.Format("15:04:05")
	} else {
		frame.Main = "--:--:--"
	}
	return frame
}
