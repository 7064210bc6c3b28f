package face

// deficitEpsilon is the threshold below which a computed deficit is treated
// as "goal satisfied".
const deficitEpsilon = 0.0001

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month, applying the
// Gregorian leap-year rule for February.
func DaysInMonth(year, month int) int {
	if month != 2 {
		return monthDays[month-1]
	}
	leap := (year%4 == 0 && year%100 != 0) || year%400 == 0
	if leap {
		return 29
	}
	return 28
}

// Deficit computes how far a tally is behind its goal pro-rated to the given
// date: max(0, goal*day/daysInMonth - actual). Never negative.
func Deficit(goal, actual uint16, d Date) float64 {
	expected := float64(goal) * float64(d.Day) / float64(DaysInMonth(d.Year, d.Month))
	deficit := expected - float64(actual)
	if deficit < 0 {
		deficit = 0
	}
	return deficit
}

// deficitFor applies the unavailable-date fail-safe: without a valid date the
// deficit is zero, which suppresses the deficit display path.
func deficitFor(goal, actual uint16, in Input) float64 {
	if !in.DateValid {
		return 0
	}
	return Deficit(goal, actual, in.DateOf())
}
