package dates

import (
	"strings"
	"time"
)

// WeekOf returns the seven days of the week containing today, shifted back
// weeksAgo whole weeks. The week begins on start.
func WeekOf(today Day, start time.Weekday, weeksAgo int) []Day {
	offset := (int(today.Weekday()) - int(start) + 7) % 7
	first := today.AddDays(-offset - 7*weeksAgo)
	out := make([]Day, 7)
	for i := range out {
		out[i] = first.AddDays(i)
	}
	return out
}

// MonthDays returns every day of the given month, in order.
func MonthDays(year int, month time.Month) []Day {
	n := DaysIn(year, month)
	out := make([]Day, n)
	for i := range out {
		out[i] = Day{Year: year, Month: month, Day: i + 1}
	}
	return out
}

// Between returns from..to inclusive; empty when from is after to.
func Between(from, to Day) []Day {
	var out []Day
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return wd, true
		}
	}
	return time.Sunday, false
}
