package accountstatus

import "time"

// Window is an inclusive time range.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.From) && !t.After(w.To)
}

// MonthWindow spans the calendar month in UTC, from the first day at 00:00:00 to the
// last day at 23:59:59.999. Day 0 of the following month is the last day of this one.
func MonthWindow(month, year int) Window {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return Window{
		From: from,
		To:   last.Add(24*time.Hour - time.Millisecond),
	}
}
