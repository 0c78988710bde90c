package creditcard

import "time"

// BillingCycle is the closed window of the statement that ends on the last cut-off.
type BillingCycle struct {
	Start time.Time
	End   time.Time
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// cutOffIn returns the cut-off date inside the given month, clamping day to the month length.
func cutOffIn(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CurrentCycle returns the cycle ending on the most recent cut-off on or before today.
// cutOffDay is a day of month (1..31); months shorter than that cut off on their last day.
func CurrentCycle(cutOffDay int, today time.Time) BillingCycle {
	if cutOffDay < 1 {
		cutOffDay = 1
	}
	today = today.UTC()
	y, m, d := today.Date()

	end := cutOffIn(y, m, cutOffDay)
	if d < end.Day() {
		prev := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end = cutOffIn(prev.Year(), prev.Month(), cutOffDay)
	}

	before := time.Date(end.Year(), end.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	previousCutOff := cutOffIn(before.Year(), before.Month(), cutOffDay)

	return BillingCycle{
		Start: previousCutOff.AddDate(0, 0, 1),
		End:   end.Add(24*time.Hour - time.Millisecond),
	}
}
