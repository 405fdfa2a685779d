package daterange

import "time"

// DateRange represents a half-open interval [Start, End) of UTC calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Month returns the range covering the calendar month that contains ref.
func Month(ref time.Time) DateRange {
	y, m, _ := ref.UTC().Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// Len is the number of days in the range.
func (dr DateRange) Len() int {
	if !dr.End.After(dr.Start) {
		return 0
	}
	return int(dr.End.Sub(dr.Start).Hours() / 24)
}

// Days lists every day of the range in ascending order.
func (dr DateRange) Days() []time.Time {
	days := make([]time.Time, 0, dr.Len())
	for d := dr.Start; d.Before(dr.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
