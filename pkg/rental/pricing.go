package rental

import "time"

const day = 24 * time.Hour

// RentalDays counts started days between start and end. A partial day is a
// full rental day.
func RentalDays(start, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, &InvalidRangeError{Start: start, End: end}
	}
	d := end.Sub(start)
	days := int64(d / day)
	if d%day != 0 {
		days++
	}
	return days, nil
}

func ComputePrice(start, end time.Time, pricePerDay float64) (float64, error) {
	days, err := RentalDays(start, end)
	if err != nil {
		return 0, err
	}
	return float64(days) * pricePerDay, nil
}
