package core

import (
	"fmt"
	"time"
)

// DaysInMonth returns the number of days in the given month using the
// Gregorian rule: 31 for Jan/Mar/May/Jul/Aug/Oct/Dec, 30 for
// Apr/Jun/Sep/Nov, and 28 or 29 for February depending on leap year.
// Months outside 1-12 are a caller error.
func DaysInMonth(year, month int) (int, error) {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31, nil
	case 4, 6, 9, 11:
		return 30, nil
	case 2:
		if isLeapYear(year) {
			return 29, nil
		}
		return 28, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysUntil returns the whole number of days from `from` to `target`.
// The result is zero or negative when target is not in the future.
func DaysUntil(target, from Date) int {
	return int(target.Sub(from.Time) / (24 * time.Hour))
}
