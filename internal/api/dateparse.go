package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseFlexibleDate accepts the two calendar formats clients send: M/D/YY
// (or M/D/YYYY) and YYYY-MM-DD. Two-digit years pivot at 50: 00-49 map to
// 20xx, 50-99 to 19xx. The result is midnight local time; everything past
// this function works with parsed values only.
func ParseFlexibleDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		if len(parts) != 3 {
			return time.Time{}, fmt.Errorf("invalid date %q, use M/D/YY or YYYY-MM-DD", raw)
		}
		month, err1 := strconv.Atoi(parts[0])
		day, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, use M/D/YY or YYYY-MM-DD", raw)
		}
		if len(parts[2]) == 2 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		return civilDate(year, month, day, raw)
	}

	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use M/D/YY or YYYY-MM-DD", raw)
	}
	return parsed, nil
}

// civilDate validates the components by round-tripping through time.Date,
// which normalizes out-of-range values instead of rejecting them.
func civilDate(year, month, day int, raw string) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}
