package schedule

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a naive local clock time with minute precision. It is stored
// as "HH:MM" text in the database.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At builds a TimeOfDay without validation; callers pass grid values.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// ParseTimeOfDay parses "HH:MM" (24-hour), rejecting any trailing input.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("parse time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time %q: want HH:MM", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time %q: want HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// FromMinutes converts minutes since midnight back to a clock time,
// wrapping past midnight the way adding a duration to a wall clock does.
func FromMinutes(mins int) TimeOfDay {
	mins %= 24 * 60
	if mins < 0 {
		mins += 24 * 60
	}
	return TimeOfDay{Hour: mins / 60, Minute: mins % 60}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner. SQLite hands back TEXT as string or []byte
// depending on the driver path.
func (t *TimeOfDay) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*t = TimeOfDay{}
		return nil
	default:
		return fmt.Errorf("scan TimeOfDay: unsupported type %T", src)
	}
	// Tolerate a trailing seconds component ("HH:MM:SS") from the driver.
	if parts := strings.SplitN(raw, ":", 3); len(parts) == 3 {
		raw = parts[0] + ":" + parts[1]
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
