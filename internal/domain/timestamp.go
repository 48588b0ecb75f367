package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rawTimestampRe matches the simulation output date column: "MM/DD  HH:00:00".
// The separators vary between exports ("03:12:02" is also seen), so only the
// three leading two-digit groups are significant.
var rawTimestampRe = regexp.MustCompile(`^(\d{2})[/:](\d{2})[\s:]+(\d{2})`)

// RawTimestamp is a file-local reading time. Hour follows the simulation
// convention of 1-24, where hour 24 is midnight at the end of the day.
type RawTimestamp struct {
	Month int
	Day   int
	Hour  int
}

// ParseRawTimestamp reads month, day and hour from a source date column value.
// Leading and trailing whitespace is ignored.
func ParseRawTimestamp(s string) (RawTimestamp, error) {
	m := rawTimestampRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return RawTimestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	// The regexp guarantees two digits per group, so Atoi cannot fail.
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[3])

	return RawTimestamp{Month: month, Day: day, Hour: hour}, nil
}

// Validate checks the hour range first, then the calendar date for year.
func (r RawTimestamp) Validate(year int) error {
	if r.Hour < 1 || r.Hour > 24 {
		return fmt.Errorf("%w: %d not in [1,24]", ErrInvalidHour, r.Hour)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidTimestamp, r.Month)
	}
	if r.Day < 1 || r.Day > daysIn(time.Month(r.Month), year) {
		return fmt.Errorf("%w: day %d of month %d in %d", ErrInvalidTimestamp, r.Day, r.Month, year)
	}
	return nil
}

func (r RawTimestamp) String() string {
	return fmt.Sprintf("%02d/%02d %02d:00", r.Month, r.Day, r.Hour)
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
