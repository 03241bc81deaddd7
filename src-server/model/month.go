package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is the bucket key of a Calendar, ordered the way the calendar year is.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

func (m Month) Valid() bool {
	return m >= January && m <= December
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// index into the Calendar bucket array
func (m Month) index() int {
	return int(m) - 1
}

// Get the month a point in time belongs to, in the time's own location
func MonthOf(t time.Time) Month {
	return Month(t.Month())
}

// All twelve months in calendar order
func AllMonths() []Month {
	months := make([]Month, 0, len(monthNames))
	for m := January; m <= December; m++ {
		months = append(months, m)
	}
	return months
}

// Accepts an English month name (any case) or its number, 1 to 12
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if m := Month(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("ParseMonth: month number out of range: %d", n)
	}
	upper := strings.ToUpper(s)
	for i, name := range monthNames {
		if name == upper {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("ParseMonth: unknown month %q", s)
}

// Parse a comma separated month list such as "FEBRUARY,march,5"
func ParseMonths(s string) ([]Month, error) {
	months := make([]Month, 0)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseMonth(part)
		if err != nil {
			return nil, fmt.Errorf("ParseMonths: %w", err)
		}
		months = append(months, m)
	}
	return months, nil
}
