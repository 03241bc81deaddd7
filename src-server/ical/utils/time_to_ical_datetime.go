package utils

import (
	"fmt"
	"time"
)

// Convert a time to a UTC string in iCalendar format: YYYYMMDDTHHMMSSZ
func TimeToIcalDatetime(time_ time.Time) (string, error) {
	if time_.IsZero() {
		return "", fmt.Errorf("time is zero")
	}
	return time_.UTC().Format("20060102T150405Z"), nil
}
