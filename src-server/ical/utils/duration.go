package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^([+-]?)P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// Parse an iCalendar DURATION value such as PT1H30M or P1DT2H.
func IcalDurationToDuration(value string) (time.Duration, error) {
	match := durationPattern.FindStringSubmatch(value)
	if match == nil || value == "P" || value == "PT" {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if match[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+2])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		total += time.Duration(n) * unit
	}
	if match[1] == "-" {
		total = -total
	}
	return total, nil
}

// Format a non-negative number of minutes as an iCalendar DURATION
func MinutesToIcalDuration(minutes int) string {
	if minutes <= 0 {
		return "PT0M"
	}
	hours, mins := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("PT%dM", mins)
	case mins == 0:
		return fmt.Sprintf("PT%dH", hours)
	default:
		return fmt.Sprintf("PT%dH%dM", hours, mins)
	}
}
