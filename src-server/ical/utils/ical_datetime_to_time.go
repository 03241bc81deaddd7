package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	datePattern      = regexp.MustCompile(`^\d{4}\d{2}\d{2}$`)
	localTimePattern = regexp.MustCompile(`^\d{4}\d{2}\d{2}T\d{2}\d{2}\d{2}$`)
	UTCTimePattern   = regexp.MustCompile(`^\d{4}\d{2}\d{2}T\d{2}\d{2}\d{2}Z$`)
)

// Parsing fields containing date-time values. For example:
//   - DTSTART;TZID=Europe/Paris:20220101T000000
//   - DTSTART;VALUE=DATE:20220101
//   - DTEND:20220101T000000Z
//
// If the datetime doesn't have a postfix "Z"
//   - if TZID is present, it will be used to parse the datetime
//   - otherwise, the datetime will be parsed in fallback
//
// else, the datetime will be parsed in UTC. Plain dates are midnight in
// fallback.
func IcalDatetimeToTime(rawText string, fallback *time.Location) (time.Time, error) {
	slice := strings.SplitN(rawText, ":", 2)
	if len(slice) != 2 {
		return time.Time{}, fmt.Errorf("must be splitable by ':', got %s", rawText)
	}
	if fallback == nil {
		fallback = time.UTC
	}

	firstPart := slice[0]
	timePart := strings.TrimSpace(slice[1])

	switch {
	case datePattern.MatchString(timePart):
		return time.ParseInLocation("20060102", timePart, fallback)
	case localTimePattern.MatchString(timePart):
		location := fallback
		for _, prop := range strings.Split(firstPart, ";") {
			parts := strings.SplitN(prop, "=", 2)
			if len(parts) == 2 && parts[0] == "TZID" {
				loc, err := time.LoadLocation(strings.Trim(parts[1], `"`))
				if err != nil {
					return time.Time{}, fmt.Errorf("invalid TZID: %w", err)
				}
				location = loc
			}
		}
		return time.ParseInLocation("20060102T150405", timePart, location)
	case UTCTimePattern.MatchString(timePart):
		return time.Parse("20060102T150405Z", timePart)
	default:
		return time.Time{}, fmt.Errorf("invalid date-time format")
	}
}
