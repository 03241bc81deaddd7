// The `ical` package reads and writes calendar events as iCalendar data.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Only VEVENT components are read; SUMMARY, DTSTART and DTEND or DURATION
//   are used, every other property is ignored.
// - VTIMEZONE and VALARM sections, including their sub-sections, are ignored.
//   TZID parameters are resolved through the system time zone database.
// - Recurring events (RRULE/RDATE) are rejected, a calendar holds single
//   occurrences only.
//
// # Example usage:
//
// Parse from a file
//
//	events, _ := ical.FromIcalFile("path/to/input/calendar.ics", time.Local)
//
// Write a calendar
//
//	var sb strings.Builder
//	_ = ical.ToIcal(sb.WriteString, cal)
package ical

import (
	icalutils "agenda/src-server/ical/utils"
	"agenda/src-server/model"
	"agenda/src-server/utils"
	"bufio"
	"io"
	"os"
	"strings"
	"time"
)

// Unmarshal the events of an iCalendar file.
func FromIcalFile(path string, loc *time.Location) ([]model.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, utils.NewCustomError("can't opening file", map[string]any{
			"path": path,
			"err":  err,
		})
	}
	defer file.Close()

	return FromIcal(file, loc)
}

// Unmarshal the events of an iCalendar stream. Floating times (no TZID and
// no trailing Z) and plain dates are read in loc.
func FromIcal(r io.Reader, loc *time.Location) ([]model.Event, error) {
	if loc == nil {
		loc = time.UTC
	}

	events := make([]model.Event, 0)
	var (
		depth     []string
		current   *vevent
		lineCount int
	)

	err := unfold(r, func(line string, lineNo int) error {
		lineCount = lineNo
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return utils.NewCustomError("content line without ':'", map[string]any{
				"line":    lineNo,
				"content": line,
			})
		}
		propName, _, _ := strings.Cut(name, ";")
		propName = strings.ToUpper(propName)

		switch propName {
		case "BEGIN":
			depth = append(depth, strings.ToUpper(value))
			if strings.EqualFold(value, "VEVENT") && len(depth) == 2 {
				current = &vevent{line: lineNo}
			}
			return nil
		case "END":
			if len(depth) == 0 || !strings.EqualFold(depth[len(depth)-1], value) {
				return utils.NewCustomError("unbalanced END", map[string]any{
					"line":    lineNo,
					"content": line,
				})
			}
			depth = depth[:len(depth)-1]
			if strings.EqualFold(value, "VEVENT") && current != nil {
				event, err := current.toEvent(loc)
				if err != nil {
					return err
				}
				events = append(events, event)
				current = nil
			}
			return nil
		}

		// only properties that belong directly to the VEVENT
		if current == nil || len(depth) != 2 {
			return nil
		}
		return current.set(propName, line, value, lineNo)
	})
	if err != nil {
		return nil, err
	}
	if len(depth) != 0 {
		return nil, utils.NewCustomError("unterminated component", map[string]any{
			"line":      lineCount,
			"component": depth[len(depth)-1],
		})
	}
	return events, nil
}

// Join folded lines back together and hand each logical line to fn with the
// number of the physical line it started on.
func unfold(r io.Reader, fn func(line string, lineNo int) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		lastLine  string
		lastNo    int
		lineCount int
	)
	for scanner.Scan() {
		lineCount++
		currentLine := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(currentLine, " ") || strings.HasPrefix(currentLine, "\t") {
			lastLine += currentLine[1:]
			continue
		}
		if lastLine != "" {
			if err := fn(lastLine, lastNo); err != nil {
				return err
			}
		}
		lastLine = currentLine
		lastNo = lineCount
	}
	if err := scanner.Err(); err != nil {
		return utils.NewCustomError("can't read input", map[string]any{
			"line": lineCount,
			"err":  err,
		})
	}
	if lastLine != "" {
		return fn(lastLine, lastNo)
	}
	return nil
}

type vevent struct {
	line     int
	summary  string
	dtstart  string
	dtend    string
	duration string
}

func (v *vevent) set(propName, line, value string, lineNo int) error {
	switch propName {
	case "SUMMARY":
		v.summary = unescapeText(value)
	case "DTSTART":
		v.dtstart = line
	case "DTEND":
		v.dtend = line
	case "DURATION":
		v.duration = value
	case "RRULE", "RDATE":
		return utils.NewCustomError("recurring events are not supported", map[string]any{
			"line":    lineNo,
			"content": line,
		})
	}
	return nil
}

func (v *vevent) toEvent(loc *time.Location) (model.Event, error) {
	name := utils.CleanupString(v.summary)
	if name == "" {
		return model.Event{}, utils.NewCustomError("VEVENT without SUMMARY", map[string]any{
			"line": v.line,
		})
	}
	if v.dtstart == "" {
		return model.Event{}, utils.NewCustomError("VEVENT without DTSTART", map[string]any{
			"line": v.line,
		})
	}
	start, err := icalutils.IcalDatetimeToTime(v.dtstart, loc)
	if err != nil {
		return model.Event{}, utils.NewCustomError("can't parse DTSTART", map[string]any{
			"line":    v.line,
			"content": v.dtstart,
			"err":     err,
		})
	}

	var length time.Duration
	switch {
	case v.dtend != "":
		end, err := icalutils.IcalDatetimeToTime(v.dtend, loc)
		if err != nil {
			return model.Event{}, utils.NewCustomError("can't parse DTEND", map[string]any{
				"line":    v.line,
				"content": v.dtend,
				"err":     err,
			})
		}
		length = end.Sub(start)
	case v.duration != "":
		length, err = icalutils.IcalDurationToDuration(v.duration)
		if err != nil {
			return model.Event{}, utils.NewCustomError("can't parse DURATION", map[string]any{
				"line":    v.line,
				"content": v.duration,
				"err":     err,
			})
		}
	}
	if length < 0 {
		return model.Event{}, utils.NewCustomError("event ends before it starts", map[string]any{
			"line": v.line,
		})
	}

	return model.NewEvent(name, start.In(loc), int(length/time.Minute)), nil
}

var (
	textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	textEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, ",", `\,`, ";", `\;`)
)

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
