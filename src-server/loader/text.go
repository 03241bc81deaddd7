// Package loader reads events from plain text sources. Loaders only build
// events; putting them in a calendar goes through (*model.Calendar).AddEvent.
//
// One event per line:
//
//	name;date;time;duration
//	Team retro;15/01/2024;08:00;60
//	Dentist;next friday;10:30;45
//
// Date and time use the 02/01/2006 and 15:04 layouts. When they don't parse,
// "date time" is handed to the natural language parser instead. Blank lines
// and lines starting with # are skipped.
package loader

import (
	"agenda/src-server/model"
	"agenda/src-server/utils"
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Parse every event of a text file
func FromTextFile(path string, loc *time.Location, parser *when.Parser) ([]model.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, utils.NewCustomError("can't open file", map[string]any{
			"path": path,
			"err":  err,
		})
	}
	defer file.Close()

	return FromText(file, loc, parser)
}

// Parse events from r. Relative dates are resolved against the current time.
func FromText(r io.Reader, loc *time.Location, parser *when.Parser) ([]model.Event, error) {
	return fromText(r, loc, parser, time.Now().In(loc))
}

func fromText(r io.Reader, loc *time.Location, parser *when.Parser, now time.Time) ([]model.Event, error) {
	events := make([]model.Event, 0)
	scanner := bufio.NewScanner(r)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) != 4 {
			return nil, utils.NewCustomError("expected name;date;time;duration", map[string]any{
				"line":    lineCount,
				"content": line,
			})
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		name := utils.CleanupString(fields[0])
		if name == "" {
			return nil, utils.NewCustomError("event name is blank", map[string]any{
				"line": lineCount,
			})
		}

		start, err := parseStart(fields[1], fields[2], loc, parser, now)
		if err != nil {
			return nil, utils.NewCustomError("can't parse start date", map[string]any{
				"line":    lineCount,
				"content": fields[1] + " " + fields[2],
				"err":     err,
			})
		}

		duration, err := strconv.Atoi(fields[3])
		if err != nil || duration < 0 {
			return nil, utils.NewCustomError("duration must be a non-negative number of minutes", map[string]any{
				"line":    lineCount,
				"content": fields[3],
			})
		}

		events = append(events, model.NewEvent(name, start, duration))
	}
	if err := scanner.Err(); err != nil {
		return nil, utils.NewCustomError("can't read input", map[string]any{
			"line": lineCount,
			"err":  err,
		})
	}
	return events, nil
}

func parseStart(date, clock string, loc *time.Location, parser *when.Parser, now time.Time) (time.Time, error) {
	if start, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, loc); err == nil {
		return start, nil
	}
	if parser == nil {
		return time.Time{}, errNoParser
	}

	result, err := parser.Parse(date+" "+clock, now)
	if err != nil {
		return time.Time{}, err
	}
	if result == nil {
		return time.Time{}, errNoMatch
	}
	return result.Time.In(loc), nil
}
