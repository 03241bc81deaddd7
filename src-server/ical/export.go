package ical

import (
	icalutils "agenda/src-server/ical/utils"
	"agenda/src-server/model"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const ProdID = "-//agenda//calendar engine//EN"

// Serialize the calendar as a VCALENDAR, one VEVENT per event, months in
// calendar order. Each content line is folded at 75 octets and ends in CRLF.
func ToIcal(writer func(string) (int, error), cal *model.Calendar) error {
	split75writer := icalutils.Split75wrapper(writer)
	writeLine := func(line string) error {
		if _, err := split75writer(line); err != nil {
			return err
		}
		_, err := writer("\r\n")
		return err
	}

	dtstamp, err := icalutils.TimeToIcalDatetime(time.Now())
	if err != nil {
		return fmt.Errorf("ToIcal: %w", err)
	}

	for _, line := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ProdID,
		"CALSCALE:GREGORIAN",
	} {
		if err := writeLine(line); err != nil {
			return fmt.Errorf("ToIcal: %w", err)
		}
	}

	for _, event := range cal.Events() {
		dtstart, err := icalutils.TimeToIcalDatetime(event.Start())
		if err != nil {
			return fmt.Errorf("ToIcal: event %q: %w", event.Name(), err)
		}
		for _, line := range []string{
			"BEGIN:VEVENT",
			"UID:" + model.EventRecordID(event),
			"DTSTAMP:" + dtstamp,
			"DTSTART:" + dtstart,
			"DURATION:" + icalutils.MinutesToIcalDuration(event.DurationMinutes()),
			"SUMMARY:" + escapeText(event.Name()),
			"END:VEVENT",
		} {
			if err := writeLine(line); err != nil {
				return fmt.Errorf("ToIcal: %w", err)
			}
		}
	}

	if err := writeLine("END:VCALENDAR"); err != nil {
		return fmt.Errorf("ToIcal: %w", err)
	}
	return nil
}

// Unique id for a one-off export, e.g. a download file name
func NewExportID() string {
	return uuid.NewString()
}
