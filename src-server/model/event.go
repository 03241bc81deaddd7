package model

import (
	"fmt"
	"time"
)

// Date layout used for every human readable rendering of an event
const DisplayLayout = "02/01/2006 15:04"

// Event is a single, non-recurring calendar entry. The month and weekday
// are derived from the start time once, in NewEvent.
type Event struct {
	month           Month
	start           time.Time
	durationMinutes int
	name            string
	weekday         int
}

// Create a new event; negative durations are clamped to zero.
func NewEvent(name string, start time.Time, durationMinutes int) Event {
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	return Event{
		month:           MonthOf(start),
		start:           start,
		durationMinutes: durationMinutes,
		name:            name,
		weekday:         isoWeekday(start.Weekday()),
	}
}

// Monday is 1, Sunday is 7
func isoWeekday(wd time.Weekday) int {
	return (int(wd)+6)%7 + 1
}

// #region Getters

func (e Event) Month() Month {
	return e.month
}

func (e Event) Start() time.Time {
	return e.start
}

func (e Event) DurationMinutes() int {
	return e.durationMinutes
}

func (e Event) Name() string {
	return e.name
}

func (e Event) Weekday() int {
	return e.weekday
}

// #endregion

func (e Event) End() time.Time {
	return e.start.Add(time.Duration(e.durationMinutes) * time.Minute)
}

// Before reports whether e starts strictly earlier than other.
func (e Event) Before(other Event) bool {
	return e.start.Before(other.start)
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s (%d min)", e.name, e.start.Format(DisplayLayout), e.durationMinutes)
}
