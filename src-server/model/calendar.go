package model

import (
	"strings"
	"sync"
)

// Calendar groups events by month. Each bucket is kept sorted by start time
// and a month only has a bucket while it holds at least one event.
//
// Every exported method holds the calendar lock for its whole run, so the
// aggregate queries always see a consistent snapshot.
type Calendar struct {
	mu      sync.Mutex
	buckets [12][]Event
}

func NewCalendar() *Calendar {
	return &Calendar{}
}

// Add an event to its month, keeping the bucket ordered by start time.
// The event goes right before the first event that does not start earlier
// than it, or at the end when there is none.
func (c *Calendar) AddEvent(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(e)
}

func (c *Calendar) add(e Event) {
	if !e.month.Valid() {
		return
	}
	i := e.month.index()
	bucket := c.buckets[i]

	pos := len(bucket)
	for j, existing := range bucket {
		if !existing.Before(e) {
			pos = j
			break
		}
	}

	bucket = append(bucket, Event{})
	copy(bucket[pos+1:], bucket[pos:])
	bucket[pos] = e
	c.buckets[i] = bucket
}

// Number of events in the month, 0 when the month has no bucket
func (c *Calendar) TotalEventsInMonth(m Month) int {
	if !m.Valid() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets[m.index()])
}

// Every month tied at the largest bucket size, in calendar order.
// An empty calendar yields an empty slice.
func (c *Calendar) MonthsWithMostEvents() []Month {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Month, 0)
	maxSize := 0
	for i, bucket := range c.buckets {
		switch size := len(bucket); {
		case size == 0:
			continue
		case size > maxSize:
			maxSize = size
			result = append(result[:0], Month(i+1))
		case size == maxSize:
			result = append(result, Month(i+1))
		}
	}
	return result
}

// Name of the event with the longest duration; the first one found in
// month then chronological order wins a tie. Empty when there are no events.
func (c *Calendar) LongestEvent() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := ""
	longest := -1
	for _, bucket := range c.buckets {
		for _, e := range bucket {
			if e.durationMinutes > longest {
				longest = e.durationMinutes
				name = e.name
			}
		}
	}
	return name
}

// Remove every event on the given weekday (1 Monday .. 7 Sunday) from the
// listed months and return how many were removed. Months without events are
// skipped and a month left empty loses its bucket.
func (c *Calendar) CancelEvents(months []Month, weekday int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, m := range months {
		if !m.Valid() {
			continue
		}
		i := m.index()
		bucket := c.buckets[i]
		if len(bucket) == 0 {
			continue
		}

		kept := bucket[:0]
		for _, e := range bucket {
			if e.weekday == weekday {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		clear(bucket[len(kept):])

		if len(kept) == 0 {
			c.buckets[i] = nil
			continue
		}
		c.buckets[i] = kept
	}
	return removed
}

// Drop every event and add the given ones again.
func (c *Calendar) Replace(events []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = [12][]Event{}
	for _, e := range events {
		c.add(e)
	}
}

// Visit each month that has events, in calendar order. fn receives a copy
// of the bucket and may keep it.
func (c *Calendar) Each(fn func(Month, []Event)) {
	c.mu.Lock()
	snapshot := c.snapshot()
	c.mu.Unlock()

	for i, bucket := range snapshot {
		if len(bucket) == 0 {
			continue
		}
		fn(Month(i+1), bucket)
	}
}

func (c *Calendar) snapshot() [12][]Event {
	var out [12][]Event
	for i, bucket := range c.buckets {
		if len(bucket) == 0 {
			continue
		}
		out[i] = append([]Event(nil), bucket...)
	}
	return out
}

// Detached copy of the calendar, taken under one lock. Queries on the copy
// agree with each other even while the original keeps changing.
func (c *Calendar) Clone() *Calendar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Calendar{buckets: c.snapshot()}
}

// Months that currently have a bucket
func (c *Calendar) Months() []Month {
	months := make([]Month, 0)
	c.Each(func(m Month, _ []Event) {
		months = append(months, m)
	})
	return months
}

// All events, month by month, each month in chronological order
func (c *Calendar) Events() []Event {
	events := make([]Event, 0)
	c.Each(func(_ Month, bucket []Event) {
		events = append(events, bucket...)
	})
	return events
}

func (c *Calendar) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, bucket := range c.buckets {
		total += len(bucket)
	}
	return total
}

// Text dump: one line per month holding events, the month name followed by
// its ordered bucket.
func (c *Calendar) String() string {
	var sb strings.Builder
	c.Each(func(m Month, bucket []Event) {
		sb.WriteString(m.String())
		sb.WriteString("\t[")
		for i, e := range bucket {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteString("]\n")
	})
	return sb.String()
}
