package model

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Namespace for the deterministic record ids
var eventRecordNamespace = uuid.MustParse("6f1c7b52-8a3e-4d0b-9c55-2b8e0f4a91d7")

// EventRecord is the stored form of an Event.
type EventRecord struct {
	bun.BaseModel `bun:"table:events"`

	ID              string `bun:"id,pk"`                    // required
	Name            string `bun:"name,notnull"`             // required
	StartUnixUTC    int64  `bun:"start_date,notnull"`       // required
	Location        string `bun:"location,notnull"`         // IANA name of the start time's zone
	DurationMinutes int    `bun:"duration_minutes,notnull"` // required
	Month           int    `bun:"month,notnull"`            // 1..12, derived
	Weekday         int    `bun:"weekday,notnull"`          // 1..7, derived
	Source          string `bun:"source,notnull"`           // path of the file the event was imported from

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

// The same name starting at the same instant always maps to the same id, so
// importing a file twice does not duplicate events.
func EventRecordID(e Event) string {
	key := e.name + "|" + strconv.FormatInt(e.start.Unix(), 10)
	return uuid.NewSHA1(eventRecordNamespace, []byte(key)).String()
}

func NewEventRecord(e Event) EventRecord {
	return EventRecord{
		ID:              EventRecordID(e),
		Name:            e.name,
		StartUnixUTC:    e.start.UTC().Unix(),
		Location:        e.start.Location().String(),
		DurationMinutes: e.durationMinutes,
		Month:           int(e.month),
		Weekday:         e.weekday,
	}
}

// Rebuild the event in the zone it was stored with. Month and weekday are
// derived again from the start time, not read from the row.
func (r *EventRecord) ToEvent() (Event, error) {
	loc, err := time.LoadLocation(r.Location)
	if err != nil {
		return Event{}, fmt.Errorf("(*EventRecord).ToEvent: %w", err)
	}
	return NewEvent(r.Name, time.Unix(r.StartUnixUTC, 0).In(loc), r.DurationMinutes), nil
}

func (r *EventRecord) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("(*EventRecord).Upsert: event id is blank")
	case r.Name == "":
		return fmt.Errorf("(*EventRecord).Upsert: name is blank")
	case r.Location == "":
		return fmt.Errorf("(*EventRecord).Upsert: location is blank")
	case r.DurationMinutes < 0:
		return fmt.Errorf("(*EventRecord).Upsert: duration is negative")
	}
	now := time.Now().UTC().Unix()
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	if _, err := db.NewInsert().
		Model(r).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("start_date = EXCLUDED.start_date").
		Set("location = EXCLUDED.location").
		Set("duration_minutes = EXCLUDED.duration_minutes").
		Set("month = EXCLUDED.month").
		Set("weekday = EXCLUDED.weekday").
		Set("source = EXCLUDED.source").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventRecord).Upsert: %w", err)
	}
	return nil
}
