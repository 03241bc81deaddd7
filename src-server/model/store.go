package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// Build a calendar from every stored event.
func LoadCalendar(ctx context.Context, db bun.IDB) (*Calendar, error) {
	events, err := LoadEvents(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("LoadCalendar: %w", err)
	}
	cal := NewCalendar()
	for _, e := range events {
		cal.AddEvent(e)
	}
	return cal, nil
}

func LoadEvents(ctx context.Context, db bun.IDB) ([]Event, error) {
	records := make([]EventRecord, 0)
	if err := db.NewSelect().
		Model(&records).
		Order("start_date ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("LoadEvents: %w", err)
	}
	events := make([]Event, 0, len(records))
	for _, record := range records {
		e, err := record.ToEvent()
		if err != nil {
			return nil, fmt.Errorf("LoadEvents: record %s: %w", record.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// Make the given events the only ones stored for source. Rows previously
// imported from source are dropped and the events upserted, in one
// transaction.
func SaveEvents(ctx context.Context, db *bun.DB, source string, events []Event) error {
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*EventRecord)(nil)).
			Where("source = ?", source).
			Exec(ctx); err != nil {
			return err
		}
		for _, e := range events {
			record := NewEventRecord(e)
			record.Source = source
			if err := record.Upsert(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("SaveEvents: %w", err)
	}
	return nil
}

// Delete the stored events a (*Calendar).CancelEvents call with the same
// arguments removes from memory. Returns the number of deleted rows.
func DeleteEvents(ctx context.Context, db bun.IDB, months []Month, weekday int) (int, error) {
	monthNumbers := make([]int, 0, len(months))
	for _, m := range months {
		if m.Valid() {
			monthNumbers = append(monthNumbers, int(m))
		}
	}
	if len(monthNumbers) == 0 {
		return 0, nil
	}

	res, err := db.NewDelete().
		Model((*EventRecord)(nil)).
		Where("month IN (?)", bun.In(monthNumbers)).
		Where("weekday = ?", weekday).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("DeleteEvents: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteEvents: %w", err)
	}
	return int(affected), nil
}
