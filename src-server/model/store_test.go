package model_test

import (
	"agenda/src-server/model"
	"context"
	"database/sql"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	require.NoError(t, model.CreateSchema(context.Background(), db))
	return db
}

func TestSaveAndLoadCalendar(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	events := []model.Event{
		model.NewEvent("Standup", time.Date(2024, time.January, 1, 9, 0, 0, 0, madrid), 30),
		model.NewEvent("Retro", time.Date(2024, time.January, 1, 8, 0, 0, 0, madrid), 60),
		// 00:30 in Madrid is still the previous day and month in UTC
		model.NewEvent("Midnight", time.Date(2024, time.March, 1, 0, 30, 0, 0, madrid), 15),
	}
	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", events))

	cal, err := model.LoadCalendar(ctx, db)
	require.NoError(t, err)

	assert.Equal(t, 2, cal.TotalEventsInMonth(model.January))
	assert.Equal(t, 1, cal.TotalEventsInMonth(model.March))
	assert.Equal(t, 0, cal.TotalEventsInMonth(model.February))
	assert.Equal(t, []string{"Retro", "Standup", "Midnight"}, names(cal.Events()))
	assert.Equal(t, 5, cal.Events()[2].Weekday())
}

func TestSaveEventsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	e := model.NewEvent("Standup", at(time.January, 1, 9, 0), 30)
	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", []model.Event{e}))
	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", []model.Event{e}))

	count, err := db.NewSelect().Model((*model.EventRecord)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveEventsReplacesSourceRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", []model.Event{
		model.NewEvent("Standup", at(time.January, 1, 9, 0), 30),
		model.NewEvent("Retro", at(time.January, 2, 8, 0), 60),
	}))
	require.NoError(t, model.SaveEvents(ctx, db, "events.ics", []model.Event{
		model.NewEvent("Launch", at(time.March, 6, 10, 0), 120),
	}))
	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", []model.Event{
		model.NewEvent("Standup", at(time.January, 1, 10, 0), 30),
	}))

	cal, err := model.LoadCalendar(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, cal.TotalEventsInMonth(model.January))
	assert.Equal(t, 1, cal.TotalEventsInMonth(model.March))
	assert.Equal(t, 10, cal.Events()[0].Start().Hour())
}

func TestSaveEventsAtEpoch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	epoch := model.NewEvent("Epoch", time.Unix(0, 0).UTC(), 1)
	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", []model.Event{epoch}))

	events, err := model.LoadEvents(ctx, db)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Start().Equal(time.Unix(0, 0)))
	assert.Equal(t, 4, events[0].Weekday())
}

func TestDeleteEventsMatchesCancelEvents(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	events := []model.Event{
		model.NewEvent("Standup", at(time.January, 1, 9, 0), 30),
		model.NewEvent("Retro", at(time.January, 1, 8, 0), 60),
		model.NewEvent("Sat", at(time.March, 2, 10, 0), 60),
		model.NewEvent("Tue", at(time.March, 5, 10, 0), 60),
	}
	require.NoError(t, model.SaveEvents(ctx, db, "events.txt", events))

	cal := model.NewCalendar()
	for _, e := range events {
		cal.AddEvent(e)
	}

	months := []model.Month{model.January, model.December}
	inMemory := cal.CancelEvents(months, 1)
	stored, err := model.DeleteEvents(ctx, db, months, 1)
	require.NoError(t, err)
	assert.Equal(t, inMemory, stored)

	reloaded, err := model.LoadCalendar(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, cal.String(), reloaded.String())

	stored, err = model.DeleteEvents(ctx, db, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, stored)
}

func TestEventRecordUpsertValidation(t *testing.T) {
	db := newTestDB(t)
	for _, record := range []model.EventRecord{
		{Name: "x", StartUnixUTC: 1, Location: "UTC"},
		{ID: "id", StartUnixUTC: 1, Location: "UTC"},
		{ID: "id", Name: "x", StartUnixUTC: 1},
		{ID: "id", Name: "x", StartUnixUTC: 1, Location: "UTC", DurationMinutes: -1},
	} {
		assert.Error(t, record.Upsert(context.Background(), db))
	}
}

func TestEventRecordID(t *testing.T) {
	a := model.NewEvent("Standup", at(time.January, 1, 9, 0), 30)
	b := model.NewEvent("Standup", at(time.January, 1, 9, 0), 45)
	c := model.NewEvent("Standup", at(time.January, 2, 9, 0), 30)

	assert.Equal(t, model.EventRecordID(a), model.EventRecordID(b))
	assert.NotEqual(t, model.EventRecordID(a), model.EventRecordID(c))
}
