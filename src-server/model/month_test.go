package model_test

import (
	"agenda/src-server/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	for input, want := range map[string]model.Month{
		"january":   model.January,
		" March ":   model.March,
		"DECEMBER":  model.December,
		"5":         model.May,
		"12":        model.December,
		"September": model.September,
	} {
		got, err := model.ParseMonth(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "0", "13", "Smarch"} {
		_, err := model.ParseMonth(input)
		assert.Error(t, err, input)
	}
}

func TestParseMonths(t *testing.T) {
	months, err := model.ParseMonths("FEBRUARY, march,,5,june")
	require.NoError(t, err)
	assert.Equal(t, []model.Month{model.February, model.March, model.May, model.June}, months)

	_, err = model.ParseMonths("FEBRUARY,nope")
	assert.Error(t, err)
}

func TestMonthOrder(t *testing.T) {
	months := model.AllMonths()
	require.Len(t, months, 12)
	for i := 1; i < len(months); i++ {
		assert.Less(t, months[i-1], months[i])
	}
	assert.Equal(t, "JANUARY", model.January.String())
	assert.Equal(t, "Month(0)", model.Month(0).String())
}

func TestNewEvent(t *testing.T) {
	// 2024-03-10 is a Sunday
	start := time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC)
	e := model.NewEvent("Concert", start, 150)

	assert.Equal(t, model.March, e.Month())
	assert.Equal(t, 7, e.Weekday())
	assert.Equal(t, 150, e.DurationMinutes())
	assert.Equal(t, "Concert", e.Name())
	assert.Equal(t, start.Add(150*time.Minute), e.End())

	monday := model.NewEvent("Mon", start.AddDate(0, 0, 1), 10)
	assert.Equal(t, 1, monday.Weekday())
	assert.True(t, e.Before(monday))
	assert.False(t, monday.Before(e))
	assert.False(t, e.Before(e))

	assert.Equal(t, 0, model.NewEvent("neg", start, -5).DurationMinutes())
}
