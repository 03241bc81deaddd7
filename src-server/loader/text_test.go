package loader

import (
	"agenda/src-server/model"
	"agenda/src-server/utils"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromText(t *testing.T) {
	input := `# name;date;time;duration
team retro.;15/01/2024;08:00;60

Standup ; 15/01/2024 ; 09:00 ; 15
Carnival;10/02/2024;18:30;240
`
	events, err := FromText(strings.NewReader(input), time.UTC, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Team Retro", events[0].Name())
	assert.Equal(t, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC), events[0].Start())
	assert.Equal(t, 60, events[0].DurationMinutes())
	assert.Equal(t, 1, events[0].Weekday())

	assert.Equal(t, "Standup", events[1].Name())
	assert.Equal(t, model.February, events[2].Month())
	assert.Equal(t, 6, events[2].Weekday())
}

func TestFromTextErrors(t *testing.T) {
	for name, input := range map[string]string{
		"fields":   "only;three;fields",
		"name":     " ;15/01/2024;08:00;60",
		"date":     "Retro;2024-01-15;08:00;60",
		"duration": "Retro;15/01/2024;08:00;an hour",
		"negative": "Retro;15/01/2024;08:00;-5",
	} {
		_, err := FromText(strings.NewReader("# header\n"+input), time.UTC, nil)
		require.Error(t, err, name)

		var customErr *utils.CustomError
		require.True(t, errors.As(err, &customErr), name)
		assert.Equal(t, 2, customErr.Arg("line"), name)
	}
}

func TestFromTextNaturalDate(t *testing.T) {
	// a Wednesday
	now := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	events, err := fromText(
		strings.NewReader("Dentist;next friday;10am;45\n"),
		time.UTC,
		utils.NewWhenParser(),
		now,
	)
	require.NoError(t, err)
	require.Len(t, events, 1)

	start := events[0].Start()
	assert.Equal(t, time.Friday, start.Weekday())
	assert.Equal(t, 10, start.Hour())
	assert.True(t, start.After(now))
	assert.Equal(t, 5, events[0].Weekday())
}

func TestFromTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.txt")
	require.NoError(t, os.WriteFile(path, []byte("Retro;15/01/2024;08:00;60\n"), 0o644))

	events, err := FromTextFile(path, time.UTC, nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = FromTextFile(filepath.Join(t.TempDir(), "missing.txt"), time.UTC, nil)
	assert.Error(t, err)
}
