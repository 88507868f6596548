package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlookup/internal/models"
)

func entryAt(day, hour int, temp float64) models.ForecastEntry {
	ts := time.Date(2025, 7, day, hour, 0, 0, 0, time.UTC)
	return models.ForecastEntry{
		Dt:    ts.Unix(),
		DtTxt: ts.Format("2006-01-02 15:04:05"),
		Main:  models.EntryMain{Temp: temp},
	}
}

func TestDaily_PicksEntryClosestToMidday(t *testing.T) {
	entries := []models.ForecastEntry{
		entryAt(25, 3, 15.0),
		entryAt(25, 12, 22.0),
		entryAt(25, 21, 17.0),
	}

	daily := Daily(entries)

	require.Len(t, daily, 1)
	assert.Equal(t, "25/07/2025", daily[0].Date)
	assert.Equal(t, 22.0, daily[0].Main.Temp)
}

func TestDaily_TiesKeepFirstEntry(t *testing.T) {
	// 09:00 and 15:00 are equidistant from midday; the first seen wins.
	entries := []models.ForecastEntry{
		entryAt(25, 9, 18.0),
		entryAt(25, 15, 24.0),
	}

	daily := Daily(entries)

	require.Len(t, daily, 1)
	assert.Equal(t, 18.0, daily[0].Main.Temp)
}

func TestDaily_OnePerDateInChronologicalOrder(t *testing.T) {
	entries := []models.ForecastEntry{
		entryAt(25, 15, 20.0),
		entryAt(25, 18, 19.0),
		entryAt(26, 0, 14.0),
		entryAt(26, 12, 23.0),
		entryAt(27, 9, 21.0),
	}

	daily := Daily(entries)

	require.Len(t, daily, 3)
	assert.Equal(t, "25/07/2025", daily[0].Date)
	assert.Equal(t, "26/07/2025", daily[1].Date)
	assert.Equal(t, "27/07/2025", daily[2].Date)
	assert.Equal(t, 23.0, daily[1].Main.Temp)
}

func TestDaily_Idempotent(t *testing.T) {
	entries := []models.ForecastEntry{
		entryAt(25, 12, 22.0),
		entryAt(26, 12, 23.0),
		entryAt(27, 12, 24.0),
	}

	once := Daily(entries)
	require.Len(t, once, 3)

	again := make([]models.ForecastEntry, len(once))
	for i, d := range once {
		again[i] = d.ForecastEntry
	}

	assert.Equal(t, once, Daily(again))
}

func TestDaily_EmptyInput(t *testing.T) {
	assert.Empty(t, Daily(nil))
}

func TestOutlook_SkipsTodayAndCapsAtFiveDays(t *testing.T) {
	var entries []models.ForecastEntry
	for day := 20; day <= 27; day++ {
		entries = append(entries, entryAt(day, 12, float64(day)))
	}

	outlook := Outlook(entries)

	require.Len(t, outlook, 5)
	assert.Equal(t, "21/07/2025", outlook[0].Date)
	assert.Equal(t, "25/07/2025", outlook[4].Date)
}

func TestOutlook_SingleDayHasNoOutlook(t *testing.T) {
	entries := []models.ForecastEntry{entryAt(25, 12, 22.0)}
	assert.Empty(t, Outlook(entries))
}
