// Package forecast derives display data from a provider forecast
// list: one representative entry per calendar day and an icon per
// condition. Everything here is a pure function of its inputs.
package forecast

import (
	"time"

	"weatherlookup/internal/models"
)

// dateLayout renders dd/mm/yyyy, the en-GB format the page shows.
const dateLayout = "02/01/2006"

const outlookDays = 5

// DailyEntry is one provider entry chosen to represent a calendar day.
type DailyEntry struct {
	Date string `json:"date"`
	models.ForecastEntry
}

// Daily groups the 3-hour entries by calendar date (UTC) and keeps,
// per date, the entry whose hour is closest to midday. Ties keep the
// first entry seen, the comparison is strictly-closer-than. Dates come
// out in first-seen order, which is chronological for provider-ordered
// input. Grouping an already one-per-date list returns it unchanged.
func Daily(entries []models.ForecastEntry) []DailyEntry {
	byDate := make(map[string]models.ForecastEntry, len(entries))
	var order []string

	for _, e := range entries {
		date := time.Unix(e.Dt, 0).UTC().Format(dateLayout)

		current, seen := byDate[date]
		if !seen {
			byDate[date] = e
			order = append(order, date)
			continue
		}
		if middayDistance(e) < middayDistance(current) {
			byDate[date] = e
		}
	}

	daily := make([]DailyEntry, 0, len(order))
	for _, date := range order {
		daily = append(daily, DailyEntry{Date: date, ForecastEntry: byDate[date]})
	}
	return daily
}

// Outlook returns the multi-day view: the first grouped date is
// assumed to be today and skipped, then up to the next 5 dates.
func Outlook(entries []models.ForecastEntry) []DailyEntry {
	daily := Daily(entries)
	if len(daily) <= 1 {
		return nil
	}

	daily = daily[1:]
	if len(daily) > outlookDays {
		daily = daily[:outlookDays]
	}
	return daily
}

func middayDistance(e models.ForecastEntry) int {
	h := time.Unix(e.Dt, 0).UTC().Hour()
	d := h - 12
	if d < 0 {
		d = -d
	}
	return d
}
