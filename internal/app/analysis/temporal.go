package analysis

import (
	"time"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

// HourHistogram holds total playtime per UTC hour of day. Hours without any
// plays stay zero-valued.
type HourHistogram [24]time.Duration

// MonthHistogram holds playtime per month of year, index 0 = January.
type MonthHistogram [12]time.Duration

// PlaytimeByHour buckets total playtime by each event's start hour.
func PlaytimeByHour(events []event.PlayEvent) HourHistogram {
	var hist HourHistogram
	for _, e := range events {
		hist[e.StartedAt.UTC().Hour()] += e.Played
	}
	return hist
}

// PlaytimeByMonth buckets total playtime by month of year across all years.
func PlaytimeByMonth(events []event.PlayEvent) MonthHistogram {
	var hist MonthHistogram
	for _, e := range events {
		hist[int(e.StartedAt.UTC().Month())-1] += e.Played
	}
	return hist
}

// AveragePlaytimeByMonth averages each month's playtime across the years in
// which that month saw any listening. Months absent from the data stay zero.
func AveragePlaytimeByMonth(events []event.PlayEvent) MonthHistogram {
	type yearMonth struct {
		year  int
		month int
	}

	totals := make(map[yearMonth]time.Duration)
	for _, e := range events {
		t := e.StartedAt.UTC()
		totals[yearMonth{year: t.Year(), month: int(t.Month()) - 1}] += e.Played
	}

	var sums MonthHistogram
	var years [12]int
	for ym, total := range totals {
		sums[ym.month] += total
		years[ym.month]++
	}

	var avg MonthHistogram
	for m := range avg {
		if years[m] > 0 {
			avg[m] = sums[m] / time.Duration(years[m])
		}
	}
	return avg
}
