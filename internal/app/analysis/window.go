package analysis

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

// WindowSpec selects the trailing analysis window. LastDate overrides the
// auto-detected latest event date when set.
type WindowSpec struct {
	HistoryDays int
	LastDate    *time.Time
}

// Window is the effective day-granularity window, inclusive on both ends.
type Window struct {
	Start time.Time
	End   time.Time
}

// dateOf truncates an instant to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterWindow returns the subsequence of stored events whose start date lies
// inside the window, preserving order. A naturally empty result is valid;
// only contradictory configuration fails.
func FilterWindow(store *event.Store, spec WindowSpec) ([]event.PlayEvent, Window, error) {
	if spec.HistoryDays <= 0 {
		return nil, Window{}, errors.Wrapf(ErrConfiguration, "history days must be positive, got %d", spec.HistoryDays)
	}

	var last time.Time
	switch {
	case spec.LastDate != nil:
		last = dateOf(*spec.LastDate)
		if earliest, ok := store.Earliest(); ok && last.Before(dateOf(earliest)) {
			return nil, Window{}, errors.Wrapf(ErrConfiguration,
				"last date %s precedes earliest event %s",
				last.Format(time.DateOnly), dateOf(earliest).Format(time.DateOnly))
		}
	default:
		latest, ok := store.Latest()
		if !ok {
			return nil, Window{}, nil
		}
		last = dateOf(latest)
	}

	window := Window{
		Start: last.AddDate(0, 0, -spec.HistoryDays),
		End:   last,
	}

	var filtered []event.PlayEvent
	for _, e := range store.Events() {
		d := dateOf(e.StartedAt)
		if !d.Before(window.Start) && !d.After(window.End) {
			filtered = append(filtered, e)
		}
	}

	return filtered, window, nil
}
