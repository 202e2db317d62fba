package analysis

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

func TestFilterWindow_TrailingDays(t *testing.T) {
	store := event.NewStore([]event.PlayEvent{
		play("old", "X", "2023-06-01T10:00:00Z", time.Minute),
		play("in", "X", "2024-01-10T10:00:00Z", time.Minute),
		play("edge", "X", "2023-12-02T23:59:00Z", time.Minute),
		play("last", "X", "2024-01-31T08:00:00Z", time.Minute),
	})

	filtered, window, err := FilterWindow(store, WindowSpec{HistoryDays: 60})

	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-31T00:00:00Z"), window.End)
	assert.Equal(t, ts("2023-12-02T00:00:00Z"), window.Start)
	require.Len(t, filtered, 3)
	for _, e := range filtered {
		d := dateOf(e.StartedAt)
		assert.False(t, d.Before(window.Start))
		assert.False(t, d.After(window.End))
	}
}

func TestFilterWindow_ExplicitLastDate(t *testing.T) {
	store := event.NewStore([]event.PlayEvent{
		play("a", "X", "2024-01-10T10:00:00Z", time.Minute),
		play("b", "X", "2024-03-10T10:00:00Z", time.Minute),
	})

	last := ts("2024-02-01T00:00:00Z")
	filtered, window, err := FilterWindow(store, WindowSpec{HistoryDays: 30, LastDate: &last})

	require.NoError(t, err)
	assert.Equal(t, last, window.End)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Track)
}

func TestFilterWindow_ConfigurationErrors(t *testing.T) {
	store := event.NewStore([]event.PlayEvent{
		play("a", "X", "2024-01-10T10:00:00Z", time.Minute),
	})

	tests := []struct {
		name string
		spec WindowSpec
	}{
		{
			name: "zero history days",
			spec: WindowSpec{HistoryDays: 0},
		},
		{
			name: "negative history days",
			spec: WindowSpec{HistoryDays: -7},
		},
		{
			name: "last date before earliest event",
			spec: func() WindowSpec {
				last := ts("2023-12-01T00:00:00Z")
				return WindowSpec{HistoryDays: 30, LastDate: &last}
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := FilterWindow(store, tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestFilterWindow_EmptyStore(t *testing.T) {
	filtered, _, err := FilterWindow(event.NewStore(nil), WindowSpec{HistoryDays: 30})

	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterWindow_NaturallyEmptyWindowIsValid(t *testing.T) {
	store := event.NewStore([]event.PlayEvent{
		play("a", "X", "2024-01-10T10:00:00Z", time.Minute),
	})

	// An explicit last date after all events with a short span yields a
	// window that covers nothing, which is valid.
	last := ts("2024-06-01T00:00:00Z")
	filtered, _, err := FilterWindow(store, WindowSpec{HistoryDays: 7, LastDate: &last})

	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterWindow_PreservesOrder(t *testing.T) {
	store := event.NewStore([]event.PlayEvent{
		play("b", "X", "2024-01-11T10:00:00Z", time.Minute),
		play("a", "X", "2024-01-10T10:00:00Z", time.Minute),
		play("c", "X", "2024-01-12T10:00:00Z", time.Minute),
	})

	filtered, _, err := FilterWindow(store, WindowSpec{HistoryDays: 30})

	require.NoError(t, err)
	require.Len(t, filtered, 3)
	assert.Equal(t, "a", filtered[0].Track)
	assert.Equal(t, "b", filtered[1].Track)
	assert.Equal(t, "c", filtered[2].Track)
}
