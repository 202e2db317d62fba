package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

func TestMonthlyHighlights(t *testing.T) {
	events := []event.PlayEvent{
		play("a", "X", "2024-01-05T10:00:00Z", 10*time.Minute),
		play("b", "Y", "2024-01-10T10:00:00Z", 5*time.Minute),
		play("b", "Y", "2024-02-01T10:00:00Z", 3*time.Minute),
	}

	got := MonthlyHighlights(events)

	require.Len(t, got, 2)

	jan := got[0]
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, "a by X", jan.FavoriteTrack)
	assert.Equal(t, 10*time.Minute, jan.FavoritePlaytime)
	assert.Equal(t, 2, jan.UniqueArtists)
	assert.Equal(t, 2, jan.UniqueTracks)

	feb := got[1]
	assert.Equal(t, "2024-02", feb.Month)
	assert.Equal(t, "b by Y", feb.FavoriteTrack)
	assert.Equal(t, 1, feb.UniqueArtists)
	assert.Equal(t, 1, feb.UniqueTracks)
}

func TestMonthlyHighlights_FavoriteTieBreak(t *testing.T) {
	// Equal playtime: more plays wins; full tie falls back to identity.
	events := []event.PlayEvent{
		play("solo", "X", "2024-01-05T10:00:00Z", 4*time.Minute),
		play("double", "Y", "2024-01-06T10:00:00Z", 2*time.Minute),
		play("double", "Y", "2024-01-07T10:00:00Z", 2*time.Minute),
	}

	got := MonthlyHighlights(events)

	require.Len(t, got, 1)
	assert.Equal(t, "double by Y", got[0].FavoriteTrack)
}

func TestMonthlyHighlights_Empty(t *testing.T) {
	assert.Empty(t, MonthlyHighlights(nil))
}

func TestUniqueCounts(t *testing.T) {
	events := []event.PlayEvent{
		play("a", "X", "2024-01-05T10:00:00Z", time.Minute),
		play("a", "X", "2024-02-05T10:00:00Z", time.Minute),
		play("b", "X", "2024-01-06T10:00:00Z", time.Minute),
		play("c", "Y", "2024-01-07T10:00:00Z", time.Minute),
	}

	artists, tracks := UniqueCounts(events)

	assert.Equal(t, 2, artists)
	assert.Equal(t, 3, tracks)

	artists, tracks = UniqueCounts(nil)
	assert.Zero(t, artists)
	assert.Zero(t, tracks)
}
