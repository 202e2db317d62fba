package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

func TestNewPair_Normalizes(t *testing.T) {
	assert.Equal(t, NewPair("a", "b"), NewPair("b", "a"))
	assert.Equal(t, "a + b", NewPair("b", "a").ID())
}

func TestCoListenCounts_SessionGranularity(t *testing.T) {
	// Spec scenario: A and B share a session, the late A play is alone.
	events := []event.PlayEvent{
		play("trackA", "X", "2024-01-01T10:00:00Z", 200*time.Second),
		play("trackB", "X", "2024-01-01T10:05:00Z", 180*time.Second),
		play("trackA", "X", "2024-01-01T23:00:00Z", 200*time.Second),
	}

	counts := CoListenCounts(events, GranularitySession, 10*time.Minute)

	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[NewPair("trackA by X", "trackB by X")])
}

func TestCoListenCounts_OncePerSessionDespiteRepeats(t *testing.T) {
	// A looping pair within one session counts once, not per play.
	events := []event.PlayEvent{
		play("a", "X", "2024-01-01T10:00:00Z", time.Minute),
		play("b", "X", "2024-01-01T10:01:00Z", time.Minute),
		play("a", "X", "2024-01-01T10:02:00Z", time.Minute),
		play("b", "X", "2024-01-01T10:03:00Z", time.Minute),
	}

	counts := CoListenCounts(events, GranularitySession, 10*time.Minute)

	assert.Equal(t, int64(1), counts[NewPair("a by X", "b by X")])
}

func TestCoListenCounts_SingleTrackSessionContributesNothing(t *testing.T) {
	events := []event.PlayEvent{
		play("a", "X", "2024-01-01T10:00:00Z", time.Minute),
		play("a", "X", "2024-01-01T10:02:00Z", time.Minute),
	}

	counts := CoListenCounts(events, GranularitySession, 10*time.Minute)

	assert.Empty(t, counts)
}

func TestCoListenCounts_SkippedPlaysDoNotParticipate(t *testing.T) {
	events := []event.PlayEvent{
		play("a", "X", "2024-01-01T10:00:00Z", time.Minute),
		skipped("b", "X", "2024-01-01T10:02:00Z"),
	}

	counts := CoListenCounts(events, GranularitySession, 10*time.Minute)

	assert.Empty(t, counts)
}

func TestCoListenCounts_DayGranularity(t *testing.T) {
	// Hours apart on the same day still pair under day granularity.
	events := []event.PlayEvent{
		play("a", "X", "2024-01-01T08:00:00Z", time.Minute),
		play("b", "X", "2024-01-01T22:00:00Z", time.Minute),
		play("a", "X", "2024-01-02T08:00:00Z", time.Minute),
		play("b", "X", "2024-01-02T22:00:00Z", time.Minute),
		play("c", "X", "2024-01-03T08:00:00Z", time.Minute),
	}

	counts := CoListenCounts(events, GranularityDay, time.Minute)

	assert.Equal(t, int64(2), counts[NewPair("a by X", "b by X")])
	assert.Len(t, counts, 1)
}

func TestTopPairs(t *testing.T) {
	counts := map[Pair]int64{
		NewPair("a", "b"): 3,
		NewPair("a", "c"): 5,
		NewPair("b", "c"): 3,
	}

	got := TopPairs(counts, 2)

	require.Len(t, got, 2)
	assert.Equal(t, NewPair("a", "c"), got[0].Item)
	// count tie broken by pair identity
	assert.Equal(t, NewPair("a", "b"), got[1].Item)
}

func TestNeighbors(t *testing.T) {
	counts := map[Pair]int64{
		NewPair("a", "b"): 3,
		NewPair("a", "c"): 5,
		NewPair("b", "c"): 7,
	}

	got := Neighbors(counts, "a", 5)

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Item)
	assert.Equal(t, int64(5), got[0].Metric)
	assert.Equal(t, "b", got[1].Item)

	assert.Empty(t, Neighbors(counts, "unknown", 5))
}
