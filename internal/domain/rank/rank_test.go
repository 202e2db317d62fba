package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stringIdentity(s string) string { return s }

func TestTopK_OrderAndBound(t *testing.T) {
	entries := []Entry[string]{
		{Item: "c", Metric: 10, Secondary: 1},
		{Item: "a", Metric: 30, Secondary: 0},
		{Item: "b", Metric: 20, Secondary: 5},
		{Item: "d", Metric: 5, Secondary: 9},
	}

	got := TopK(entries, 3, stringIdentity)

	assert.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Item)
	assert.Equal(t, "b", got[1].Item)
	assert.Equal(t, "c", got[2].Item)

	// metrics are non-increasing
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Metric, got[i].Metric)
	}
}

func TestTopK_SecondaryBreaksMetricTies(t *testing.T) {
	entries := []Entry[string]{
		{Item: "low", Metric: 10, Secondary: 1},
		{Item: "high", Metric: 10, Secondary: 7},
	}

	got := TopK(entries, 2, stringIdentity)

	assert.Equal(t, "high", got[0].Item)
	assert.Equal(t, "low", got[1].Item)
}

func TestTopK_IdentityBreaksFullTies(t *testing.T) {
	entries := []Entry[string]{
		{Item: "zeta", Metric: 10, Secondary: 3},
		{Item: "alpha", Metric: 10, Secondary: 3},
		{Item: "mid", Metric: 10, Secondary: 3},
	}

	got := TopK(entries, 3, stringIdentity)

	assert.Equal(t, "alpha", got[0].Item)
	assert.Equal(t, "mid", got[1].Item)
	assert.Equal(t, "zeta", got[2].Item)
}

func TestTopK_EmptyAndNonPositiveN(t *testing.T) {
	assert.Empty(t, TopK(nil, 5, stringIdentity))
	assert.Empty(t, TopK([]Entry[string]{{Item: "a", Metric: 1}}, 0, stringIdentity))
}

func TestTopK_DoesNotMutateInput(t *testing.T) {
	entries := []Entry[string]{
		{Item: "b", Metric: 1},
		{Item: "a", Metric: 2},
	}

	_ = TopK(entries, 2, stringIdentity)

	assert.Equal(t, "b", entries[0].Item)
	assert.Equal(t, "a", entries[1].Item)
}

func TestFromMap(t *testing.T) {
	metrics := map[string]int64{"a": 10, "b": 20}
	secondary := map[string]int64{"a": 3}

	got := TopK(FromMap(metrics, secondary), 10, stringIdentity)

	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Item)
	assert.Equal(t, int64(0), got[0].Secondary)
	assert.Equal(t, "a", got[1].Item)
	assert.Equal(t, int64(3), got[1].Secondary)
}
