// Package rank provides deterministic top-k ranking shared by all aggregations.
package rank

import "sort"

// Entry is a ranked item with its primary metric and a secondary tiebreak
// metric. Metrics are int64 so both counts and millisecond durations fit.
type Entry[T any] struct {
	Item      T
	Metric    int64
	Secondary int64
}

// TopK sorts entries by metric descending, then secondary descending, then
// item identity ascending, and truncates to at most n entries. The identity
// function must be injective over the entries for the result to be
// deterministic.
func TopK[T any](entries []Entry[T], n int, identity func(T) string) []Entry[T] {
	if n <= 0 {
		return nil
	}

	sorted := make([]Entry[T], len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Metric != sorted[j].Metric {
			return sorted[i].Metric > sorted[j].Metric
		}
		if sorted[i].Secondary != sorted[j].Secondary {
			return sorted[i].Secondary > sorted[j].Secondary
		}
		return identity(sorted[i].Item) < identity(sorted[j].Item)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FromMap converts a metric map into unsorted entries, applying a secondary
// metric lookup. Missing secondary values default to zero.
func FromMap[T comparable](metrics map[T]int64, secondary map[T]int64) []Entry[T] {
	entries := make([]Entry[T], 0, len(metrics))
	for item, metric := range metrics {
		entries = append(entries, Entry[T]{
			Item:      item,
			Metric:    metric,
			Secondary: secondary[item],
		})
	}
	return entries
}
