package analysis

import (
	"time"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/rank"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/session"
)

// Granularity selects how events are grouped for co-listening detection.
type Granularity string

const (
	GranularitySession Granularity = "session"
	GranularityDay     Granularity = "day"
)

// Pair is an unordered pair of track identities, stored in lexicographic
// order so count(A,B) and count(B,A) are the same map entry.
type Pair struct {
	A string
	B string
}

// NewPair normalizes two track identities into a Pair.
func NewPair(x, y string) Pair {
	if x > y {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// ID returns the pair identity used for deterministic ranking.
func (p Pair) ID() string {
	return p.A + " + " + p.B
}

// Other returns the pair's counterpart of the given track, or "" when the
// track is not part of the pair.
func (p Pair) Other(track string) string {
	switch track {
	case p.A:
		return p.B
	case p.B:
		return p.A
	default:
		return ""
	}
}

// CoListenCounts counts, for every unordered pair of distinct tracks, the
// number of groups (sessions or calendar days) in which both appear. A pair
// counts once per group regardless of how often either track repeats within
// it, and skipped plays do not participate. Groups with a single distinct
// track contribute nothing.
func CoListenCounts(events []event.PlayEvent, g Granularity, sessionGap time.Duration) map[Pair]int64 {
	var groups [][]string
	switch g {
	case GranularityDay:
		groups = tracksByDay(events)
	default:
		for _, s := range session.Detect(events, sessionGap) {
			groups = append(groups, unskippedTracks(s.Events))
		}
	}

	counts := make(map[Pair]int64)
	for _, tracks := range groups {
		for i := 0; i < len(tracks); i++ {
			for j := i + 1; j < len(tracks); j++ {
				counts[NewPair(tracks[i], tracks[j])]++
			}
		}
	}
	return counts
}

// TopPairs ranks co-listening pairs by occurrence count.
func TopPairs(counts map[Pair]int64, n int) []rank.Entry[Pair] {
	return rank.TopK(rank.FromMap(counts, nil), n, Pair.ID)
}

// Neighbors ranks the tracks most often co-listened with the given track.
func Neighbors(counts map[Pair]int64, track string, n int) []rank.Entry[string] {
	neighbors := make(map[string]int64)
	for pair, count := range counts {
		if other := pair.Other(track); other != "" {
			neighbors[other] += count
		}
	}
	return rank.TopK(rank.FromMap(neighbors, nil), n, identity)
}

// unskippedTracks returns the distinct track identities of the unskipped
// events, in first-seen order.
func unskippedTracks(events []event.PlayEvent) []string {
	seen := make(map[string]struct{}, len(events))
	var tracks []string
	for _, e := range events {
		if e.Skipped {
			continue
		}
		id := e.TrackID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tracks = append(tracks, id)
	}
	return tracks
}

func tracksByDay(events []event.PlayEvent) [][]string {
	byDay := make(map[time.Time][]event.PlayEvent)
	var days []time.Time
	for _, e := range events {
		d := dateOf(e.StartedAt)
		if _, ok := byDay[d]; !ok {
			days = append(days, d)
		}
		byDay[d] = append(byDay[d], e)
	}

	groups := make([][]string, 0, len(days))
	for _, d := range days {
		groups = append(groups, unskippedTracks(byDay[d]))
	}
	return groups
}
