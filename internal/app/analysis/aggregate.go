package analysis

import (
	"fmt"
	"time"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/rank"
)

// GroupKey selects the grouping dimension for ranking operations.
type GroupKey string

const (
	GroupByTrack  GroupKey = "track"
	GroupByArtist GroupKey = "artist"
)

func groupID(e event.PlayEvent, key GroupKey) string {
	if key == GroupByArtist {
		return e.Artist
	}
	return e.TrackID()
}

// TotalListeningTime sums the played duration over all events.
func TotalListeningTime(events []event.PlayEvent) time.Duration {
	var total time.Duration
	for _, e := range events {
		total += e.Played
	}
	return total
}

// TopByPlaytime ranks groups by total played duration. The secondary metric
// is the play count, so equal playtimes favour the more-played group.
func TopByPlaytime(events []event.PlayEvent, key GroupKey, n int) []rank.Entry[string] {
	playtime := make(map[string]int64)
	plays := make(map[string]int64)
	for _, e := range events {
		id := groupID(e, key)
		playtime[id] += e.Played.Milliseconds()
		plays[id]++
	}
	return rank.TopK(rank.FromMap(playtime, plays), n, identity)
}

// TopByPlayCount ranks groups by number of plays, excluding skipped plays.
// The secondary metric is total playtime in milliseconds.
func TopByPlayCount(events []event.PlayEvent, key GroupKey, n int) []rank.Entry[string] {
	plays := make(map[string]int64)
	playtime := make(map[string]int64)
	for _, e := range events {
		if e.Skipped {
			continue
		}
		id := groupID(e, key)
		plays[id]++
		playtime[id] += e.Played.Milliseconds()
	}
	return rank.TopK(rank.FromMap(plays, playtime), n, identity)
}

// TopIncognitoTracks ranks tracks played in private sessions, by playtime or
// by play count.
func TopIncognitoTracks(events []event.PlayEvent, n int, byPlaytime bool) []rank.Entry[string] {
	playtime := make(map[string]int64)
	plays := make(map[string]int64)
	for _, e := range events {
		if !e.Incognito {
			continue
		}
		id := e.TrackID()
		playtime[id] += e.Played.Milliseconds()
		plays[id]++
	}
	if byPlaytime {
		return rank.TopK(rank.FromMap(playtime, plays), n, identity)
	}
	return rank.TopK(rank.FromMap(plays, playtime), n, identity)
}

// MostSkipped ranks tracks by skip count. Ties are broken by the track's
// total play count.
func MostSkipped(events []event.PlayEvent, n int) []rank.Entry[string] {
	skips := make(map[string]int64)
	plays := make(map[string]int64)
	for _, e := range events {
		id := e.TrackID()
		plays[id]++
		if e.Skipped {
			skips[id]++
		}
	}
	return rank.TopK(rank.FromMap(skips, plays), n, identity)
}

// TrackDay identifies a track's plays on one calendar day.
type TrackDay struct {
	Track string
	Day   time.Time
}

// TrackWeek identifies a track's plays in one ISO week.
type TrackWeek struct {
	Track string
	Year  int
	Week  int
}

func trackDayCounts(events []event.PlayEvent) map[TrackDay]int64 {
	counts := make(map[TrackDay]int64)
	for _, e := range events {
		if e.Skipped {
			continue
		}
		counts[TrackDay{Track: e.TrackID(), Day: dateOf(e.StartedAt)}]++
	}
	return counts
}

func trackWeekCounts(events []event.PlayEvent) map[TrackWeek]int64 {
	counts := make(map[TrackWeek]int64)
	for _, e := range events {
		if e.Skipped {
			continue
		}
		year, week := e.StartedAt.UTC().ISOWeek()
		counts[TrackWeek{Track: e.TrackID(), Year: year, Week: week}]++
	}
	return counts
}

// MaxSingleDayPlays returns the maximum number of unskipped plays of the
// given track on any single calendar day.
func MaxSingleDayPlays(events []event.PlayEvent, trackID string) int {
	var max int64
	for key, count := range trackDayCounts(events) {
		if key.Track == trackID && count > max {
			max = count
		}
	}
	return int(max)
}

// MaxSingleWeekPlays returns the maximum number of unskipped plays of the
// given track in any single ISO week.
func MaxSingleWeekPlays(events []event.PlayEvent, trackID string) int {
	var max int64
	for key, count := range trackWeekCounts(events) {
		if key.Track == trackID && count > max {
			max = count
		}
	}
	return int(max)
}

// TopSingleDayPlays ranks (track, day) pairs by unskipped play count.
func TopSingleDayPlays(events []event.PlayEvent, n int) []rank.Entry[TrackDay] {
	return rank.TopK(rank.FromMap(trackDayCounts(events), nil), n, func(td TrackDay) string {
		return fmt.Sprintf("%s|%s", td.Track, td.Day.Format(time.DateOnly))
	})
}

// TopSingleWeekPlays ranks (track, ISO week) pairs by unskipped play count.
func TopSingleWeekPlays(events []event.PlayEvent, n int) []rank.Entry[TrackWeek] {
	return rank.TopK(rank.FromMap(trackWeekCounts(events), nil), n, func(tw TrackWeek) string {
		return fmt.Sprintf("%s|%04d-W%02d", tw.Track, tw.Year, tw.Week)
	})
}

func identity(s string) string { return s }
