package analysis

import (
	"sort"
	"time"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/rank"
)

// MonthlyHighlight summarizes one calendar month inside the window.
type MonthlyHighlight struct {
	Month            string // "2006-01"
	FavoriteTrack    string
	FavoritePlaytime time.Duration
	UniqueArtists    int
	UniqueTracks     int
}

// MonthlyHighlights computes per-month favorites and unique counts, ordered
// chronologically. The favorite track is the month's playtime argmax with the
// shared top-k tiebreak rule.
func MonthlyHighlights(events []event.PlayEvent) []MonthlyHighlight {
	type monthData struct {
		playtime map[string]int64
		plays    map[string]int64
		artists  map[string]struct{}
		tracks   map[string]struct{}
	}

	months := make(map[string]*monthData)
	for _, e := range events {
		key := e.StartedAt.UTC().Format("2006-01")
		data, ok := months[key]
		if !ok {
			data = &monthData{
				playtime: make(map[string]int64),
				plays:    make(map[string]int64),
				artists:  make(map[string]struct{}),
				tracks:   make(map[string]struct{}),
			}
			months[key] = data
		}
		id := e.TrackID()
		data.playtime[id] += e.Played.Milliseconds()
		data.plays[id]++
		data.artists[e.Artist] = struct{}{}
		data.tracks[id] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	highlights := make([]MonthlyHighlight, 0, len(keys))
	for _, key := range keys {
		data := months[key]
		h := MonthlyHighlight{
			Month:         key,
			UniqueArtists: len(data.artists),
			UniqueTracks:  len(data.tracks),
		}
		if favorite := rank.TopK(rank.FromMap(data.playtime, data.plays), 1, identity); len(favorite) > 0 {
			h.FavoriteTrack = favorite[0].Item
			h.FavoritePlaytime = time.Duration(favorite[0].Metric) * time.Millisecond
		}
		highlights = append(highlights, h)
	}
	return highlights
}

// UniqueCounts returns the whole-window unique artist and track counts.
func UniqueCounts(events []event.PlayEvent) (artists, tracks int) {
	artistSet := make(map[string]struct{})
	trackSet := make(map[string]struct{})
	for _, e := range events {
		artistSet[e.Artist] = struct{}{}
		trackSet[e.TrackID()] = struct{}{}
	}
	return len(artistSet), len(trackSet)
}
