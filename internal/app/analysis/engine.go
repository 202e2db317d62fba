// Package analysis computes listening-behavior statistics over a play event store.
package analysis

import (
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/rank"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/session"
)

// Config is the immutable engine configuration.
type Config struct {
	TopN        int
	HistoryDays int
	LastDate    *time.Time    // optional explicit window end
	SessionGap  time.Duration // gap threshold for sessions and co-listening
	StreakGap   time.Duration // gap threshold for streak statistics
	CoListenBy  Granularity
}

// Engine runs all in-memory analyses over a store. It holds no state across
// runs; results are pure functions of the store and the configuration.
type Engine struct {
	cfg Config
}

// New validates the configuration and creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.TopN <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "top n must be positive, got %d", cfg.TopN)
	}
	if cfg.HistoryDays <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "history days must be positive, got %d", cfg.HistoryDays)
	}
	if cfg.SessionGap <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "session gap must be positive, got %s", cfg.SessionGap)
	}
	if cfg.StreakGap <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "streak gap must be positive, got %s", cfg.StreakGap)
	}
	switch cfg.CoListenBy {
	case GranularitySession, GranularityDay:
	default:
		return nil, errors.Wrapf(ErrConfiguration, "unknown co-listen granularity: %q", cfg.CoListenBy)
	}
	return &Engine{cfg: cfg}, nil
}

// StreakThreshold is one row of the streak duration distribution.
type StreakThreshold struct {
	Min   time.Duration
	Count int
}

// Result holds every computed statistic for one run.
type Result struct {
	Window        Window
	EventCount    int
	TotalPlaytime time.Duration

	TopTracksByPlaytime   []rank.Entry[string]
	TopTracksByPlayCount  []rank.Entry[string]
	TopArtistsByPlaytime  []rank.Entry[string]
	TopArtistsByPlayCount []rank.Entry[string]
	TopIncognitoTracks    []rank.Entry[string]
	MostSkipped           []rank.Entry[string]
	TopSingleDayPlays     []rank.Entry[TrackDay]
	TopSingleWeekPlays    []rank.Entry[TrackWeek]

	Sessions         []session.Session
	LongestStreak    *session.Session
	TopStreaks       []session.Session
	StreakThresholds []StreakThreshold

	PlaytimeByHour     HourHistogram
	AvgPlaytimeByMonth MonthHistogram

	Monthly       []MonthlyHighlight
	UniqueArtists int
	UniqueTracks  int

	CoListenCounts map[Pair]int64
	TopCoListens   []rank.Entry[Pair]
}

// Run filters the window and computes all statistics. An empty store or an
// empty window yields empty results, not an error.
func (e *Engine) Run(store *event.Store) (*Result, error) {
	filtered, window, err := FilterWindow(store, WindowSpec{
		HistoryDays: e.cfg.HistoryDays,
		LastDate:    e.cfg.LastDate,
	})
	if err != nil {
		return nil, err
	}

	zlog.Debug().
		Int("events", len(filtered)).
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Msg("analysis window selected")

	res := &Result{
		Window:        window,
		EventCount:    len(filtered),
		TotalPlaytime: TotalListeningTime(filtered),

		TopTracksByPlaytime:   TopByPlaytime(filtered, GroupByTrack, e.cfg.TopN),
		TopTracksByPlayCount:  TopByPlayCount(filtered, GroupByTrack, e.cfg.TopN),
		TopArtistsByPlaytime:  TopByPlaytime(filtered, GroupByArtist, e.cfg.TopN),
		TopArtistsByPlayCount: TopByPlayCount(filtered, GroupByArtist, e.cfg.TopN),
		TopIncognitoTracks:    TopIncognitoTracks(filtered, e.cfg.TopN, false),
		MostSkipped:           MostSkipped(filtered, e.cfg.TopN),
		TopSingleDayPlays:     TopSingleDayPlays(filtered, e.cfg.TopN),
		TopSingleWeekPlays:    TopSingleWeekPlays(filtered, e.cfg.TopN),

		PlaytimeByHour:     PlaytimeByHour(filtered),
		AvgPlaytimeByMonth: AveragePlaytimeByMonth(filtered),

		Monthly: MonthlyHighlights(filtered),
	}
	res.UniqueArtists, res.UniqueTracks = UniqueCounts(filtered)

	res.Sessions = session.Detect(filtered, e.cfg.SessionGap)
	if longest, ok := session.Longest(res.Sessions); ok {
		res.LongestStreak = &longest
	}

	// Streak statistics use their own, coarser gap.
	streaks := session.Detect(filtered, e.cfg.StreakGap)
	res.TopStreaks = session.TopBySpan(streaks, e.cfg.TopN)
	for hours := 1; hours <= e.cfg.TopN; hours++ {
		min := time.Duration(hours) * time.Hour
		res.StreakThresholds = append(res.StreakThresholds, StreakThreshold{
			Min:   min,
			Count: session.CountLongerThan(streaks, min),
		})
	}

	res.CoListenCounts = CoListenCounts(filtered, e.cfg.CoListenBy, e.cfg.SessionGap)
	res.TopCoListens = TopPairs(res.CoListenCounts, e.cfg.TopN)

	zlog.Debug().
		Int("sessions", len(res.Sessions)).
		Int("co_listen_pairs", len(res.CoListenCounts)).
		Int("months", len(res.Monthly)).
		Msg("analysis complete")

	return res, nil
}

// TopArtists returns the artist names of the playtime ranking, used as the
// identifier set for genre enrichment.
func (r *Result) TopArtists() []string {
	artists := make([]string, 0, len(r.TopArtistsByPlaytime))
	for _, entry := range r.TopArtistsByPlaytime {
		artists = append(artists, entry.Item)
	}
	return artists
}
