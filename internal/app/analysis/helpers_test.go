package analysis

import (
	"time"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func play(track, artist, start string, played time.Duration) event.PlayEvent {
	return event.PlayEvent{Track: track, Artist: artist, StartedAt: ts(start), Played: played}
}

func skipped(track, artist, start string) event.PlayEvent {
	e := play(track, artist, start, 2*time.Second)
	e.Skipped = true
	return e
}
