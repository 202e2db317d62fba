// Package session provides listening session detection over ordered play events.
//
// A session is a maximal run of play events where the gap between one event's
// end and the next event's start never exceeds a configured threshold.
package session

import (
	"sort"
	"time"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

// Session is one detected listening session.
type Session struct {
	Events      []event.PlayEvent
	Start       time.Time     // Start of the first event
	End         time.Time     // Latest end instant across all events
	TotalPlayed time.Duration // Sum of played durations
}

// Span returns the wall-clock length of the session.
func (s Session) Span() time.Duration {
	return s.End.Sub(s.Start)
}

// Tracks returns the distinct track identities in the session, sorted.
func (s Session) Tracks() []string {
	seen := make(map[string]struct{}, len(s.Events))
	for _, e := range s.Events {
		seen[e.TrackID()] = struct{}{}
	}
	tracks := make([]string, 0, len(seen))
	for id := range seen {
		tracks = append(tracks, id)
	}
	sort.Strings(tracks)
	return tracks
}

func (s Session) append(e event.PlayEvent) Session {
	s.Events = append(s.Events, e)
	s.TotalPlayed += e.Played
	if e.EndedAt().After(s.End) {
		s.End = e.EndedAt()
	}
	return s
}

func newSession(e event.PlayEvent) Session {
	return Session{
		Events:      []event.PlayEvent{e},
		Start:       e.StartedAt,
		End:         e.EndedAt(),
		TotalPlayed: e.Played,
	}
}

// Detect partitions chronologically sorted events into sessions using the
// given maximum gap. It is a left-fold carrying the open session and the
// closed ones; every input event lands in exactly one session. Events whose
// start precedes the open session's latest end join it (overlaps cannot open
// a gap).
func Detect(events []event.PlayEvent, maxGap time.Duration) []Session {
	if len(events) == 0 {
		return nil
	}

	var closed []Session
	current := newSession(events[0])

	for _, e := range events[1:] {
		if e.StartedAt.Sub(current.End) <= maxGap {
			current = current.append(e)
		} else {
			closed = append(closed, current)
			current = newSession(e)
		}
	}

	return append(closed, current)
}

// Longest returns the session with the greatest total playtime. Ties are
// broken by event count, then by earliest start. The second return value is
// false when no sessions exist.
func Longest(sessions []Session) (Session, bool) {
	if len(sessions) == 0 {
		return Session{}, false
	}

	best := sessions[0]
	for _, s := range sessions[1:] {
		switch {
		case s.TotalPlayed > best.TotalPlayed:
			best = s
		case s.TotalPlayed == best.TotalPlayed && len(s.Events) > len(best.Events):
			best = s
		case s.TotalPlayed == best.TotalPlayed && len(s.Events) == len(best.Events) && s.Start.Before(best.Start):
			best = s
		}
	}
	return best, true
}

// TopBySpan returns up to n sessions ordered by wall-clock span descending.
// Ties are broken by earliest start for determinism.
func TopBySpan(sessions []Session, n int) []Session {
	if n <= 0 {
		return nil
	}

	sorted := make([]Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span() != sorted[j].Span() {
			return sorted[i].Span() > sorted[j].Span()
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CountLongerThan returns the number of sessions whose wall-clock span is at
// least the given duration.
func CountLongerThan(sessions []Session, min time.Duration) int {
	count := 0
	for _, s := range sessions {
		if s.Span() >= min {
			count++
		}
	}
	return count
}
