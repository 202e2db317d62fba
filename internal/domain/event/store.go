package event

import (
	"sort"
	"time"
)

// Store is an ordered, deduplicated collection of play events.
// It is built once from loader output and read-only afterwards.
type Store struct {
	events  []PlayEvent
	dropped int
}

type dedupKey struct {
	startedAt int64
	track     string
	artist    string
	played    time.Duration
}

// NewStore builds a store from raw loader output. Malformed events and exact
// duplicates (same track, artist, start and duration) are dropped; the count
// of dropped records is reported via Dropped. Remaining events are sorted by
// start time, with track identity as a stable tiebreak.
func NewStore(events []PlayEvent) *Store {
	seen := make(map[dedupKey]struct{}, len(events))
	kept := make([]PlayEvent, 0, len(events))
	dropped := 0

	for _, e := range events {
		if !e.Valid() {
			dropped++
			continue
		}
		key := dedupKey{
			startedAt: e.StartedAt.UnixMilli(),
			track:     e.Track,
			artist:    e.Artist,
			played:    e.Played,
		}
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, e)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].StartedAt.Equal(kept[j].StartedAt) {
			return kept[i].StartedAt.Before(kept[j].StartedAt)
		}
		return kept[i].TrackID() < kept[j].TrackID()
	})

	return &Store{events: kept, dropped: dropped}
}

// Events returns the ordered event sequence. Callers must not modify it.
func (s *Store) Events() []PlayEvent {
	return s.events
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	return len(s.events)
}

// Dropped returns the number of malformed or duplicate records excluded
// during construction.
func (s *Store) Dropped() int {
	return s.dropped
}

// Earliest returns the start time of the first event.
// The second return value is false for an empty store.
func (s *Store) Earliest() (time.Time, bool) {
	if len(s.events) == 0 {
		return time.Time{}, false
	}
	return s.events[0].StartedAt, true
}

// Latest returns the start time of the last event.
// The second return value is false for an empty store.
func (s *Store) Latest() (time.Time, bool) {
	if len(s.events) == 0 {
		return time.Time{}, false
	}
	return s.events[len(s.events)-1].StartedAt, true
}
