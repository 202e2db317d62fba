// Package event provides the PlayEvent domain entity and the ordered event store.
package event

import "time"

// PlayEvent represents one recorded play from the streaming history export.
type PlayEvent struct {
	Track     string        // Track name
	Artist    string        // Artist name
	Album     string        // Album name
	StartedAt time.Time     // Start instant (UTC)
	Played    time.Duration // Duration actually played
	Platform  string        // Playback platform (preserved, not analyzed)
	Shuffle   bool          // Shuffle mode flag (preserved, not analyzed)
	Skipped   bool          // True when the play ended as a skip
	Incognito bool          // Private session flag
}

// TrackID returns the canonical track identity used by all aggregations.
// Track names alone are ambiguous across artists, so the identity combines both.
func (e PlayEvent) TrackID() string {
	return e.Track + " by " + e.Artist
}

// EndedAt returns the instant the play ended.
func (e PlayEvent) EndedAt() time.Time {
	return e.StartedAt.Add(e.Played)
}

// Valid reports whether the event carries the fields the engine requires.
// Malformed events are excluded from all aggregations.
func (e PlayEvent) Valid() bool {
	return e.Track != "" && e.Artist != "" && !e.StartedAt.IsZero() && e.Played >= 0
}
