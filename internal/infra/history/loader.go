// Package history loads Spotify streaming-history export files.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/event"
)

const (
	filePrefix = "Streaming_History_Audio_"
	fileSuffix = ".json"
)

// rawEntry mirrors one record of the Spotify extended streaming history
// export. Metadata fields are null for podcast episodes and local files.
type rawEntry struct {
	TS        string  `json:"ts"`
	Platform  string  `json:"platform"`
	MsPlayed  int64   `json:"ms_played"`
	Track     *string `json:"master_metadata_track_name"`
	Artist    *string `json:"master_metadata_album_artist_name"`
	Album     *string `json:"master_metadata_album_album_name"`
	ReasonEnd string  `json:"reason_end"`
	Shuffle   bool    `json:"shuffle"`
	Skipped   *bool   `json:"skipped"`
	Incognito bool    `json:"incognito_mode"`
}

// Load scans a directory for streaming-history export files and builds the
// event store. Files that fail to decode are logged and skipped; malformed
// records inside valid files are dropped by the store and reported through
// its Dropped counter.
func Load(dir string) (*event.Store, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read history directory")
	}

	var events []event.PlayEvent
	files := 0
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		fileEvents, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			zlog.Warn().Err(err).Str("file", name).Msg("skipping unreadable history file")
			continue
		}
		events = append(events, fileEvents...)
		files++
	}

	if files == 0 {
		zlog.Warn().Str("dir", dir).Msg("no streaming history files found")
	}

	store := event.NewStore(events)
	zlog.Info().
		Int("files", files).
		Int("events", store.Len()).
		Int("dropped", store.Dropped()).
		Msg("streaming history loaded")

	return store, nil
}

func loadFile(path string) ([]event.PlayEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}

	var entries []rawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "unexpected format")
	}

	events := make([]event.PlayEvent, 0, len(entries))
	for _, raw := range entries {
		events = append(events, normalize(raw))
	}
	return events, nil
}

// normalize converts a raw export record into a PlayEvent. Records with
// unparseable timestamps or missing metadata produce invalid events, which
// the store drops and counts.
func normalize(raw rawEntry) event.PlayEvent {
	e := event.PlayEvent{
		Platform:  raw.Platform,
		Shuffle:   raw.Shuffle,
		Incognito: raw.Incognito,
		Played:    time.Duration(raw.MsPlayed) * time.Millisecond,
	}
	if raw.Track != nil {
		e.Track = *raw.Track
	}
	if raw.Artist != nil {
		e.Artist = *raw.Artist
	}
	if raw.Album != nil {
		e.Album = *raw.Album
	}
	if ts, err := time.Parse(time.RFC3339, raw.TS); err == nil {
		e.StartedAt = ts.UTC()
	}
	// Older exports omit the skipped flag; the end reason still reveals it.
	if raw.Skipped != nil {
		e.Skipped = *raw.Skipped
	} else {
		e.Skipped = raw.ReasonEnd == "fwdbtn"
	}
	return e
}
