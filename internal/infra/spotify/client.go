// Package spotify resolves artist genres through the Spotify Web API.
package spotify

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/genre"
)

const (
	defaultBatchSize      = 50
	defaultRequestsPerSec = 5

	// Used when the API responds 429 without a usable retry-after value.
	defaultRetryAfter = 2 * time.Second
)

// Client resolves artist names to genre lists via artist search. It
// implements genre.Resolver.
type Client struct {
	client    *spotify.Client
	limiter   *rate.Limiter
	batchSize int
}

// Config represents Spotify client configuration. Credentials use the
// client-credentials flow; no user authorization is involved.
type Config struct {
	ClientID          string
	ClientSecret      string
	BatchSize         int
	RequestsPerSecond int
}

// New creates a new Spotify genre resolver.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.Wrap(genre.ErrAuthentication, "spotify credentials are required")
	}

	ccfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := ccfg.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(genre.ErrAuthentication, err.Error())
	}

	httpClient := spotifyauth.New().Client(ctx, token)

	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > defaultBatchSize {
		batchSize = defaultBatchSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSec
	}

	return &Client{
		client:    spotify.New(httpClient),
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		batchSize: batchSize,
	}, nil
}

// BatchSize reports the largest batch the resolver accepts per call.
func (c *Client) BatchSize() int {
	return c.batchSize
}

// ResolveGenres resolves each artist name to its genre list. The export
// carries artist names rather than Spotify IDs, so each name is looked up via
// artist search and the best match's genres are taken. Names with no search
// hit are absent from the returned mapping.
func (c *Client) ResolveGenres(ctx context.Context, ids []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ids))

	for _, name := range ids {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter wait")
		}

		res, err := c.client.Search(ctx, name, spotify.SearchTypeArtist, spotify.Limit(1))
		if err != nil {
			return nil, classify(err)
		}

		if res.Artists == nil || len(res.Artists.Artists) == 0 {
			zlog.Debug().Str("artist", name).Msg("no spotify match for artist")
			continue
		}

		artist := res.Artists.Artists[0]
		if len(artist.Genres) > 0 {
			result[name] = artist.Genres
		}
	}

	return result, nil
}

// classify maps Spotify API errors onto the genre resolution contract.
func classify(err error) error {
	var serr spotify.Error
	if errors.As(err, &serr) {
		switch {
		case serr.Status == 429:
			return &genre.RateLimitError{RetryAfter: defaultRetryAfter}
		case serr.Status == 401 || serr.Status == 403:
			return errors.Wrap(genre.ErrAuthentication, serr.Message)
		}
	}
	return errors.Wrap(err, "spotify search failed")
}
