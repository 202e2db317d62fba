package enrich

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/genre"
	"github.com/timo-eberl/spotify-history-analysis/internal/infra/config"
	"github.com/timo-eberl/spotify-history-analysis/internal/infra/spotify"
)

// SpotifyProviderConfig holds the provider settings for the Spotify resolver.
type SpotifyProviderConfig struct {
	ClientID          string `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret      string `yaml:"client_secret" mapstructure:"client_secret" validate:"required"`
	BatchSize         int    `yaml:"batch_size" mapstructure:"batch_size" default:"50" validate:"gte=1,lte=50"`
	RequestsPerSecond int    `yaml:"requests_per_second" mapstructure:"requests_per_second" default:"5" validate:"gte=1"`
}

// NewResolverFromConfig creates a genre resolver from configuration.
func NewResolverFromConfig(ctx context.Context, cfg *config.Config) (genre.Resolver, error) {
	pcfg := cfg.Enrichment.Provider
	zlog.Debug().Str("type", pcfg.Type).Msg("creating genre provider")

	switch pcfg.Type {
	case "spotify":
		return newSpotifyResolver(ctx, pcfg.Settings)
	default:
		return nil, errors.Newf("unsupported genre provider type: %s", pcfg.Type)
	}
}

func newSpotifyResolver(ctx context.Context, settings map[string]any) (genre.Resolver, error) {
	if len(settings) == 0 {
		return nil, errors.New("spotify provider settings are required")
	}

	var pcfg SpotifyProviderConfig
	if err := mapstructure.Decode(settings, &pcfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&pcfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(pcfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return spotify.New(ctx, spotify.Config{
		ClientID:          pcfg.ClientID,
		ClientSecret:      pcfg.ClientSecret,
		BatchSize:         pcfg.BatchSize,
		RequestsPerSecond: pcfg.RequestsPerSecond,
	})
}
