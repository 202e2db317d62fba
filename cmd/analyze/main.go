// Package main provides the streaming-history analysis CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/timo-eberl/spotify-history-analysis/internal/app/analysis"
	"github.com/timo-eberl/spotify-history-analysis/internal/app/enrich"
	"github.com/timo-eberl/spotify-history-analysis/internal/infra/config"
	"github.com/timo-eberl/spotify-history-analysis/internal/infra/history"
	"github.com/timo-eberl/spotify-history-analysis/internal/infra/logger"
	"github.com/timo-eberl/spotify-history-analysis/internal/infra/report"
)

var (
	app = kingpin.New("spotify-history-analysis", "Listening statistics from a Spotify streaming-history export")

	dir        = app.Flag("dir", "Directory containing Streaming_History_Audio_*.json files").Default(".").String()
	configPath = app.Flag("config", "Configuration file path").String()
	days       = app.Flag("days", "Analyze only the trailing number of days").Int()
	topN       = app.Flag("top", "Length of top lists").Int()
	lastDate   = app.Flag("last-date", "Analyze only data up to this date (YYYY-MM-DD)").String()
	coListenBy = app.Flag("co-listen-by", "Co-listening granularity: session or day").Enum("session", "day")
	enrichFlag = app.Flag("enrich", "Enable genre enrichment via the Spotify API").Bool()
	logLevel   = app.Flag("log-level", "Log level: debug, info, warn, error").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := zlog.With().Str("run_id", uuid.NewString()).Logger()

	if err := run(log.WithContext(context.Background()), cfg); err != nil {
		if errors.Is(err, analysis.ErrConfiguration) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	// Flags override file values.
	if *days != 0 {
		cfg.Analysis.HistoryDays = *days
	}
	if *topN != 0 {
		cfg.Analysis.TopN = *topN
	}
	if *lastDate != "" {
		cfg.Analysis.LastDate = *lastDate
	}
	if *coListenBy != "" {
		cfg.Analysis.CoListenBy = *coListenBy
	}
	if *enrichFlag {
		cfg.Enrichment.Enabled = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	last, err := cfg.ParseLastDate()
	if err != nil {
		return errors.Mark(err, analysis.ErrConfiguration)
	}

	engine, err := analysis.New(analysis.Config{
		TopN:        cfg.Analysis.TopN,
		HistoryDays: cfg.Analysis.HistoryDays,
		LastDate:    last,
		SessionGap:  cfg.SessionGap(),
		StreakGap:   cfg.StreakGap(),
		CoListenBy:  analysis.Granularity(cfg.Analysis.CoListenBy),
	})
	if err != nil {
		return err
	}

	store, err := history.Load(*dir)
	if err != nil {
		return err
	}

	res, err := engine.Run(store)
	if err != nil {
		return err
	}

	// Enrichment runs after local aggregation; its failures only cost the
	// genre section.
	var genres map[string][]string
	if cfg.Enrichment.Enabled {
		genres = resolveGenres(ctx, cfg, res)
	}

	return report.Render(os.Stdout, res, genres)
}

func resolveGenres(ctx context.Context, cfg *config.Config, res *analysis.Result) map[string][]string {
	resolver, err := enrich.NewResolverFromConfig(ctx, cfg)
	if err != nil {
		zlog.Warn().Err(err).Msg("genre enrichment unavailable, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.EnrichmentTimeout())
	defer cancel()

	return enrich.NewService(resolver).ResolveGenres(ctx, res.TopArtists())
}
