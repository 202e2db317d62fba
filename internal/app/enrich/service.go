// Package enrich augments aggregation results with genres from an external
// metadata service. Failures degrade genre output only; core statistics are
// never affected.
package enrich

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/timo-eberl/spotify-history-analysis/internal/domain/genre"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/rank"
)

const defaultMaxAttempts = 3

// Service resolves genres through a genre.Resolver with a process-lifetime
// cache. The cache is owned exclusively by the service; it has no eviction
// and is bounded by the size of the analyzed dataset.
type Service struct {
	resolver    genre.Resolver
	maxAttempts uint

	cache   map[string][]string
	cacheMu sync.RWMutex
}

// Option configures a Service.
type Option func(*Service)

// WithMaxAttempts overrides the per-batch retry bound.
func WithMaxAttempts(attempts uint) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// NewService creates a genre enrichment service around the given resolver.
func NewService(resolver genre.Resolver, opts ...Option) *Service {
	s := &Service{
		resolver:    resolver,
		maxAttempts: defaultMaxAttempts,
		cache:       make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveGenres maps each id to its genre list. Cached ids never hit the
// network; misses are resolved in batches no larger than the resolver's
// limit. Rate-limited batches are retried with backoff up to the attempt
// bound, honoring an explicit retry-after signal. On authentication failure,
// exhausted retries, or an expired context the accumulated partial mapping is
// returned; unresolved ids are simply absent.
func (s *Service) ResolveGenres(ctx context.Context, ids []string) map[string][]string {
	result := make(map[string][]string)

	var misses []string
	seen := make(map[string]struct{}, len(ids))
	s.cacheMu.RLock()
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if genres, ok := s.cache[id]; ok {
			result[id] = genres
		} else {
			misses = append(misses, id)
		}
	}
	s.cacheMu.RUnlock()

	if len(misses) == 0 {
		return result
	}
	sort.Strings(misses)

	batchSize := s.resolver.BatchSize()
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(misses); start += batchSize {
		if ctx.Err() != nil {
			zlog.Warn().Err(ctx.Err()).Msg("genre enrichment stopped early, returning partial results")
			return result
		}

		end := start + batchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		resolved, err := s.resolveBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, genre.ErrAuthentication) {
				zlog.Warn().Err(err).Msg("genre enrichment authentication failed, returning partial results")
				return result
			}
			zlog.Warn().Err(err).Int("batch_size", len(batch)).Msg("genre batch failed, skipping")
			continue
		}

		s.cacheMu.Lock()
		for id, genres := range resolved {
			s.cache[id] = genres
			result[id] = genres
		}
		s.cacheMu.Unlock()
	}

	return result
}

// resolveBatch resolves one batch with bounded retries. Only rate limiting is
// retried; the delay honors the service's retry-after signal when present and
// falls back to exponential backoff.
func (s *Service) resolveBatch(ctx context.Context, batch []string) (map[string][]string, error) {
	var resolved map[string][]string
	err := retry.Do(
		func() error {
			var err error
			resolved, err = s.resolver.ResolveGenres(ctx, batch)
			return err
		},
		retry.Attempts(s.maxAttempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			var rateErr *genre.RateLimitError
			return errors.As(err, &rateErr)
		}),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			var rateErr *genre.RateLimitError
			if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
				return rateErr.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// GenreBreakdown counts how many of the resolved ids carry each genre and
// ranks genres by that count.
func GenreBreakdown(genres map[string][]string, n int) []rank.Entry[string] {
	counts := make(map[string]int64)
	for _, list := range genres {
		seen := make(map[string]struct{}, len(list))
		for _, g := range list {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			counts[g]++
		}
	}
	return rank.TopK(rank.FromMap(counts, nil), n, func(s string) string { return s })
}
