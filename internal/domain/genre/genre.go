// Package genre defines the contract for external genre resolution.
package genre

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// Resolver resolves artist identifiers to genre lists against an external
// metadata service. Implementations resolve one batch per call; BatchSize
// reports the largest batch the service accepts.
type Resolver interface {
	ResolveGenres(ctx context.Context, ids []string) (map[string][]string, error)
	BatchSize() int
}

// ErrAuthentication marks credential failures. Enrichment must not retry
// these; it degrades to partial results instead.
var ErrAuthentication = errors.New("genre service authentication failed")

// RateLimitError signals that the service throttled a batch and when the
// request may be retried.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("genre service rate limited, retry after %s", e.RetryAfter)
}
