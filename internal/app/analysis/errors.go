package analysis

import "github.com/cockroachdb/errors"

// ErrConfiguration marks invalid window or parameter combinations. It is
// surfaced before any computation runs; callers detect it with errors.Is.
var ErrConfiguration = errors.New("invalid analysis configuration")
