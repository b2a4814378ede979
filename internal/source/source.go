package source

import (
	"context"

	"github.com/mkoval/jobscout/internal/jobs"
)

// Provider produces normalized job records for a query. Implementations are
// selected by explicit configuration, one per source platform.
type Provider interface {
	Name() string
	FetchJobs(ctx context.Context, query string, limit int) (*jobs.Jobs, error)
}
