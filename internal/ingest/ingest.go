package ingest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/source"
)

// SourceError records a provider failure during an ingestion run. Failures
// are collected per source and never abort the run.
type SourceError struct {
	Source string    `json:"source"`
	Err    string    `json:"error"`
	At     time.Time `json:"timestamp"`
}

type Stats struct {
	PerSource map[string]int `json:"per_source"`
	Total     int            `json:"total"`
	Dropped   int            `json:"dropped_duplicates"`
	Duration  time.Duration  `json:"duration"`
}

// Result is the outcome of one ingestion run over all configured providers.
type Result struct {
	Jobs   *jobs.Jobs
	Errors []SourceError
	Stats  Stats
}

// Run fetches from all providers concurrently, collects per-source errors and
// dedupes the combined list. The combined order is deterministic: provider
// configuration order first, then each provider's own result order.
func Run(ctx context.Context, providers []source.Provider, query string, limitPerSource int, logger *zap.Logger) *Result {
	start := time.Now()
	result := &Result{
		Jobs:  &jobs.Jobs{},
		Stats: Stats{PerSource: make(map[string]int, len(providers))},
	}

	fetched := make([]*jobs.Jobs, len(providers))
	errs := make([]error, len(providers))

	var wg sync.WaitGroup
	for idx, provider := range providers {
		wg.Add(1)
		go func(idx int, provider source.Provider) {
			defer wg.Done()
			logger.Info("fetching jobs",
				zap.String("source", provider.Name()),
				zap.String("query", query),
			)
			fetched[idx], errs[idx] = provider.FetchJobs(ctx, query, limitPerSource)
		}(idx, provider)
	}
	wg.Wait()

	for idx, provider := range providers {
		if errs[idx] != nil {
			result.Errors = append(result.Errors, SourceError{
				Source: provider.Name(),
				Err:    errs[idx].Error(),
				At:     time.Now().UTC(),
			})
			logger.Error("fetching from source failed",
				zap.String("source", provider.Name()),
				zap.Error(errs[idx]),
			)
			continue
		}

		result.Stats.PerSource[provider.Name()] = fetched[idx].Len()
		result.Jobs.Append(fetched[idx].Items...)
	}

	removed := result.Jobs.Dedupe()
	result.Stats.Dropped = len(removed)
	result.Stats.Total = result.Jobs.Len()
	result.Stats.Duration = time.Since(start)

	logger.Info("ingestion completed",
		zap.Int("total_jobs", result.Stats.Total),
		zap.Int("dropped_duplicates", result.Stats.Dropped),
		zap.Int("source_errors", len(result.Errors)),
		zap.Duration("duration", result.Stats.Duration),
	)

	return result
}
