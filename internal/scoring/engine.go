package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/resume"
)

// ErrMalformedJob marks a single job record that cannot be scored. The engine
// isolates it into the skipped list instead of aborting the batch.
var ErrMalformedJob = errors.New("job record cannot be scored")

const (
	// Weighting of the rule-based and semantic components in the final score.
	ruleShare     = 0.6
	semanticShare = 0.4

	defaultTextBudget = 4000
)

// SkippedJob records a job excluded from a scoring run and why.
type SkippedJob struct {
	ID     string
	Reason string
}

// Report is the outcome of a batch scoring run. Ranked holds the jobs scored
// in this run, sorted by descending match score with ties in ingestion order.
// Degraded is true when at least one similarity came from the keyword
// fallback while an embedder was configured.
type Report struct {
	Ranked     *jobs.Jobs
	Skipped    []SkippedJob
	Breakdowns map[string]Breakdown
	Degraded   bool
}

// Engine scores job batches against a resume profile. Scoring is stateless
// per pair: no state is carried between pairs, so jobs are scored
// concurrently by a worker pool.
type Engine struct {
	rules      *RuleScorer
	semantic   *SemanticMatcher
	workers    int
	textBudget int
	logger     *zap.Logger
}

// NewEngine builds an engine. A nil semantic matcher means the semantic
// component is unavailable entirely and finals are computed from the rule
// score alone.
func NewEngine(rules *RuleScorer, semantic *SemanticMatcher, workers, textBudget int, logger *zap.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if textBudget <= 0 {
		textBudget = defaultTextBudget
	}
	return &Engine{
		rules:      rules,
		semantic:   semantic,
		workers:    workers,
		textBudget: textBudget,
		logger:     logger,
	}
}

// Combine blends the rule-based component with the semantic one into the
// final [0,100] match score. A nil semantic score means the semantic matcher
// was unavailable, not merely degraded.
func Combine(rule float64, semantic *float64) int {
	if semantic == nil {
		return int(math.Round(clamp01(rule) * 100))
	}
	return int(math.Round((ruleShare*clamp01(rule) + semanticShare*clamp01(*semantic)) * 100))
}

// ScoreJob scores a single job/resume pair. The job's MatchScore is written
// exactly once, after the full breakdown is computed, so a cancelled run
// never leaves a partially scored job.
func (e *Engine) ScoreJob(ctx context.Context, job *jobs.Job, profile *resume.Profile) (Breakdown, error) {
	if err := validateJob(job); err != nil {
		return Breakdown{}, err
	}

	breakdown := e.rules.Score(job, profile)

	if e.semantic != nil {
		similarity := e.semantic.Similarity(ctx, job.MatchText(e.textBudget), profile.MatchText(e.textBudget))
		breakdown.Semantic = &similarity.Score
		breakdown.SemanticPath = similarity.Path
	}

	breakdown.Final = Combine(breakdown.Rule, breakdown.Semantic)

	score := breakdown.Final
	job.MatchScore = &score

	return breakdown, nil
}

// ScoreBatch scores every job in the list concurrently and returns the ranked
// report. Cancelling the context stops dispatching further jobs; jobs already
// being scored finish, the rest keep their prior score and the partial ranked
// result is returned.
func (e *Engine) ScoreBatch(ctx context.Context, list *jobs.Jobs, profile *resume.Profile) *Report {
	report := &Report{
		Ranked:     &jobs.Jobs{},
		Breakdowns: make(map[string]Breakdown, list.Len()),
	}
	if profile == nil || list.Len() == 0 {
		return report
	}

	type outcome struct {
		index     int
		breakdown Breakdown
		err       error
		cancelled bool
	}

	indexes := make(chan int)
	outcomes := make([]*outcome, list.Len())

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				job := list.Items[idx]
				breakdown, err := e.ScoreJob(ctx, job, profile)
				outcomes[idx] = &outcome{
					index:     idx,
					breakdown: breakdown,
					err:       err,
					cancelled: ctx.Err() != nil,
				}
			}
		}()
	}

dispatch:
	for idx := range list.Items {
		select {
		case <-ctx.Done():
			e.logger.Info("scoring cancelled, returning partial results",
				zap.Int("dispatched", idx),
				zap.Int("total", list.Len()),
			)
			break dispatch
		case indexes <- idx:
		}
	}
	close(indexes)
	wg.Wait()

	for idx, job := range list.Items {
		result := outcomes[idx]
		if result == nil {
			// Never dispatched: the run was cancelled first.
			continue
		}

		if result.err != nil {
			report.Skipped = append(report.Skipped, SkippedJob{ID: job.ID, Reason: result.err.Error()})
			e.logger.Warn("skipping job",
				zap.String("job_id", job.ID),
				zap.Error(result.err),
			)
			continue
		}

		report.Breakdowns[job.ID] = result.breakdown
		report.Ranked.Append(job)

		// A keyword fallback caused by a dying context is cancellation, not
		// backend degradation.
		if e.semantic != nil && e.semantic.embedder != nil && result.breakdown.SemanticPath == PathKeyword && !result.cancelled {
			report.Degraded = true
		}
	}

	report.Ranked.SortByScore()

	if report.Degraded {
		e.logger.Warn("semantic scoring degraded to keyword overlap for part of the batch")
	}

	return report
}

func validateJob(job *jobs.Job) error {
	if job == nil {
		return fmt.Errorf("%w: nil record", ErrMalformedJob)
	}
	if strings.TrimSpace(job.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedJob)
	}
	if strings.TrimSpace(job.Title) == "" && strings.TrimSpace(job.Description) == "" {
		return fmt.Errorf("%w: no title or description", ErrMalformedJob)
	}
	return nil
}
