package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mkoval/jobscout/internal/ingest"
	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/logger"
	"github.com/mkoval/jobscout/internal/resume"
	"github.com/mkoval/jobscout/internal/scoring"
	"github.com/mkoval/jobscout/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowRanked      = "Show ranked jobs"
	PromptReportByCompany = "Report by company"
	PromptJobsToFile      = "Dump jobs to file"
	PromptExit            = "Exit"

	defaultLimitPerSource = 25
	rankedPreviewLimit    = 20
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowRanked, PromptReportByCompany, PromptJobsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch jobs, score them against the resume and rank the results",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "print the ranked list and exit without an interactive prompt")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	weights, err := scoringWeights(config)
	if err != nil {
		logger.Fatal("validating scoring weights",
			zap.Error(err),
			zap.String("hint", "weights under scoring.weights must sum to 1.0"),
		)
	}

	profile, err := loadProfile(config)
	if err != nil {
		logger.Fatal(
			"loading resume",
			zap.Error(err),
			zap.String("hint", "set JOBSCOUT_RESUME_FILE environment variable or the 'resume.file' key in the configuration file"),
		)
	}

	logger.Info("loaded resume",
		zap.String("name", profile.Name),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("years_of_experience", profile.YearsOfExperience()),
	)

	list, result := fetchJobs(ctx, config, logger)
	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	engine, err := buildEngine(ctx, config, weights, logger)
	if err != nil {
		logger.Fatal("building scoring engine", zap.Error(err))
	}

	report := scoreJobs(ctx, config, engine, list, profile, logger)

	st := buildStore(config)
	if err := st.SaveJobs(list, store.Metadata{
		Query:     searchQuery(config),
		FetchedAt: time.Now().UTC(),
		ScoredAt:  time.Now().UTC(),
		Sources:   result.Stats.PerSource,
	}); err != nil {
		logger.Error("saving jobs", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		printRanked(report.Ranked, logger)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, report, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, report *scoring.Report, logger *zap.Logger) error {
	switch action {
	case PromptShowRanked:
		printRanked(report.Ranked, logger)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(report.Ranked.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", report.Ranked.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := report.Ranked.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// fetchJobs runs one ingestion pass over the configured sources.
func fetchJobs(ctx context.Context, config *Config, logger *zap.Logger) (*jobs.Jobs, *ingest.Result) {
	providers, err := buildProviders(config, logger)
	if err != nil {
		logger.Fatal("building job sources", zap.Error(err))
	}

	query := searchQuery(config)
	logger.Info("starting the search", zap.String("search", query))

	result := ingest.Run(ctx, providers, query, limitPerSource(config), logger)
	return result.Jobs, result
}

// scoreJobs runs the batch with the configured timeout and logs the summary.
func scoreJobs(ctx context.Context, config *Config, engine *scoring.Engine, list *jobs.Jobs, profile *resume.Profile, logger *zap.Logger) *scoring.Report {
	if config.Scoring != nil && config.Scoring.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Scoring.BatchTimeout)
		defer cancel()
	}

	report := engine.ScoreBatch(ctx, list, profile)

	logger.Info("scoring completed",
		zap.Int("ranked", report.Ranked.Len()),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("degraded", report.Degraded),
	)

	if config.Scoring != nil && config.Scoring.MinScore > 0 {
		dropped := applyMinScore(report.Ranked, config.Scoring.MinScore)
		if dropped > 0 {
			logger.Info("dropped jobs below minimum score",
				zap.Int("dropped", dropped),
				zap.Int("min_score", config.Scoring.MinScore),
			)
		}
	}

	return report
}

// applyMinScore trims the ranked tail below the threshold and returns how many
// jobs were dropped. The list is already sorted descending.
func applyMinScore(ranked *jobs.Jobs, minScore int) int {
	kept := ranked.Items[:0]
	for _, job := range ranked.Items {
		if job.MatchScore != nil && *job.MatchScore >= minScore {
			kept = append(kept, job)
		}
	}
	dropped := len(ranked.Items) - len(kept)
	ranked.Items = kept
	return dropped
}

func printRanked(ranked *jobs.Jobs, logger *zap.Logger) {
	limit := ranked.Len()
	if limit > rankedPreviewLimit {
		limit = rankedPreviewLimit
	}

	for i := 0; i < limit; i++ {
		job := ranked.Items[i]
		score := 0
		if job.MatchScore != nil {
			score = *job.MatchScore
		}
		fmt.Printf("%3d. [%3d] %s / %s / %s\n", i+1, score, job.Title, job.Company, job.URL)
	}

	logger.Info("ranked jobs", zap.Int("shown", limit), zap.Int("total", ranked.Len()))
}

func searchQuery(config *Config) string {
	if config.Search == nil {
		return ""
	}
	return config.Search.Query
}

func limitPerSource(config *Config) int {
	if config.Search == nil || config.Search.LimitPerSource <= 0 {
		return defaultLimitPerSource
	}
	return config.Search.LimitPerSource
}
