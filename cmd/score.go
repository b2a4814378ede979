package cmd

import (
	"context"
	"log"
	"time"

	"github.com/mkoval/jobscout/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the stored jobs against the resume and print the ranking",
	Run: func(_ *cobra.Command, _ []string) {
		score()
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// score re-runs scoring over the stored jobs. Re-scoring overwrites previous
// match scores, it never accumulates them.
func score() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

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
		logger.Fatal("loading resume", zap.Error(err))
	}

	st := buildStore(config)
	list, meta, err := st.LoadJobs()
	if err != nil {
		logger.Fatal("loading stored jobs", zap.Error(err))
	}

	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no stored jobs, run fetch first"))
		return
	}

	logger.Info("loaded stored jobs",
		zap.Int("count", list.Len()),
		zap.String("query", meta.Query),
		zap.Time("fetched_at", meta.FetchedAt),
	)

	engine, err := buildEngine(ctx, config, weights, logger)
	if err != nil {
		logger.Fatal("building scoring engine", zap.Error(err))
	}

	report := scoreJobs(ctx, config, engine, list, profile, logger)

	meta.ScoredAt = time.Now().UTC()
	if err := st.SaveJobs(list, meta); err != nil {
		logger.Error("saving scored jobs", zap.Error(err))
	}

	printRanked(report.Ranked, logger)
}
