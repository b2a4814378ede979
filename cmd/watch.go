package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkoval/jobscout/internal/logger"
	"github.com/mkoval/jobscout/internal/resume"
	"github.com/mkoval/jobscout/internal/scoring"
	"github.com/mkoval/jobscout/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultSchedule = "@every 6h"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Fetch and score jobs on a schedule until interrupted",
	Run: func(_ *cobra.Command, _ []string) {
		watch()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watch() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		logger.Fatal("validating scoring weights", zap.Error(err))
	}

	profile, err := loadProfile(config)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	engine, err := buildEngine(ctx, config, weights, logger)
	if err != nil {
		logger.Fatal("building scoring engine", zap.Error(err))
	}

	schedule := defaultSchedule
	if config.Watch != nil && config.Watch.Schedule != "" {
		schedule = config.Watch.Schedule
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(schedule, func() {
		watchCycle(ctx, config, engine, profile, logger)
	})
	if err != nil {
		logger.Fatal("parsing watch schedule",
			zap.Error(err),
			zap.String("schedule", schedule),
		)
	}

	logger.Info("watching for jobs", zap.String("schedule", schedule))

	// First cycle runs right away, the scheduler handles the rest.
	watchCycle(ctx, config, engine, profile, logger)

	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	logger.Info("exiting", zap.String("reason", "signal received"))
}

func watchCycle(ctx context.Context, config *Config, engine *scoring.Engine, profile *resume.Profile, logger *zap.Logger) {
	if ctx.Err() != nil {
		return
	}

	list, result := fetchJobs(ctx, config, logger)
	if list.Len() == 0 {
		logger.Info("watch cycle found no jobs")
		return
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
		return
	}

	printRanked(report.Ranked, logger)
}
