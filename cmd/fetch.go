package cmd

import (
	"context"
	"log"
	"time"

	"github.com/mkoval/jobscout/internal/logger"
	"github.com/mkoval/jobscout/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch jobs from the configured sources and store them without scoring",
	Run: func(_ *cobra.Command, _ []string) {
		fetch()
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func fetch() {
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

	list, result := fetchJobs(ctx, config, logger)
	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	st := buildStore(config)
	if err := st.SaveJobs(list, store.Metadata{
		Query:     searchQuery(config),
		FetchedAt: time.Now().UTC(),
		Sources:   result.Stats.PerSource,
	}); err != nil {
		logger.Fatal("saving jobs", zap.Error(err))
	}

	logger.Info("jobs stored", zap.Int("count", list.Len()))
}
