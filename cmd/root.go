package cmd

import (
	"log"
	"time"

	"github.com/mkoval/jobscout/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobscout"
)

type Config struct {
	Search  *SearchConfig  `mapstructure:"search"`
	Resume  *ResumeConfig  `mapstructure:"resume"`
	Sources *SourcesConfig `mapstructure:"sources"`
	Scoring *ScoringConfig `mapstructure:"scoring"`
	Store   *StoreConfig   `mapstructure:"store"`
	Watch   *WatchConfig   `mapstructure:"watch"`
}

type SearchConfig struct {
	Query          string `mapstructure:"query"`
	LimitPerSource int    `mapstructure:"limit-per-source"`
}

type ResumeConfig struct {
	File string `mapstructure:"file"`
}

type SourcesConfig struct {
	Remotive *RemotiveConfig `mapstructure:"remotive"`
	Adzuna   *AdzunaConfig   `mapstructure:"adzuna"`
}

type RemotiveConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AdzunaConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Country    string `mapstructure:"country"`
	AppIDFile  string `mapstructure:"app-id-file"`
	AppKeyFile string `mapstructure:"app-key-file"`
}

type ScoringConfig struct {
	Weights      *scoring.Weights `mapstructure:"weights"`
	Buckets      *scoring.Buckets `mapstructure:"buckets"`
	Workers      int              `mapstructure:"workers"`
	MinScore     int              `mapstructure:"min-score"`
	SkillsFile   string           `mapstructure:"skills-file"`
	BatchTimeout time.Duration    `mapstructure:"batch-timeout"`
	Semantic     *SemanticConfig  `mapstructure:"semantic"`
}

type SemanticConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	TextBudget int           `mapstructure:"text-budget"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	Model      string `mapstructure:"model"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

type WatchConfig struct {
	Schedule string `mapstructure:"schedule"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout is a cli for fetching job postings and ranking them against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("resume.file", "JOBSCOUT_RESUME_FILE"); err != nil {
		log.Fatalf("binding JOBSCOUT_RESUME_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any config file.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
