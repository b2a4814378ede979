package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mkoval/jobscout/internal/ai/gemini"
	"github.com/mkoval/jobscout/internal/resume"
	"github.com/mkoval/jobscout/internal/scoring"
	"github.com/mkoval/jobscout/internal/secrets"
	"github.com/mkoval/jobscout/internal/source"
	"github.com/mkoval/jobscout/internal/source/adzuna"
	"github.com/mkoval/jobscout/internal/source/remotive"
	"github.com/mkoval/jobscout/internal/store"
)

// scoringWeights resolves the configured weights and validates them. Invalid
// weights are a configuration error and must abort before any scoring runs.
func scoringWeights(config *Config) (scoring.Weights, error) {
	weights := scoring.DefaultWeights()
	if config.Scoring != nil && config.Scoring.Weights != nil {
		weights = *config.Scoring.Weights
	}

	if err := weights.Validate(); err != nil {
		return weights, err
	}
	return weights, nil
}

func scoringBuckets(config *Config) scoring.Buckets {
	if config.Scoring != nil && config.Scoring.Buckets != nil {
		return *config.Scoring.Buckets
	}
	return scoring.DefaultBuckets()
}

func loadProfile(config *Config) (*resume.Profile, error) {
	if config.Resume == nil || strings.TrimSpace(config.Resume.File) == "" {
		return nil, fmt.Errorf("resume file is required under resume.file")
	}
	return resume.Load(config.Resume.File)
}

// buildProviders assembles the enabled job sources. Providers are selected by
// explicit configuration only.
func buildProviders(config *Config, logger *zap.Logger) ([]source.Provider, error) {
	if config.Sources == nil {
		return nil, fmt.Errorf("at least one source must be configured under sources")
	}

	var providers []source.Provider

	if config.Sources.Remotive != nil && config.Sources.Remotive.Enabled {
		providers = append(providers, remotive.New(logger))
	}

	if config.Sources.Adzuna != nil && config.Sources.Adzuna.Enabled {
		appID, err := secrets.Load(secrets.Source{
			Name: "adzuna app id",
			File: config.Sources.Adzuna.AppIDFile,
			Env:  "ADZUNA_APP_ID",
		})
		if err != nil {
			return nil, err
		}

		appKey, err := secrets.Load(secrets.Source{
			Name: "adzuna api key",
			File: config.Sources.Adzuna.AppKeyFile,
			Env:  "ADZUNA_API_KEY",
		})
		if err != nil {
			return nil, err
		}

		providers = append(providers, adzuna.New(appID, appKey, config.Sources.Adzuna.Country, logger))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	return providers, nil
}

// buildEngine wires the rule scorer and the semantic matcher. A missing or
// failing embedding backend degrades the matcher, it never fails the engine.
func buildEngine(ctx context.Context, config *Config, weights scoring.Weights, logger *zap.Logger) (*scoring.Engine, error) {
	var (
		skillsFile string
		workers    int
		textBudget int
	)
	if config.Scoring != nil {
		skillsFile = config.Scoring.SkillsFile
		workers = config.Scoring.Workers
		if config.Scoring.Semantic != nil {
			textBudget = config.Scoring.Semantic.TextBudget
		}
	}

	normalizer, err := buildNormalizer(skillsFile)
	if err != nil {
		return nil, err
	}

	rules := scoring.NewRuleScorer(weights, scoringBuckets(config), normalizer)

	matcher := buildMatcher(ctx, config, logger)

	return scoring.NewEngine(rules, matcher, workers, textBudget, logger), nil
}

func buildNormalizer(skillsFile string) (*scoring.SkillNormalizer, error) {
	if strings.TrimSpace(skillsFile) != "" {
		return scoring.NewSkillNormalizerFromFile(skillsFile)
	}
	return scoring.NewSkillNormalizer()
}

// buildMatcher returns nil when semantic scoring is disabled. When enabled
// but the embedder cannot be created, the matcher still runs on the keyword
// fallback path.
func buildMatcher(ctx context.Context, config *Config, logger *zap.Logger) *scoring.SemanticMatcher {
	if config.Scoring == nil || config.Scoring.Semantic == nil || !config.Scoring.Semantic.Enabled {
		return nil
	}

	semantic := config.Scoring.Semantic
	if semantic.Gemini == nil {
		logger.Warn("semantic scoring enabled without gemini configuration, using keyword fallback")
		return scoring.NewSemanticMatcher(nil, logger)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: semantic.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Warn("semantic scoring degraded to keyword fallback", zap.Error(err))
		return scoring.NewSemanticMatcher(nil, logger)
	}

	embedder, err := gemini.NewEmbedder(ctx, apiKey, semantic.Gemini.Model)
	if err != nil {
		logger.Warn("semantic scoring degraded to keyword fallback", zap.Error(err))
		return scoring.NewSemanticMatcher(nil, logger)
	}

	logger.Info("semantic matcher ready",
		zap.String("provider", "gemini"),
		zap.String("model", embedder.Model()),
	)

	return scoring.NewSemanticMatcher(embedder, logger)
}

func buildStore(config *Config) *store.JobStore {
	dir := ""
	if config.Store != nil {
		dir = config.Store.Dir
	}
	return store.NewJobStore(dir)
}
