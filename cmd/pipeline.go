package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/ai"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/ai/gemini"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/cache"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/filtering"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/metrics"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/secrets"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources/adzuna"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources/headhunter"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources/weworkremotely"
)

// prepareProviders returns the enabled source providers in their fixed order.
func prepareProviders(config *Config, logger *zap.Logger) ([]sources.Provider, error) {
	var providers []sources.Provider

	if hh := config.Sources.Headhunter; hh.Enabled {
		client := headhunter.New(logger.Named("headhunter"))
		if hh.UserAgent != "" {
			client.UserAgent = hh.UserAgent
		}
		client.Area = hh.Area
		providers = append(providers, client)
	}

	if az := config.Sources.Adzuna; az.Enabled {
		keys, err := secrets.LoadAll(
			secrets.Source{Name: "adzuna app id", Value: az.AppID, File: az.AppIDFile},
			secrets.Source{Name: "adzuna app key", Value: az.AppKey, File: az.AppKeyFile},
		)
		if err != nil {
			return nil, fmt.Errorf("loading adzuna credentials: %w", err)
		}
		if len(keys) == 2 {
			providers = append(providers, adzuna.New(keys[0], keys[1], az.Country, logger.Named("adzuna")))
		} else {
			logger.Warn("skipping adzuna provider",
				zap.String("reason", "credentials are not configured"),
				zap.String("hint", "set ADZUNA_APP_ID and ADZUNA_APP_KEY"),
			)
		}
	}

	if wwr := config.Sources.WeWorkRemotely; wwr.Enabled {
		client := weworkremotely.New(logger.Named("weworkremotely"))
		if wwr.MaxItems > 0 {
			client.MaxItems = wwr.MaxItems
		}
		providers = append(providers, client)
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	logger.Info("source providers configured", zap.Strings("providers", names))

	return providers, nil
}

func prepareFilters(config *Config, logger *zap.Logger) (*filtering.Chain, error) {
	chain := filtering.NewChain(logger.Named("filtering"),
		filtering.NewExcludedEmployers(config.Search.Exclude.Companies, logger),
		filtering.NewRedFlags(config.Search.Exclude.Terms, logger),
	)

	for _, name := range config.Search.DisableFilters {
		chain.DisableByName(strings.TrimSpace(name), "disabled in config")
	}

	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("validating filters: %w", err)
	}

	return chain, nil
}

// prepareAggregator wires the search pipeline. The returned cleanup closes the
// cache connection when one was opened.
func prepareAggregator(ctx context.Context, config *Config, m *metrics.Metrics, logger *zap.Logger) (*jobs.Aggregator, func(), error) {
	cleanup := func() {}

	providers, err := prepareProviders(config, logger)
	if err != nil {
		return nil, cleanup, err
	}

	fanout := sources.NewFanout(providers, logger,
		sources.WithTarget(config.Search.Target),
		sources.WithConcurrency(config.Search.Concurrency),
		sources.WithTimeout(config.Search.Timeout),
		sources.WithRate(config.Search.RPS, config.Search.Burst),
		sources.WithObserver(m.ProviderCall),
	)

	chain, err := prepareFilters(config, logger)
	if err != nil {
		return nil, cleanup, err
	}

	opts := []jobs.AggregatorOption{
		jobs.WithRefiner(chain),
		jobs.WithRecorder(m),
	}

	if config.Cache.Enabled && config.Cache.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, config.Cache.URL)
		if err != nil {
			// The cache is an optimisation; searching still works without it.
			logger.Warn("search cache disabled", zap.Error(err))
		} else {
			cleanup = func() { _ = rdb.Close() }
			opts = append(opts, jobs.WithCache(cache.New(rdb, config.Cache.TTL, cache.WithPrefix(config.Cache.Prefix))))
			logger.Info("search cache enabled", zap.Duration("ttl", config.Cache.TTL))
		}
	}

	return jobs.NewAggregator(fanout, logger, opts...), cleanup, nil
}

// prepareAIClient builds the shared AI client. Missing credentials are not an
// error: the client then answers every request with the not-configured message.
func prepareAIClient(config *Config, m *metrics.Metrics, log *zap.Logger) (*ai.Client, error) {
	keys, err := secrets.LoadAll(
		secrets.Source{Name: "gemini api key", Value: config.AI.APIKey, File: config.AI.APIKeyFile},
		secrets.Source{Name: "gemini backup api key", Value: config.AI.BackupAPIKey, File: config.AI.BackupAPIKeyFile},
	)
	if err != nil {
		return nil, fmt.Errorf("loading gemini api keys: %w", err)
	}

	creds := ai.NewCredentials(keys...)
	if creds.Len() == 0 {
		log.Warn("ai assistant is not configured",
			zap.String("hint", "set GEMINI_API_KEY or GEMINI_API_KEY_FILE"),
		)
	}

	model := config.AI.Model
	if model == "" {
		model = gemini.DefaultModel
	}

	aiLogger := logger.WithCommonFields(log, gemini.Provider, model).With(zap.Int("ai_credentials", creds.Len()))

	client := ai.NewClient(creds, gemini.NewFactory(model), aiLogger,
		ai.WithWindow(ai.NewWindow(config.AI.MaxRequests, config.AI.Period)),
		ai.WithTimeout(config.AI.Timeout),
		ai.WithMaxLogLength(config.AI.MaxLogLength),
		ai.WithRecorder(m),
	)

	err = m.Register(metrics.NewStateCollector(
		func() string { return string(client.State()) },
		string(ai.StateUnconfigured),
		string(ai.StateReady),
		string(ai.StateRateLimited),
		string(ai.StateRotating),
	))
	if err != nil {
		return nil, fmt.Errorf("registering ai state metric: %w", err)
	}

	return client, nil
}
