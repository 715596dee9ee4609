package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/assistant"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/metrics"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/scheduler"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the job search and assistant HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address, overrides server.addr")
	serveCmd.Flags().Bool("cache", false, "enable the redis search cache (needs cache.url or REDIS_URL)")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("cache.enabled", serveCmd.Flags().Lookup("cache"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job scraper api", zap.String("version", resolveVersion()))

	m := metrics.New()

	aggregator, cleanup, err := prepareAggregator(ctx, config, m, logger)
	if err != nil {
		logger.Fatal("preparing the search pipeline", zap.Error(err))
	}
	defer cleanup()

	aiClient, err := prepareAIClient(config, m, logger)
	if err != nil {
		logger.Fatal("preparing the ai client", zap.Error(err))
	}

	srv := server.New(server.Config{
		Addr:              config.Server.Addr,
		CORSOrigins:       config.Server.CORSOrigins,
		RequestsPerMinute: config.Server.RequestsPerMinute,
	}, aggregator, assistant.New(aiClient, logger), logger, server.WithMetrics(m.Handler()))

	if warmer := prepareWarmer(config, aggregator, logger); warmer != nil {
		if err := warmer.Start(ctx); err != nil {
			logger.Fatal("starting the cache warmer", zap.Error(err))
		}
		defer warmer.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("reason", "signal received"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown", zap.Error(err))
		}
	}
}

// prepareWarmer returns nil unless the cache is on and there is something to warm.
func prepareWarmer(config *Config, aggregator *jobs.Aggregator, logger *zap.Logger) *scheduler.Warmer {
	warm := config.Cache.Warm
	if !config.Cache.Enabled || len(warm.Queries) == 0 || warm.Interval <= 0 {
		return nil
	}

	queries := make([]jobs.SearchQuery, 0, len(warm.Queries))
	for _, q := range warm.Queries {
		if q = strings.TrimSpace(q); q == "" {
			continue
		}
		queries = append(queries, jobs.SearchQuery{Query: q, Location: warm.Location})
	}

	return scheduler.New(aggregator, queries, warm.Interval, logger)
}
