// Package scheduler refreshes cached searches on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
)

// Refresher reruns a search and stores its live result.
type Refresher interface {
	Refresh(ctx context.Context, q jobs.SearchQuery) ([]jobs.Job, jobs.Outcome)
}

// Warmer wraps robfig/cron and keeps popular searches cached.
type Warmer struct {
	cron      *cron.Cron
	refresher Refresher
	queries   []jobs.SearchQuery
	spec      string
	logger    *zap.Logger
}

// New creates a Warmer firing every interval.
func New(refresher Refresher, queries []jobs.SearchQuery, interval time.Duration, log *zap.Logger) *Warmer {
	log = logger.Component(log, "warmer")
	return &Warmer{
		cron:      cron.New(cron.WithLogger(cronLogger{log.Sugar()})),
		refresher: refresher,
		queries:   queries,
		spec:      fmt.Sprintf("@every %s", interval),
		logger:    log,
	}
}

// Start registers the job and starts the scheduler. It also warms the cache
// once right away without waiting for the first tick.
func (w *Warmer) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.spec, func() { w.Run(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	w.cron.Start()
	w.logger.Info("cache warmer started", zap.String("spec", w.spec), zap.Int("queries", len(w.queries)))

	go w.Run(ctx)

	return nil
}

// Stop waits for a running job to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info("cache warmer stopped")
}

// Run refreshes every configured query once.
func (w *Warmer) Run(ctx context.Context) {
	for _, q := range w.queries {
		if ctx.Err() != nil {
			return
		}
		batch, outcome := w.refresher.Refresh(ctx, q)
		w.logger.Debug("search warmed",
			zap.String("query", q.Query),
			zap.String("outcome", string(outcome)),
			zap.Int("jobs", len(batch)),
		)
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
