package sources

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
)

// Call outcomes reported to a CallObserver.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// CallObserver is notified after every provider call.
type CallObserver func(source, outcome string)

// Fanout issues expanded terms to every provider and merges the results in
// (term order, provider order).
type Fanout struct {
	providers   []Provider
	limiters    []*rate.Limiter
	target      int
	concurrency int
	timeout     time.Duration
	rps         float64
	burst       int
	observer    CallObserver
	logger      *zap.Logger
}

type Option func(*Fanout)

// WithTarget overrides the record count that stops further terms.
func WithTarget(n int) Option {
	return func(f *Fanout) { f.target = n }
}

// WithConcurrency bounds how many providers are queried at once for a term.
func WithConcurrency(n int) Option {
	return func(f *Fanout) { f.concurrency = n }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *Fanout) { f.timeout = d }
}

// WithRate throttles outbound calls per provider. rps <= 0 disables throttling.
func WithRate(rps float64, burst int) Option {
	return func(f *Fanout) {
		f.rps = rps
		f.burst = burst
	}
}

// WithObserver registers a hook called after each provider call.
func WithObserver(o CallObserver) Option {
	return func(f *Fanout) { f.observer = o }
}

func NewFanout(providers []Provider, log *zap.Logger, opts ...Option) *Fanout {
	f := &Fanout{
		providers:   providers,
		target:      DefaultTarget,
		concurrency: len(providers),
		timeout:     DefaultTimeout,
		logger:      logger.Component(log, "fanout"),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.concurrency <= 0 {
		f.concurrency = 1
	}
	if f.target <= 0 {
		f.target = DefaultTarget
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}

	f.limiters = make([]*rate.Limiter, len(providers))
	if f.rps > 0 {
		burst := f.burst
		if burst <= 0 {
			burst = 1
		}
		for i := range f.limiters {
			f.limiters[i] = rate.NewLimiter(rate.Limit(f.rps), burst)
		}
	}

	return f
}

// Len returns the number of configured providers.
func (f *Fanout) Len() int {
	if f == nil {
		return 0
	}
	return len(f.providers)
}

// Collect runs every term through every provider and returns the merged raw records.
// Provider failures are logged and skipped.
func (f *Fanout) Collect(ctx context.Context, terms []string, location string, limit int) []RawRecord {
	if limit <= 0 {
		limit = DefaultLimit
	}
	location = NormalizeLocation(location)

	var records []RawRecord
	for i, term := range terms {
		if ctx.Err() != nil {
			f.logger.Warn("search cancelled", zap.Error(ctx.Err()))
			break
		}

		batch := f.collectTerm(ctx, Query{
			Term:     term,
			Location: location,
			Limit:    limit,
			HoursOld: int(RecencyWindow / time.Hour),
		})
		records = append(records, batch...)

		f.logger.Debug("term collected",
			zap.String(logger.FieldTerm, term),
			zap.Int("records", len(batch)),
			zap.Int("total", len(records)),
		)

		if len(records) >= f.target {
			f.logger.Info("target reached; skipping remaining terms",
				zap.Int("total", len(records)),
				zap.Int("skipped_terms", len(terms)-i-1),
			)
			break
		}
	}

	return records
}

func (f *Fanout) collectTerm(ctx context.Context, q Query) []RawRecord {
	results := make([][]RawRecord, len(f.providers))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for idx, provider := range f.providers {
		g.Go(func() error {
			results[idx] = f.call(ctx, idx, provider, q)
			return nil
		})
	}
	_ = g.Wait()

	var merged []RawRecord
	for _, batch := range results {
		merged = append(merged, batch...)
	}
	return merged
}

func (f *Fanout) call(ctx context.Context, idx int, provider Provider, q Query) (records []RawRecord) {
	name := provider.Name()
	log := f.logger.With(logger.SourceFields(name, q.Term)...)

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error("provider panicked", zap.Any("panic", r))
			f.observe(name, OutcomeError)
			records = nil
		}
	}()

	if limiter := f.limiters[idx]; limiter != nil {
		if err := limiter.Wait(callCtx); err != nil {
			log.Warn("provider throttled past deadline", zap.Error(err))
			f.observe(name, OutcomeError)
			return nil
		}
	}

	records, err := provider.Search(callCtx, q)
	if err != nil {
		log.Warn("provider search failed", zap.Error(fmt.Errorf("%s: %w", name, err)))
		f.observe(name, OutcomeError)
		return nil
	}

	if len(records) == 0 {
		f.observe(name, OutcomeEmpty)
		return nil
	}

	for _, record := range records {
		if _, ok := record[KeySite]; !ok {
			record[KeySite] = name
		}
	}

	log.Debug("provider search succeeded", zap.Int("records", len(records)))
	f.observe(name, OutcomeOK)
	return records
}

func (f *Fanout) observe(source, outcome string) {
	if f.observer != nil {
		f.observer(source, outcome)
	}
}
