package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
)

// Outcome tells where a search result came from.
type Outcome string

const (
	OutcomeLive     Outcome = "live"
	OutcomeFallback Outcome = "fallback"
	OutcomeCache    Outcome = "cache"
)

// Collector is the fan-out stage.
type Collector interface {
	Len() int
	Collect(ctx context.Context, terms []string, location string, limit int) []sources.RawRecord
}

// Refiner drops unwanted postings between normalization and ranking.
type Refiner interface {
	Refine(ctx context.Context, batch []Job) ([]Job, error)
}

// Cache stores ranked live results.
type Cache interface {
	Get(ctx context.Context, q SearchQuery) ([]Job, bool, error)
	Set(ctx context.Context, q SearchQuery, batch []Job) error
}

// Recorder counts searches by outcome.
type Recorder interface {
	Search(outcome string)
}

type Aggregator struct {
	collector  Collector
	normalizer *Normalizer
	refiner    Refiner
	cache      Cache
	recorder   Recorder
	logger     *zap.Logger
}

type AggregatorOption func(*Aggregator)

func WithRefiner(r Refiner) AggregatorOption {
	return func(a *Aggregator) { a.refiner = r }
}

func WithCache(c Cache) AggregatorOption {
	return func(a *Aggregator) { a.cache = c }
}

func WithRecorder(r Recorder) AggregatorOption {
	return func(a *Aggregator) { a.recorder = r }
}

func WithNormalizer(n *Normalizer) AggregatorOption {
	return func(a *Aggregator) { a.normalizer = n }
}

func NewAggregator(collector Collector, log *zap.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		collector: collector,
		logger:    logger.Component(log, "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.normalizer == nil {
		a.normalizer = NewNormalizer(a.logger)
	}
	return a
}

// Search runs the whole pipeline. It always returns postings: any failure,
// including a panic, yields the fallback set for the query.
func (a *Aggregator) Search(ctx context.Context, q SearchQuery) ([]Job, Outcome) {
	return a.search(ctx, q, true)
}

// Refresh is Search without reading the cache. Live results still replace
// the cached entry.
func (a *Aggregator) Refresh(ctx context.Context, q SearchQuery) ([]Job, Outcome) {
	return a.search(ctx, q, false)
}

func (a *Aggregator) search(ctx context.Context, q SearchQuery, useCache bool) (batch []Job, outcome Outcome) {
	q = q.WithDefaults()
	log := a.logger.With(zap.String("query", q.Query), zap.String("location", q.Location))

	defer func() {
		if r := recover(); r != nil {
			log.Error("search pipeline panicked, serving fallback", zap.Any("panic", r))
			batch, outcome = Fallback(q.Query), OutcomeFallback
		}
		a.record(outcome)
	}()

	if useCache {
		if cached, ok := a.fromCache(ctx, q, log); ok {
			return cached, OutcomeCache
		}
	}

	live, err := a.run(ctx, q, log)
	if err != nil {
		log.Warn("search pipeline failed, serving fallback", zap.Error(err))
		return Fallback(q.Query), OutcomeFallback
	}
	if len(live) == 0 {
		log.Info("no postings found, serving fallback")
		return Fallback(q.Query), OutcomeFallback
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, q, live); err != nil {
			log.Warn("caching search result failed", zap.Error(err))
		}
	}

	return live, OutcomeLive
}

func (a *Aggregator) run(ctx context.Context, q SearchQuery, log *zap.Logger) ([]Job, error) {
	if a.collector == nil || a.collector.Len() == 0 {
		return nil, fmt.Errorf("no source providers configured")
	}

	terms := Plan(q.Query)
	log.Debug("planned search terms", zap.Strings("terms", terms))

	raws := a.collector.Collect(ctx, terms, q.Location, q.ResultsWanted)
	batch := a.normalizer.NormalizeAll(raws)

	if a.refiner != nil {
		refined, err := a.refiner.Refine(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("refine postings: %w", err)
		}
		batch = refined
	}

	ranked := Rank(batch)
	log.Info("search completed",
		zap.Int("raw", len(raws)),
		zap.Int("normalized", len(batch)),
		zap.Int("ranked", len(ranked)),
	)

	return ranked, nil
}

func (a *Aggregator) fromCache(ctx context.Context, q SearchQuery, log *zap.Logger) ([]Job, bool) {
	if a.cache == nil {
		return nil, false
	}
	cached, ok, err := a.cache.Get(ctx, q)
	if err != nil {
		log.Warn("reading search cache failed", zap.Error(err))
		return nil, false
	}
	if !ok || len(cached) == 0 {
		return nil, false
	}
	return cached, true
}

func (a *Aggregator) record(outcome Outcome) {
	if a.recorder != nil {
		a.recorder.Search(string(outcome))
	}
}
