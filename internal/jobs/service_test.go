package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
)

type stubCollector struct {
	providers int
	records   []sources.RawRecord
	panics    bool
	terms     []string
	location  string
}

func (s *stubCollector) Len() int { return s.providers }

func (s *stubCollector) Collect(_ context.Context, terms []string, location string, _ int) []sources.RawRecord {
	if s.panics {
		panic("boom")
	}
	s.terms = terms
	s.location = location
	return s.records
}

type stubCache struct {
	stored map[string][]Job
	sets   int
}

func (c *stubCache) key(q SearchQuery) string {
	return fmt.Sprintf("%s|%s|%d", q.Query, q.Location, q.ResultsWanted)
}

func (c *stubCache) Get(_ context.Context, q SearchQuery) ([]Job, bool, error) {
	jobs, ok := c.stored[c.key(q)]
	return jobs, ok, nil
}

func (c *stubCache) Set(_ context.Context, q SearchQuery, batch []Job) error {
	if c.stored == nil {
		c.stored = map[string][]Job{}
	}
	c.stored[c.key(q)] = batch
	c.sets++
	return nil
}

type countingRecorder map[string]int

func (r countingRecorder) Search(outcome string) { r[outcome]++ }

type failingRefiner struct{}

func (failingRefiner) Refine(context.Context, []Job) ([]Job, error) {
	return nil, errors.New("refiner down")
}

type dropAllRefiner struct{}

func (dropAllRefiner) Refine(context.Context, []Job) ([]Job, error) { return nil, nil }

func assertFallback(t *testing.T, batch []Job, outcome Outcome) {
	t.Helper()
	if outcome != OutcomeFallback {
		t.Fatalf("expected fallback outcome, got %q", outcome)
	}
	if len(batch) != 12 {
		t.Fatalf("expected 12 fallback jobs, got %d", len(batch))
	}
	for _, job := range batch {
		if job.Site != "Sample" {
			t.Fatalf("expected Sample site, got %q", job.Site)
		}
	}
}

func TestSearchLive(t *testing.T) {
	collector := &stubCollector{providers: 1, records: []sources.RawRecord{
		{sources.KeyTitle: "Go Dev", sources.KeyCompany: "Acme", sources.KeyJobURL: "https://x/1"},
		{sources.KeyTitle: "Go Dev", sources.KeyCompany: "Acme", sources.KeyJobURL: "https://x/2"},
		{sources.KeyTitle: "Rust Dev", sources.KeyJobURL: "https://x/3"},
	}}
	recorder := countingRecorder{}

	agg := NewAggregator(collector, zap.NewNop(), WithRecorder(recorder))
	batch, outcome := agg.Search(context.Background(), SearchQuery{Query: "frontend", Location: "Worldwide"})

	if outcome != OutcomeLive {
		t.Fatalf("expected live outcome, got %q", outcome)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(batch))
	}
	if len(collector.terms) != 2 || collector.terms[0] != "frontend" {
		t.Fatalf("unexpected planned terms: %v", collector.terms)
	}
	if recorder["live"] != 1 {
		t.Fatalf("expected live search to be recorded, got %v", recorder)
	}
	for _, job := range batch {
		if job.Company != "" && job.CompanyLogo == "" {
			t.Fatalf("missing logo for %+v", job)
		}
	}
}

func TestSearchDefaults(t *testing.T) {
	collector := &stubCollector{providers: 1}
	NewAggregator(collector, zap.NewNop()).Search(context.Background(), SearchQuery{})

	if collector.terms[0] != DefaultQuery || collector.location != DefaultLocation {
		t.Fatalf("expected defaults, got %v %q", collector.terms, collector.location)
	}
}

func TestSearchFallbacks(t *testing.T) {
	tests := []struct {
		name string
		agg  *Aggregator
	}{
		{name: "all providers empty", agg: NewAggregator(&stubCollector{providers: 2}, zap.NewNop())},
		{name: "no providers", agg: NewAggregator(&stubCollector{}, zap.NewNop())},
		{name: "nil collector", agg: NewAggregator(nil, zap.NewNop())},
		{name: "panic", agg: NewAggregator(&stubCollector{providers: 1, panics: true}, zap.NewNop())},
		{
			name: "refiner error",
			agg: NewAggregator(&stubCollector{providers: 1, records: []sources.RawRecord{{sources.KeyTitle: "x"}}},
				zap.NewNop(), WithRefiner(failingRefiner{})),
		},
		{
			name: "everything filtered",
			agg: NewAggregator(&stubCollector{providers: 1, records: []sources.RawRecord{{sources.KeyTitle: "x"}}},
				zap.NewNop(), WithRefiner(dropAllRefiner{})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, outcome := tt.agg.Search(context.Background(), SearchQuery{Query: "Data Analyst"})
			assertFallback(t, batch, outcome)
			if batch[0].Title != "Data Analyst - Google Intern" {
				t.Fatalf("unexpected title %q", batch[0].Title)
			}
		})
	}
}

func TestSearchUsesCache(t *testing.T) {
	collector := &stubCollector{providers: 1, records: []sources.RawRecord{
		{sources.KeyTitle: "Go Dev", sources.KeyCompany: "Acme", sources.KeyJobURL: "https://x/1"},
	}}
	cache := &stubCache{}
	recorder := countingRecorder{}
	agg := NewAggregator(collector, zap.NewNop(), WithCache(cache), WithRecorder(recorder))

	q := SearchQuery{Query: "go", Location: "Berlin", ResultsWanted: 10}
	if _, outcome := agg.Search(context.Background(), q); outcome != OutcomeLive {
		t.Fatalf("expected live outcome, got %q", outcome)
	}
	collector.records = nil

	batch, outcome := agg.Search(context.Background(), q)
	if outcome != OutcomeCache || len(batch) != 1 {
		t.Fatalf("expected cached result, got %q with %d jobs", outcome, len(batch))
	}
	if cache.sets != 1 {
		t.Fatalf("expected a single cache write, got %d", cache.sets)
	}
	if recorder["cache"] != 1 || recorder["live"] != 1 {
		t.Fatalf("unexpected recorded outcomes: %v", recorder)
	}
}

func TestSearchDoesNotCacheFallback(t *testing.T) {
	cache := &stubCache{}
	agg := NewAggregator(&stubCollector{providers: 1}, zap.NewNop(), WithCache(cache))

	agg.Search(context.Background(), SearchQuery{Query: "go"})
	if cache.sets != 0 {
		t.Fatalf("fallback results must not be cached, got %d writes", cache.sets)
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	collector := &stubCollector{providers: 1, records: []sources.RawRecord{
		{sources.KeyTitle: "Go Dev", sources.KeyCompany: "Acme", sources.KeyJobURL: "https://x/1"},
	}}
	cache := &stubCache{}
	agg := NewAggregator(collector, zap.NewNop(), WithCache(cache))
	q := SearchQuery{Query: "go"}

	agg.Search(context.Background(), q)
	collector.records = append(collector.records, sources.RawRecord{
		sources.KeyTitle: "Rust Dev", sources.KeyCompany: "Acme", sources.KeyJobURL: "https://x/2",
	})

	batch, outcome := agg.Refresh(context.Background(), q)
	if outcome != OutcomeLive || len(batch) != 2 {
		t.Fatalf("expected a live refresh with 2 jobs, got %q with %d", outcome, len(batch))
	}
	if cache.sets != 2 {
		t.Fatalf("expected refresh to overwrite the cache, got %d writes", cache.sets)
	}

	cached, _ := agg.Search(context.Background(), q)
	if len(cached) != 2 {
		t.Fatalf("expected the refreshed entry to be served, got %d jobs", len(cached))
	}
}
