package sources

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubProvider struct {
	name    string
	delay   time.Duration
	err     error
	panics  bool
	perTerm int

	mu    sync.Mutex
	calls []Query
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, q Query) ([]RawRecord, error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	s.mu.Unlock()

	if s.panics {
		panic("boom")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}

	records := make([]RawRecord, 0, s.perTerm)
	for i := 0; i < s.perTerm; i++ {
		records = append(records, RawRecord{
			KeyTitle:  fmt.Sprintf("%s/%s/%d", s.name, q.Term, i),
			KeyJobURL: fmt.Sprintf("https://%s.example/%s/%d", s.name, q.Term, i),
		})
	}
	return records, nil
}

func (s *stubProvider) queries() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Query(nil), s.calls...)
}

func titles(records []RawRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r[KeyTitle].(string))
	}
	return out
}

func TestNormalizeLocation(t *testing.T) {
	tests := map[string]string{
		"":              "Remote",
		"   ":           "Remote",
		"Worldwide":     "Remote",
		"WORLDWIDE":     "Remote",
		"United States": "United States",
	}
	for in, want := range tests {
		if got := NormalizeLocation(in); got != want {
			t.Fatalf("NormalizeLocation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollectRewritesWorldwideToRemote(t *testing.T) {
	provider := &stubProvider{name: "a", perTerm: 1}
	fanout := NewFanout([]Provider{provider}, zap.NewNop())

	fanout.Collect(context.Background(), []string{"frontend"}, "Worldwide", 5)

	calls := provider.queries()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Location != "Remote" {
		t.Fatalf("expected dispatched location Remote, got %q", calls[0].Location)
	}
	if calls[0].Limit != 5 || calls[0].HoursOld != 168 {
		t.Fatalf("unexpected query: %+v", calls[0])
	}
}

func TestCollectMergesInProviderOrder(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: 30 * time.Millisecond, perTerm: 2}
	fast := &stubProvider{name: "fast", perTerm: 2}
	fanout := NewFanout([]Provider{slow, fast}, zap.NewNop())

	records := fanout.Collect(context.Background(), []string{"t1", "t2"}, "Remote", 10)

	want := []string{
		"slow/t1/0", "slow/t1/1", "fast/t1/0", "fast/t1/1",
		"slow/t2/0", "slow/t2/1", "fast/t2/0", "fast/t2/1",
	}
	got := titles(records)
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCollectStopsAtTarget(t *testing.T) {
	provider := &stubProvider{name: "big", perTerm: 30}
	fanout := NewFanout([]Provider{provider}, zap.NewNop())

	records := fanout.Collect(context.Background(), []string{"a", "b", "c", "d"}, "Remote", 30)

	if len(records) != 60 {
		t.Fatalf("expected 60 records after two terms, got %d", len(records))
	}
	if calls := provider.queries(); len(calls) != 2 {
		t.Fatalf("expected 2 terms issued, got %d", len(calls))
	}
}

func TestCollectIsolatesProviderFailures(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("503 upstream")}
	panicking := &stubProvider{name: "panicking", panics: true}
	healthy := &stubProvider{name: "healthy", perTerm: 1}

	var mu sync.Mutex
	outcomes := map[string]string{}
	fanout := NewFanout([]Provider{failing, panicking, healthy}, zap.NewNop(),
		WithObserver(func(source, outcome string) {
			mu.Lock()
			defer mu.Unlock()
			outcomes[source] = outcome
		}),
	)

	records := fanout.Collect(context.Background(), []string{"x", "y"}, "Remote", 1)

	if len(records) != 2 {
		t.Fatalf("expected healthy provider records for both terms, got %d", len(records))
	}
	if len(failing.queries()) != 2 {
		t.Fatalf("failing provider must still be called for every term")
	}
	if outcomes["failing"] != OutcomeError || outcomes["panicking"] != OutcomeError || outcomes["healthy"] != OutcomeOK {
		t.Fatalf("unexpected outcomes: %v", outcomes)
	}
}

func TestCollectTagsSite(t *testing.T) {
	fanout := NewFanout([]Provider{&stubProvider{name: "adzuna", perTerm: 1}}, zap.NewNop())

	records := fanout.Collect(context.Background(), []string{"go"}, "", 0)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0][KeySite] != "adzuna" {
		t.Fatalf("expected site to default to provider name, got %v", records[0][KeySite])
	}
}

func TestCollectRespectsTimeout(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: time.Second, perTerm: 1}
	fanout := NewFanout([]Provider{slow}, zap.NewNop(), WithTimeout(10*time.Millisecond))

	start := time.Now()
	records := fanout.Collect(context.Background(), []string{"a"}, "Remote", 1)
	if len(records) != 0 {
		t.Fatalf("expected no records from timed out provider, got %d", len(records))
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("timeout not applied")
	}
}
