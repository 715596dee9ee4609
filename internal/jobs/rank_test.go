package jobs

import (
	"fmt"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestRankDropsRepeatedURLs(t *testing.T) {
	batch := []Job{
		{ID: "a", Title: "Go Dev", Company: "Acme", JobURL: "https://x/1"},
		{ID: "b", Title: "Rust Dev", Company: "Acme", JobURL: "https://x/1"},
		{ID: "c", Title: "Zig Dev", Company: "Acme", JobURL: "#"},
		{ID: "d", Title: "C Dev", Company: "Acme", JobURL: "#"},
	}

	got := Rank(batch)
	if len(got) != 3 {
		t.Fatalf("expected 3 jobs, got %d: %+v", len(got), got)
	}
	if got[0].ID != "a" {
		t.Fatalf("first occurrence must win, got %q", got[0].ID)
	}
}

func TestRankNewestWinsKeyCollision(t *testing.T) {
	batch := []Job{
		{ID: "old", Title: "Go Dev", Company: "Acme", JobURL: "https://a/1", PostedAt: day(1)},
		{ID: "unknown", Title: "go dev ", Company: " ACME", JobURL: "https://b/1"},
		{ID: "new", Title: "Go Dev", Company: "acme", JobURL: "https://c/1", PostedAt: day(5)},
		{ID: "other", Title: "Python Dev", Company: "Acme", JobURL: "https://d/1", PostedAt: day(3)},
	}

	got := Rank(batch)
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d: %+v", len(got), got)
	}
	if got[0].ID != "new" || got[1].ID != "other" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestRankUnknownDatesLastAndStable(t *testing.T) {
	batch := []Job{
		{ID: "u1", Title: "A", JobURL: "https://x/a"},
		{ID: "d2", Title: "B", JobURL: "https://x/b", PostedAt: day(2)},
		{ID: "u2", Title: "C", JobURL: "https://x/c"},
		{ID: "d9", Title: "D", JobURL: "https://x/d", PostedAt: day(9)},
	}

	got := Rank(batch)
	want := []string{"d9", "d2", "u1", "u2"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestRankTruncates(t *testing.T) {
	var batch []Job
	for i := 0; i < 80; i++ {
		batch = append(batch, Job{Title: fmt.Sprintf("Role %d", i), Company: "Acme", JobURL: fmt.Sprintf("https://x/%d", i)})
	}
	if got := len(Rank(batch)); got != MaxResults {
		t.Fatalf("expected %d jobs, got %d", MaxResults, got)
	}
}

func TestRankNoDuplicateKeys(t *testing.T) {
	var batch []Job
	for i := 0; i < 30; i++ {
		batch = append(batch, Job{
			Title:    fmt.Sprintf("Role %d", i%7),
			Company:  fmt.Sprintf("Company %d", i%3),
			JobURL:   fmt.Sprintf("https://x/%d", i),
			PostedAt: day(1 + i%28),
		})
	}

	seen := map[string]bool{}
	for _, job := range Rank(batch) {
		if seen[job.DedupKey()] {
			t.Fatalf("duplicate key %q", job.DedupKey())
		}
		seen[job.DedupKey()] = true
	}
}
