// Package weworkremotely is a source provider reading the WeWorkRemotely
// programming jobs RSS feed.
package weworkremotely

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/utils"
)

const (
	FeedURL = "https://weworkremotely.com/categories/remote-programming-jobs.rss"
	// DefaultMaxItems caps how many feed entries one search may return.
	DefaultMaxItems = 5
	name            = "weworkremotely"
	descriptionSize = 200
)

type Client struct {
	FeedURL  string
	MaxItems int

	logger     *zap.Logger
	httpClient *http.Client
	parser     *gofeed.Parser
	now        func() time.Time
}

func New(logger *zap.Logger) *Client {
	return &Client{
		FeedURL:    FeedURL,
		MaxItems:   DefaultMaxItems,
		logger:     logger,
		httpClient: &http.Client{Timeout: sources.DefaultTimeout},
		parser:     gofeed.NewParser(),
		now:        time.Now,
	}
}

func (c *Client) Name() string { return name }

// Search downloads the feed and keeps items whose title or description
// mentions any comma separated part of the term. Items older than the query
// recency window are skipped.
func (c *Client) Search(ctx context.Context, q sources.Query) ([]sources.RawRecord, error) {
	feed, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	limit := c.MaxItems
	if q.Limit > 0 && (limit <= 0 || q.Limit < limit) {
		limit = q.Limit
	}

	var oldest time.Time
	if q.HoursOld > 0 {
		oldest = c.now().Add(-time.Duration(q.HoursOld) * time.Hour)
	}

	needles := keywords(q.Term)
	records := make([]sources.RawRecord, 0, limit)
	for _, item := range feed.Items {
		if limit > 0 && len(records) >= limit {
			break
		}
		if item.PublishedParsed != nil && !oldest.IsZero() && item.PublishedParsed.Before(oldest) {
			continue
		}
		description := stripHTML(item.Description)
		if !matches(needles, item.Title, description) {
			continue
		}
		records = append(records, record(item, description))
	}

	c.logger.Debug("filtered feed items",
		zap.Int("items", len(feed.Items)),
		zap.Int("matched", len(records)),
	)

	return records, nil
}

func (c *Client) fetch(ctx context.Context) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, utils.TruncateForLog(string(body), 200))
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed, nil
}

func record(item *gofeed.Item, description string) sources.RawRecord {
	company, title := splitTitle(item.Title)

	posted := item.Published
	if item.PublishedParsed != nil {
		posted = item.PublishedParsed.UTC().Format(time.RFC3339)
	}

	link := item.Link
	if link == "" {
		link = "#"
	}

	return sources.RawRecord{
		sources.KeyTitle:       title,
		sources.KeyCompany:     company,
		sources.KeyLocation:    "Remote",
		sources.KeyDatePosted:  posted,
		sources.KeyDescription: utils.TruncateForLog(description, descriptionSize),
		sources.KeyJobURL:      link,
		sources.KeySite:        name,
	}
}

// splitTitle splits feed titles of the form "Company: Role".
func splitTitle(raw string) (company, title string) {
	company, title, found := strings.Cut(raw, ":")
	if !found {
		return "WeWorkRemotely", strings.TrimSpace(raw)
	}
	return strings.TrimSpace(company), strings.TrimSpace(title)
}

func keywords(term string) []string {
	var out []string
	for _, part := range strings.Split(term, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func matches(needles []string, title, description string) bool {
	if len(needles) == 0 {
		return true
	}
	haystack := strings.ToLower(title + " " + description)
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
