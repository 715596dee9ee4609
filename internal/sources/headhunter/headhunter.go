// Package headhunter is a source provider backed by the public hh.ru vacancy search API.
package headhunter

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "job-scraper/1.0 (+https://github.com/amith-0609/HackAnanta-Team-Terminators)"
	// Max value for search per page.
	maxPerPage = 100
	name       = "headhunter"
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// Area restricts the search to an hh.ru region id. Zero means everywhere.
	Area int
}

func New(logger *zap.Logger) *Client {
	return &Client{
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func (c *Client) Name() string { return name }

// Search implements sources.Provider.
func (c *Client) Search(ctx context.Context, q sources.Query) ([]sources.RawRecord, error) {
	params := &SearchParams{
		Text:    q.Term,
		OrderBy: "publication_time",
		PerPage: q.Limit,
		Period:  uint(q.HoursOld / 24),
	}
	if c.Area > 0 {
		params.Areas = []int{c.Area}
	}
	if q.Location == "Remote" {
		params.Schedules = []string{"remote"}
	}

	vacancies, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}

	return vacancies.Records(), nil
}
