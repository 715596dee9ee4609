// Package adzuna is a source provider backed by the Adzuna job search API.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/utils"
)

const (
	baseURL     = "https://api.adzuna.com/v1/api/jobs"
	pageSize    = 50
	maxPages    = 3
	httpTimeout = 15 * time.Second
	name        = "adzuna"
)

// Client fetches offers from Adzuna. Without AppID or AppKey, Search returns
// nothing and no error.
type Client struct {
	AppID   string
	AppKey  string
	Country string
	BaseURL string

	logger     *zap.Logger
	httpClient *http.Client
}

func New(appID, appKey, country string, logger *zap.Logger) *Client {
	if country == "" {
		country = "us"
	}
	return &Client{
		AppID:      appID,
		AppKey:     appKey,
		Country:    country,
		BaseURL:    baseURL,
		logger:     logger,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

func (c *Client) Name() string { return name }

type response struct {
	Results []result `json:"results"`
	Count   int      `json:"count"`
}

type result struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Company     named   `json:"company"`
	Location    named   `json:"location"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	RedirectURL string  `json:"redirect_url"`
	Created     string  `json:"created"`
}

type named struct {
	DisplayName string `json:"display_name"`
}

// Search pages through results until the query limit, the last page or
// maxPages is reached.
func (c *Client) Search(ctx context.Context, q sources.Query) ([]sources.RawRecord, error) {
	if c.AppID == "" || c.AppKey == "" {
		c.logger.Debug("adzuna credentials are not set, skipping")
		return nil, nil
	}

	perPage := pageSize
	if q.Limit > 0 && q.Limit < perPage {
		perPage = q.Limit
	}

	var records []sources.RawRecord
	for page := 1; page <= maxPages; page++ {
		batch, err := c.fetchPage(ctx, q, page, perPage)
		if err != nil {
			return records, fmt.Errorf("page %d: %w", page, err)
		}
		records = append(records, batch...)
		if len(batch) < perPage || (q.Limit > 0 && len(records) >= q.Limit) {
			break
		}
	}

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}

	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, q sources.Query, page, perPage int) ([]sources.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", c.BaseURL, c.Country, page)

	params := url.Values{}
	params.Set("app_id", c.AppID)
	params.Set("app_key", c.AppKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("what", q.Term)
	if q.Location != "" && q.Location != "Remote" {
		params.Set("where", q.Location)
	}
	if days := q.HoursOld / 24; days > 0 {
		params.Set("max_days_old", strconv.Itoa(days))
	}
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, utils.TruncateForLog(string(body), 200))
	}

	var apiResp response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	c.logger.Debug("got adzuna page", zap.Int("page", page), zap.Int("results", len(apiResp.Results)), zap.Int("count", apiResp.Count))

	records := make([]sources.RawRecord, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		records = append(records, r.record(currency(c.Country)))
	}

	return records, nil
}

var currencies = map[string]string{
	"gb": "GBP",
	"au": "AUD",
	"ca": "CAD",
	"in": "INR",
	"de": "EUR",
	"fr": "EUR",
	"nl": "EUR",
	"it": "EUR",
	"es": "EUR",
}

func currency(country string) string {
	if c, ok := currencies[country]; ok {
		return c
	}
	return "USD"
}

func (r result) record(currency string) sources.RawRecord {
	record := sources.RawRecord{
		sources.KeyTitle:       r.Title,
		sources.KeyCompany:     r.Company.DisplayName,
		sources.KeyLocation:    r.Location.DisplayName,
		sources.KeyDescription: r.Description,
		sources.KeyJobURL:      r.RedirectURL,
		sources.KeyDatePosted:  r.Created,
		sources.KeySite:        name,
	}
	if r.SalaryMin > 0 {
		record[sources.KeyMinAmount] = r.SalaryMin
		if r.SalaryMax > 0 {
			record[sources.KeyMaxAmount] = r.SalaryMax
		}
		record[sources.KeyCurrency] = currency
	}
	return record
}
