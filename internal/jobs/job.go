// Package jobs turns raw provider records into a ranked, deduplicated list of
// job postings.
package jobs

import (
	"strings"
	"time"
)

const (
	DefaultQuery         = "software engineer intern"
	DefaultLocation      = "United States"
	DefaultResultsWanted = 20
	// MaxResults bounds the size of a ranked batch.
	MaxResults = 50
)

// Job is the canonical posting returned to clients.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	CompanyLogo string `json:"company_logo"`
	Location    string `json:"location"`
	DatePosted  string `json:"date_posted"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	JobURL      string `json:"job_url"`
	Site        string `json:"site"`

	// PostedAt is the parsed DatePosted. Zero when unknown.
	PostedAt time.Time `json:"-"`
}

// DedupKey collapses postings of the same role at the same company.
func (j Job) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(j.Title)) + "|" + strings.ToLower(strings.TrimSpace(j.Company))
}

type SearchQuery struct {
	Query         string
	Location      string
	ResultsWanted int
}

// WithDefaults fills empty fields with the public API defaults.
func (q SearchQuery) WithDefaults() SearchQuery {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		q.Query = DefaultQuery
	}
	q.Location = strings.TrimSpace(q.Location)
	if q.Location == "" {
		q.Location = DefaultLocation
	}
	if q.ResultsWanted <= 0 {
		q.ResultsWanted = DefaultResultsWanted
	}
	return q
}
