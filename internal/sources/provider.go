// Package sources dispatches search terms to job board providers and collects
// their raw records.
package sources

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultTarget is the accumulated record count after which no further terms are issued.
	DefaultTarget = 50
	// DefaultLimit is the per-call result cap when the caller does not specify one.
	DefaultLimit = 20
	// RecencyWindow bounds how old a posting a provider may return.
	RecencyWindow = 7 * 24 * time.Hour
	// DefaultTimeout is the deadline of a single provider call.
	DefaultTimeout = 10 * time.Second

	remoteLocation = "Remote"
)

// Well-known RawRecord keys. Providers fill the ones they know about.
const (
	KeyTitle       = "title"
	KeyCompany     = "company"
	KeyCompanyURL  = "company_url"
	KeyCompanyLogo = "company_logo"
	KeyLocation    = "location"
	KeyDatePosted  = "date_posted"
	KeyMinAmount   = "min_amount"
	KeyMaxAmount   = "max_amount"
	KeyCurrency    = "currency"
	KeyDescription = "description"
	KeyJobURL      = "job_url"
	KeySite        = "site"
)

// RawRecord is a provider-specific job posting. Its schema is not fixed.
type RawRecord map[string]any

// Query is a single provider call.
type Query struct {
	Term     string
	Location string
	Limit    int
	HoursOld int
}

// Provider performs the actual query against one job board.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]RawRecord, error)
}

// NormalizeLocation rewrites an empty or "worldwide" location to "Remote".
func NormalizeLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" || strings.EqualFold(location, "worldwide") {
		return remoteLocation
	}
	return location
}
