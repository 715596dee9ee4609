package jobs

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	fallbackSite         = "Sample"
	fallbackLogoTemplate = "https://logo.clearbit.com/%s.com"
)

type rosterEntry struct {
	company  string
	location string
	url      func(query string) string
}

func pathEncoded(template string) func(string) string {
	return func(q string) string {
		return template + strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
	}
}

func plusEncoded(template string) func(string) string {
	return func(q string) string { return template + url.QueryEscape(q) }
}

var roster = []rosterEntry{
	{"Google", "Mountain View, CA", pathEncoded("https://www.google.com/about/careers/applications/jobs/results?q=")},
	{"Microsoft", "Redmond, WA", pathEncoded("https://jobs.careers.microsoft.com/global/en/search?q=")},
	{"Amazon", "Seattle, WA", plusEncoded("https://www.amazon.jobs/en/search?base_query=")},
	{"Meta", "Menlo Park, CA", pathEncoded("https://www.metacareers.com/jobs?q=")},
	{"Apple", "Cupertino, CA", pathEncoded("https://jobs.apple.com/en-us/search?search=")},
	{"Netflix", "Los Gatos, CA", pathEncoded("https://jobs.netflix.com/search?q=")},
	{"Tesla", "Austin, TX", pathEncoded("https://www.tesla.com/careers/search/?query=")},
	{"Spotify", "New York, NY", pathEncoded("https://www.lifeatspotify.com/jobs?q=")},
	{"Adobe", "San Jose, CA", pathEncoded("https://careers.adobe.com/us/en/search-results?keywords=")},
	{"Salesforce", "San Francisco, CA", pathEncoded("https://careers.salesforce.com/en/search-results?keywords=")},
	{"Uber", "San Francisco, CA", pathEncoded("https://www.uber.com/global/en/careers/list/?keywords=")},
	{"Airbnb", "San Francisco, CA", pathEncoded("https://careers.airbnb.com/positions/?keyword=")},
}

// Fallback builds one synthetic posting per roster company. It is a pure
// function of query.
func Fallback(query string) []Job {
	out := make([]Job, 0, len(roster))
	for i, entry := range roster {
		out = append(out, Job{
			ID:          fmt.Sprintf("sample-%d", i+1),
			Title:       fmt.Sprintf("%s - %s Intern", query, entry.company),
			Company:     entry.company,
			CompanyLogo: fmt.Sprintf(fallbackLogoTemplate, strings.ToLower(entry.company)),
			Location:    entry.location,
			DatePosted:  fmt.Sprintf("%d days ago", i+1),
			Salary:      fmt.Sprintf("$%d-60/hour", 40+i),
			Description: fmt.Sprintf("Join %s as a %s intern. Work on cutting-edge technology and collaborate with world-class engineers on scalable systems.", entry.company, query),
			JobURL:      entry.url(query),
			Site:        fallbackSite,
		})
	}
	return out
}
