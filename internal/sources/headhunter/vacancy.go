package headhunter

import (
	"strings"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
)

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Area         Area     `json:"area,omitempty"`
	Salary       *Salary  `json:"salary,omitempty"`
	Employer     Employer `json:"employer,omitempty"`
	AlternateURL string   `json:"alternate_url,omitempty"`
	Snippet      Snippet  `json:"snippet,omitempty"`
	PublishedAt  string   `json:"published_at,omitempty"`
	Archived     bool     `json:"archived,omitempty"`
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type Employer struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	LogoUrls struct {
		Original string `json:"original,omitempty"`
	} `json:"logo_urls,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// Records converts vacancies into raw records, skipping archived ones.
func (v *Vacancies) Records() []sources.RawRecord {
	records := make([]sources.RawRecord, 0, len(v.Items))
	for _, vacancy := range v.Items {
		if vacancy == nil || vacancy.Archived {
			continue
		}
		records = append(records, vacancy.Record())
	}
	return records
}

// Record maps a vacancy onto the well-known raw record keys.
func (va *Vacancy) Record() sources.RawRecord {
	record := sources.RawRecord{
		sources.KeyTitle:       va.Name,
		sources.KeyCompany:     va.Employer.Name,
		sources.KeyLocation:    va.Area.Name,
		sources.KeyDatePosted:  va.PublishedAt,
		sources.KeyDescription: va.description(),
		sources.KeyJobURL:      va.AlternateURL,
		sources.KeySite:        name,
	}

	if logo := va.Employer.LogoUrls.Original; logo != "" {
		record[sources.KeyCompanyLogo] = logo
	}

	if va.Salary != nil && va.Salary.From > 0 {
		record[sources.KeyMinAmount] = va.Salary.From
		if va.Salary.To > 0 {
			record[sources.KeyMaxAmount] = va.Salary.To
		}
		record[sources.KeyCurrency] = va.Salary.Currency
	}

	return record
}

func (va *Vacancy) description() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{va.Snippet.Responsibility, va.Snippet.Requirement} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
