package jobs

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/sources"
)

const (
	domainLogoTemplate   = "https://logo.clearbit.com/%s"
	companyLogoTemplate  = "https://logo.clearbit.com/%s.com"
	initialsLogoTemplate = "https://ui-avatars.com/api/?name=%s&background=random&size=120"

	defaultTitle       = "Untitled"
	defaultCompany     = "Unknown Company"
	defaultLocation    = "Remote"
	defaultDescription = "No description available"
	defaultJobURL      = "#"
	defaultSite        = "Unknown"
	defaultDatePosted  = "Recently"
	defaultCurrency    = "USD"
	competitiveSalary  = "Competitive"
)

// Company names that say nothing about the employer.
var genericCompanies = map[string]struct{}{
	"company":        {},
	"unknown":        {},
	"unknowncompany": {},
	"employer":       {},
	"confidential":   {},
	"inc":            {},
	"corporation":    {},
	"llc":            {},
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	relativeDate    = regexp.MustCompile(`^(\d+)\+?\s*(minute|hour|day|week|month)s?\s+ago$`)
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// record is the loose shape of a RawRecord.
type record struct {
	Title       string   `mapstructure:"title"`
	Company     string   `mapstructure:"company"`
	CompanyURL  string   `mapstructure:"company_url"`
	CompanyLogo string   `mapstructure:"company_logo"`
	Location    string   `mapstructure:"location"`
	DatePosted  string   `mapstructure:"date_posted"`
	MinAmount   *float64 `mapstructure:"min_amount"`
	MaxAmount   *float64 `mapstructure:"max_amount"`
	Currency    string   `mapstructure:"currency"`
	Description string   `mapstructure:"description"`
	JobURL      string   `mapstructure:"job_url"`
	Site        string   `mapstructure:"site"`
}

// Normalizer maps raw provider records onto Job.
type Normalizer struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger, now: time.Now}
}

func (n *Normalizer) NormalizeAll(raws []sources.RawRecord) []Job {
	out := make([]Job, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw))
	}
	return out
}

// Normalize never fails. Fields that cannot be decoded get their defaults.
func (n *Normalizer) Normalize(raw sources.RawRecord) Job {
	var r record
	if err := decode(raw, &r); err != nil {
		n.logger.Debug("raw record decoded partially", zap.Error(err))
	}

	job := Job{
		Title:       orDefault(cleanTitle(r.Title), defaultTitle),
		Company:     orDefault(strings.TrimSpace(r.Company), defaultCompany),
		Location:    orDefault(strings.TrimSpace(r.Location), defaultLocation),
		DatePosted:  orDefault(strings.TrimSpace(r.DatePosted), defaultDatePosted),
		Salary:      formatSalary(r.MinAmount, r.MaxAmount, r.Currency),
		Description: orDefault(strings.TrimSpace(r.Description), defaultDescription),
		JobURL:      orDefault(strings.TrimSpace(r.JobURL), defaultJobURL),
		Site:        orDefault(strings.TrimSpace(r.Site), defaultSite),
	}
	job.CompanyLogo = resolveLogo(strings.TrimSpace(r.CompanyLogo), strings.TrimSpace(r.CompanyURL), job.Company)
	job.PostedAt = ParseDate(r.DatePosted, n.now())
	job.ID = jobID(job)

	return job
}

func decode(raw sources.RawRecord, out *record) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       timeToString,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return decoder.Decode(map[string]any(raw))
}

// timeToString lets providers hand over parsed timestamps.
func timeToString(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return v.UTC().Format(time.RFC3339), nil
	}
	return data, nil
}

func jobID(job Job) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(job.JobURL+"\n"+job.DedupKey())).String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	const prefix, suffix = "internship - ", " - intern"
	if len(title) >= len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
		title = title[len(prefix):]
	}
	if len(title) >= len(suffix) && strings.EqualFold(title[len(title)-len(suffix):], suffix) {
		title = title[:len(title)-len(suffix)]
	}
	return strings.TrimSpace(title)
}

func resolveLogo(logo, companyURL, company string) string {
	if logo != "" {
		return logo
	}
	if domain := domainOf(companyURL); domain != "" {
		return fmt.Sprintf(domainLogoTemplate, domain)
	}
	if company == "" {
		return ""
	}
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(company), "")
	if _, generic := genericCompanies[slug]; slug != "" && !generic {
		return fmt.Sprintf(companyLogoTemplate, slug)
	}
	return fmt.Sprintf(initialsLogoTemplate, url.QueryEscape(company))
}

func domainOf(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func formatSalary(minAmount, maxAmount *float64, currency string) string {
	if !present(minAmount) {
		return competitiveSalary
	}
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = defaultCurrency
	}
	if !present(maxAmount) {
		return fmt.Sprintf("%s %s", formatAmount(*minAmount), currency)
	}
	return fmt.Sprintf("%s - %s %s", formatAmount(*minAmount), formatAmount(*maxAmount), currency)
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 0
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseDate returns the zero time for values it cannot understand.
func ParseDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	lower := strings.ToLower(raw)
	switch lower {
	case "today", "just posted", "just now":
		return now
	case "yesterday":
		return now.AddDate(0, 0, -1)
	}

	m := relativeDate.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}
	}
	switch m[2] {
	case "minute":
		return now.Add(-time.Duration(n) * time.Minute)
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour)
	case "day":
		return now.AddDate(0, 0, -n)
	case "week":
		return now.AddDate(0, 0, -7*n)
	default:
		return now.AddDate(0, -n, 0)
	}
}
