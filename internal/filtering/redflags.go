package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
)

const minRedFlagLength = 3

type redFlagsFilter struct {
	enabled bool
	reason  string
	terms   []string
	logger  *zap.Logger
}

// NewRedFlags creates a filter that removes postings mentioning any of terms
// in their title, company or description.
func NewRedFlags(terms []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &redFlagsFilter{enabled: true, logger: logger}
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			f.terms = append(f.terms, term)
		}
	}
	return f
}

func (f *redFlagsFilter) Name() string { return "red_flags" }

func (f *redFlagsFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *redFlagsFilter) IsEnabled() bool { return f.enabled }

// Validate rejects terms short enough to match almost any posting.
func (f *redFlagsFilter) Validate() error {
	for _, term := range f.terms {
		if len([]rune(term)) < minRedFlagLength {
			return fmt.Errorf("red flag %q is shorter than %d characters", term, minRedFlagLength)
		}
	}
	return nil
}

func (f *redFlagsFilter) Apply(_ context.Context, batch []jobs.Job) ([]jobs.Job, Step, error) {
	initial := len(batch)
	if len(f.terms) == 0 {
		return batch, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, excluded := exclude(batch, f.flagged)
	if len(excluded) > 0 {
		f.logger.Info("excluding postings with red flags",
			zap.Strings("red_flags", f.terms),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *redFlagsFilter) flagged(job jobs.Job) bool {
	combined := strings.ToLower(job.Title + " " + job.Company + " " + job.Description)
	for _, term := range f.terms {
		if strings.Contains(combined, term) {
			return true
		}
	}
	return false
}

func (f *redFlagsFilter) Status() Status {
	details := map[string]string{}
	if len(f.terms) > 0 {
		details["terms"] = strings.Join(f.terms, ",")
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
