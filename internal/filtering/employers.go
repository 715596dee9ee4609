package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
)

type employersFilter struct {
	enabled   bool
	reason    string
	employers map[string]struct{}
	names     []string
	logger    *zap.Logger
}

// NewExcludedEmployers creates a filter that removes postings of the given companies.
// Company names are compared case-insensitively.
func NewExcludedEmployers(employers []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &employersFilter{
		enabled:   true,
		employers: make(map[string]struct{}, len(employers)),
		logger:    logger,
	}
	for _, e := range employers {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			f.employers[e] = struct{}{}
			f.names = append(f.names, e)
		}
	}
	return f
}

func (f *employersFilter) Name() string { return "employers" }

func (f *employersFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *employersFilter) IsEnabled() bool { return f.enabled }

func (f *employersFilter) Validate() error {
	return nil
}

func (f *employersFilter) Apply(_ context.Context, batch []jobs.Job) ([]jobs.Job, Step, error) {
	initial := len(batch)
	if len(f.employers) == 0 {
		return batch, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, excluded := exclude(batch, func(job jobs.Job) bool {
		_, ok := f.employers[strings.ToLower(strings.TrimSpace(job.Company))]
		return ok
	})
	if len(excluded) > 0 {
		f.logger.Info("excluding postings by employers",
			zap.Strings("excluded_employers", f.names),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *employersFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["employers"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
