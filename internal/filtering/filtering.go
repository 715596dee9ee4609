// Package filtering removes unwanted postings between normalization and ranking.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
)

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, batch []jobs.Job) ([]jobs.Job, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Chain runs its steps in order and satisfies jobs.Refiner.
type Chain struct {
	steps  []Filter
	logger *zap.Logger
}

func NewChain(logger *zap.Logger, steps ...Filter) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{steps: steps, logger: logger}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (c *Chain) DisableByName(name, reason string) {
	for _, step := range c.steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Validate checks every enabled step.
func (c *Chain) Validate() error {
	for _, step := range c.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

func (c *Chain) Refine(ctx context.Context, batch []jobs.Job) ([]jobs.Job, error) {
	for _, step := range c.steps {
		if !step.IsEnabled() {
			c.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		c.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		batch = next
	}

	return batch, nil
}

// Describe returns status entries for the chain's filters.
func (c *Chain) Describe() []Status {
	statuses := make([]Status, 0, len(c.steps))
	for _, step := range c.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// exclude keeps the postings for which drop returns false.
func exclude(batch []jobs.Job, drop func(jobs.Job) bool) (kept []jobs.Job, dropped []string) {
	kept = make([]jobs.Job, 0, len(batch))
	for _, job := range batch {
		if drop(job) {
			dropped = append(dropped, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	return kept, dropped
}
