package pipeline

import (
	"context"
	"log/slog"

	"github.com/leadsift/peoplescan/internal/model"
)

// Step is one stage of a site scan. Steps run in sequence, each
// receiving the result accumulated by its predecessors.
type Step interface {
	// Do executes the step against the scan result. Degraded outcomes
	// (no pages, no people) are recorded as result error tags and
	// return nil; a non-nil error aborts the scan.
	Do(ctx context.Context, result *model.SiteScanResult) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in order against one scan result.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps later steps running after one fails. The
// default is to stop: a failed step usually leaves nothing for the next
// step to work on.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline; add steps with AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs every step against the result. Cancellation is checked
// between steps; steps handle their own timeouts internally. Returns the
// first step error unless the pipeline continues on error.
func (p *Pipeline) Execute(ctx context.Context, result *model.SiteScanResult) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("scan cancelled", "step", step.Name(), "website", result.Website, "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "website", result.Website)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "website", result.Website, "error", err)
			if !p.continueOnError {
				return err
			}
		}
	}
	return nil
}
