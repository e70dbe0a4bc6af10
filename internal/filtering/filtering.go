package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

// Filter represents a single filtering step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, c *candidate.Candidates) (*candidate.Candidates, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial  int
	Dropped  int
	Left     int
	Excluded []string
}

// Config contains the criteria consumed by the filters.
type Config struct {
	MinExperience  int      `mapstructure:"min-experience"`
	Domains        []string `mapstructure:"domains"`
	MustHaveSkills []string `mapstructure:"must-have-skills"`
	MinEducation   string   `mapstructure:"min-education"`
	ExcludeFile    string   `mapstructure:"exclude-file"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// toggle is embedded by filters to implement Disable and IsEnabled.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// Filtering runs a fixed list of filters in order.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{steps: steps, logger: logger}
}

// FromConfig builds the standard pipeline. Criteria left empty in cfg produce
// disabled steps so that Describe still lists them.
func FromConfig(cfg *Config, logger *zap.Logger) *Filtering {
	if cfg == nil {
		cfg = &Config{}
	}

	steps := []Filter{
		NewMinExperience(cfg.MinExperience),
		NewDomains(cfg.Domains),
		NewMustHaveSkills(cfg.MustHaveSkills),
		NewMinEducation(cfg.MinEducation),
		NewExcludeFile(cfg.ExcludeFile),
	}

	return New(steps, logger)
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (f *Filtering) DisableByName(name, reason string) {
	for _, step := range f.steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunFilters validates every enabled filter first and then applies them in
// order. The candidates list is filtered in place and returned.
func (f *Filtering) RunFilters(ctx context.Context, c *candidate.Candidates) (*candidate.Candidates, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		if len(info.Excluded) > 0 {
			f.logger.Debug("excluded candidates",
				zap.String("name", step.Name()),
				zap.Strings("excluded_candidates", info.Excluded),
			)
		}

		c = next
	}

	return c, nil
}

// Describe returns status entries for the filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
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

func keep(c *candidate.Candidates, accept func(*candidate.Candidate) bool) Step {
	initial := c.Len()
	dropped := c.Keep(accept)
	return Step{Initial: initial, Dropped: len(dropped), Left: c.Len(), Excluded: dropped}
}
