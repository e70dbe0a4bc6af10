package filtering

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/profile"
)

const notConfiguredMsg = "not configured"

type minExperienceFilter struct {
	toggle
	years int
}

// NewMinExperience creates a filter that drops candidates with fewer years of experience.
func NewMinExperience(years int) Filter {
	f := &minExperienceFilter{years: years}
	if years == 0 {
		f.Disable(notConfiguredMsg)
	}
	return f
}

func (f *minExperienceFilter) Name() string { return "min_experience" }

func (f *minExperienceFilter) Validate() error {
	if f.years < 0 {
		return fmt.Errorf("minimum experience must not be negative, got %d", f.years)
	}
	return nil
}

func (f *minExperienceFilter) Apply(_ context.Context, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	step := keep(c, func(item *candidate.Candidate) bool {
		return item.ExperienceYears >= f.years
	})
	return c, step, nil
}

func (f *minExperienceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"years": strconv.Itoa(f.years)},
	}
}

type domainsFilter struct {
	toggle
	domains []string
}

// NewDomains creates a filter that keeps candidates from the listed domains, ignoring case.
func NewDomains(domains []string) Filter {
	f := &domainsFilter{}
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			f.domains = append(f.domains, d)
		}
	}
	if len(f.domains) == 0 {
		f.Disable(notConfiguredMsg)
	}
	return f
}

func (f *domainsFilter) Name() string { return "domains" }

func (f *domainsFilter) Validate() error { return nil }

func (f *domainsFilter) Apply(_ context.Context, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	step := keep(c, func(item *candidate.Candidate) bool {
		return slices.ContainsFunc(f.domains, func(d string) bool {
			return strings.EqualFold(d, item.Domain)
		})
	})
	return c, step, nil
}

func (f *domainsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"domains": strings.Join(f.domains, ",")},
	}
}

type mustHaveSkillsFilter struct {
	toggle
	skills []string
}

// NewMustHaveSkills creates a filter that keeps candidates mentioning at least
// one of the skills anywhere in their skill list.
func NewMustHaveSkills(skills []string) Filter {
	f := &mustHaveSkillsFilter{}
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			f.skills = append(f.skills, s)
		}
	}
	if len(f.skills) == 0 {
		f.Disable(notConfiguredMsg)
	}
	return f
}

func (f *mustHaveSkillsFilter) Name() string { return "must_have_skills" }

func (f *mustHaveSkillsFilter) Validate() error { return nil }

func (f *mustHaveSkillsFilter) Apply(_ context.Context, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	step := keep(c, func(item *candidate.Candidate) bool {
		joined := strings.ToLower(strings.Join(item.Skills, " "))
		return slices.ContainsFunc(f.skills, func(s string) bool {
			return strings.Contains(joined, s)
		})
	})
	return c, step, nil
}

func (f *mustHaveSkillsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"skills": strings.Join(f.skills, ",")},
	}
}

type minEducationFilter struct {
	toggle
	level string
}

// NewMinEducation creates a filter that drops candidates below the given degree.
// Candidates without a recognised degree are dropped as well.
func NewMinEducation(level string) Filter {
	f := &minEducationFilter{level: strings.TrimSpace(level)}
	if f.level == "" {
		f.Disable(notConfiguredMsg)
	}
	return f
}

func (f *minEducationFilter) Name() string { return "min_education" }

func (f *minEducationFilter) Validate() error {
	if profile.EducationRank(f.level) == 0 {
		return fmt.Errorf("unknown education level %q", f.level)
	}
	return nil
}

func (f *minEducationFilter) Apply(_ context.Context, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	minRank := profile.EducationRank(f.level)
	step := keep(c, func(item *candidate.Candidate) bool {
		return profile.EducationRank(item.Education) >= minRank
	})
	return c, step, nil
}

func (f *minEducationFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"level": f.level},
	}
}
