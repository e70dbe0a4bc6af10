package candidate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// GeneralDomain is the fallback label used when no domain could be derived.
const GeneralDomain = "General"

var (
	ErrInvalidCandidate = errors.New("invalid candidate")
	ErrInvalidJob       = errors.New("invalid job requirement")
)

var validate = validator.New()

type Candidates struct {
	Items []*Candidate
}

// Candidate is a stored résumé profile. Only Domain, Skills and ExperienceYears
// take part in scoring; everything else is carried through untouched.
type Candidate struct {
	ID              string    `json:"id,omitempty" mapstructure:"id"`
	Name            string    `json:"name" mapstructure:"name" validate:"required"`
	Email           string    `json:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
	Phone           string    `json:"phone,omitempty" mapstructure:"phone"`
	LinkedIn        string    `json:"linkedin,omitempty" mapstructure:"linkedin"`
	Domain          string    `json:"domain,omitempty" mapstructure:"domain"`
	Skills          []string  `json:"skills,omitempty" mapstructure:"skills"`
	ExperienceYears int       `json:"experience_years" mapstructure:"experience_years" validate:"gte=0"`
	Education       string    `json:"education,omitempty" mapstructure:"education"`
	Seniority       string    `json:"seniority,omitempty" mapstructure:"seniority"`
	Filename        string    `json:"filename,omitempty" mapstructure:"filename"`
	CreatedAt       time.Time `json:"created_at,omitzero" mapstructure:"-"`
	UpdatedAt       time.Time `json:"updated_at,omitzero" mapstructure:"-"`
}

// Scored is a copy of a candidate with the overall match score attached.
// A nil Score means the candidate has not been scored yet.
type Scored struct {
	Candidate
	Score *float64 `json:"match_score,omitempty"`
}

// Validate checks the candidate at the boundary before it is stored or scored.
func (c *Candidate) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	return nil
}

// Clone returns a deep copy so callers can attach derived data without touching the original.
func (c *Candidate) Clone() Candidate {
	cp := *c
	cp.Skills = slices.Clone(c.Skills)
	return cp
}

// DomainOrDefault returns the domain label, falling back to General when it is empty.
func (c *Candidate) DomainOrDefault() string {
	if strings.TrimSpace(c.Domain) == "" {
		return GeneralDomain
	}
	return c.Domain
}

// ScoreValue returns the attached score or 0 when the candidate was never scored.
func (s Scored) ScoreValue() float64 {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}

// WithScore returns a scored copy of the candidate.
func WithScore(c *Candidate, score float64) Scored {
	return Scored{Candidate: c.Clone(), Score: &score}
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Keep leaves only candidates accepted by keep, preserving order, and returns the IDs of the dropped ones.
func (c *Candidates) Keep(keep func(*Candidate) bool) []string {
	var dropped []string
	kept := c.Items[:0]
	for _, item := range c.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item.ID)
	}
	clear(c.Items[len(kept):])
	c.Items = kept
	return dropped
}

// Exclude removes candidates by id and returns the removed ids.
func (c *Candidates) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}
	return c.Keep(func(item *Candidate) bool {
		_, found := targets[item.ID]
		return !found
	})
}

// ReportByDomain groups short candidate descriptions by domain label.
func (c *Candidates) ReportByDomain() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range c.Items {
		key := item.DomainOrDefault()
		report[key] = append(report[key], map[string]string{
			"id":         item.ID,
			"name":       item.Name,
			"email":      item.Email,
			"experience": fmt.Sprintf("%d years", item.ExperienceYears),
			"seniority":  item.Seniority,
			"skills":     strings.Join(item.Skills, ", "),
		})
	}
	return report
}

// DumpToTmpFile writes the candidates to a temporary JSON file.
func (c *Candidates) DumpToTmpFile() (string, error) {
	return dumpToTmpFile("candidates_*.json", c)
}

// DumpScoredToTmpFile writes a ranking result to a temporary JSON file.
func DumpScoredToTmpFile(scored []Scored) (string, error) {
	return dumpToTmpFile("ranking_*.json", scored)
}

func dumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
