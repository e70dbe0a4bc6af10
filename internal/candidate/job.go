package candidate

import (
	"fmt"
	"strings"
)

// JobRequirement is built by the caller for a single ranking request and is never persisted.
type JobRequirement struct {
	Title              string   `json:"title,omitempty" mapstructure:"title"`
	Domain             string   `json:"domain,omitempty" mapstructure:"domain"`
	RequiredExperience int      `json:"required_experience" mapstructure:"required_experience" validate:"gte=0"`
	RequiredSkills     []string `json:"required_skills,omitempty" mapstructure:"required_skills" validate:"dive,required"`
	NiceToHaveSkills   []string `json:"nice_to_have_skills,omitempty" mapstructure:"nice_to_have_skills"`
	JobDescription     string   `json:"job_description,omitempty" mapstructure:"job_description"`
}

func (j *JobRequirement) Validate() error {
	if j == nil {
		return fmt.Errorf("%w: job requirement is nil", ErrInvalidJob)
	}
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return nil
}

// DomainOrDefault returns the required domain, falling back to General when it is empty.
func (j *JobRequirement) DomainOrDefault() string {
	if strings.TrimSpace(j.Domain) == "" {
		return GeneralDomain
	}
	return j.Domain
}
