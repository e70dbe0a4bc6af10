package profile

import "strings"

// sectionHeadings end the projects section.
var sectionHeadings = []string{"experience", "education", "skills", "certifications"}

var bulletPrefixes = []string{"•", "-", "*"}

// Insights are the résumé details reported next to a candidate. They do not
// take part in scoring.
type Insights struct {
	SkillCategories  []SkillCategory   `json:"skill_categories,omitempty"`
	SkillProficiency map[string]string `json:"skill_proficiency,omitempty"`
	KeyProjects      []string          `json:"key_projects,omitempty"`
}

// Summarize builds the insights for an analyzed document. skills should be the
// candidate's enhanced skills.
func Summarize(raw *Raw, skills []string) Insights {
	if raw == nil {
		return Insights{}
	}
	insights := Insights{
		SkillCategories: SkillCategories(skills),
		KeyProjects:     KeyProjects(raw.RawText),
	}
	if len(skills) > 0 {
		insights.SkillProficiency = SkillProficiency(skills, raw.RawText)
	}
	return insights
}

// KeyProjects collects the entries listed after a projects heading. A bulleted
// line starts a new project and any other line continues the current one. The
// list stops at the next experience, education, skills or certifications line.
func KeyProjects(text string) []string {
	var (
		projects []string
		current  []string
		started  bool
	)

	flush := func() {
		if len(current) > 0 {
			projects = append(projects, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if strings.Contains(lower, "projects") {
			started = true
			continue
		}
		if !started || line == "" {
			continue
		}
		if containsAny(lower, sectionHeadings) {
			break
		}

		if hasAnyPrefix(line, bulletPrefixes) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return projects
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
