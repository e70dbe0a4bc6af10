package profile

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// skillPatterns find well-known tools in free text that extractors tend to miss.
var skillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(git|github|gitlab|bitbucket|svn|mercurial)\b`),
	regexp.MustCompile(`\b(mysql|postgresql|mongodb|redis|oracle|sql server|sqlite)\b`),
	regexp.MustCompile(`\b(aws|azure|gcp|google cloud|amazon web services)\b`),
	regexp.MustCompile(`\b(unit test|integration test|pytest|jest|selenium|cypress)\b`),
	regexp.MustCompile(`\b(agile|scrum|kanban|devops|ci/cd|tdd|bdd)\b`),
}

// EnhanceSkills merges the extracted skills with tools mentioned in the text.
// Skills are trimmed and deduplicated ignoring case, keeping the first
// spelling seen. Skills found only in the text are title-cased. The result is sorted.
func EnhanceSkills(skills []string, text string) []string {
	seen := make(map[string]struct{}, len(skills))
	enhanced := make([]string, 0, len(skills))

	add := func(skill string) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		enhanced = append(enhanced, skill)
	}

	for _, skill := range skills {
		add(skill)
	}

	lower := strings.ToLower(text)
	for _, pattern := range skillPatterns {
		for _, match := range pattern.FindAllString(lower, -1) {
			add(titleCase(match))
		}
	}

	slices.Sort(enhanced)
	return enhanced
}

// titleCase upper-cases every letter that follows a non-letter.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

const categoryOther = "Tools & Technologies"

// skillCategories is checked in order; the first category with a matching
// keyword takes the skill.
var skillCategories = []struct {
	name     string
	keywords []string
}{
	{"Programming Languages", []string{
		"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
		"kotlin", "swift", "php", "ruby", "scala", "r", "matlab",
	}},
	{"Frameworks", []string{
		"react", "angular", "vue", "django", "flask", "spring", "express",
		"laravel", "rails", "next.js", "nuxt.js",
	}},
	{"Databases", []string{
		"mysql", "postgresql", "mongodb", "redis", "oracle", "sql server",
		"elasticsearch", "cassandra", "sqlite",
	}},
	{"Cloud & DevOps", []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "terraform",
		"ansible", "gitlab ci", "github actions",
	}},
	{"ML/AI", []string{
		"tensorflow", "pytorch", "keras", "scikit-learn", "opencv", "pandas",
		"numpy", "machine learning", "deep learning", "nlp",
	}},
}

type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// SkillCategories groups skills by technology category. A keyword must match a
// whole word of the skill, so "Go" is a language but "MongoDB" is not.
// Empty categories are omitted and the order of categories is fixed.
func SkillCategories(skills []string) []SkillCategory {
	grouped := make(map[string][]string)
	for _, skill := range skills {
		name := categoryOf(strings.ToLower(skill))
		grouped[name] = append(grouped[name], skill)
	}

	var categories []SkillCategory
	for _, c := range skillCategories {
		if s, ok := grouped[c.name]; ok {
			categories = append(categories, SkillCategory{Name: c.name, Skills: s})
		}
	}
	if s, ok := grouped[categoryOther]; ok {
		categories = append(categories, SkillCategory{Name: categoryOther, Skills: s})
	}
	return categories
}

func categoryOf(skill string) string {
	for _, c := range skillCategories {
		for _, keyword := range c.keywords {
			if containsWord(skill, keyword) {
				return c.name
			}
		}
	}
	return categoryOther
}

// containsWord reports whether word occurs in text delimited by non-word characters.
func containsWord(text, word string) bool {
	for offset := 0; offset <= len(text)-len(word); {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		if boundaryBefore(text, start) && boundaryAfter(text, start+len(word)) {
			return true
		}
		offset = start + 1
	}
	return false
}

const (
	ProficiencyExpert       = "expert"
	ProficiencyIntermediate = "intermediate"
	ProficiencyBasic        = "basic"
)

var proficiencyKeywords = []struct {
	level    string
	keywords []string
}{
	{ProficiencyExpert, []string{"expert", "advanced", "proficient", "extensive"}},
	{ProficiencyIntermediate, []string{"intermediate", "experienced", "solid", "good"}},
	{ProficiencyBasic, []string{"basic", "familiar", "exposure", "beginner"}},
}

// SkillProficiency guesses a level per skill from proficiency words on the
// same line as the skill. Levels are tried from expert down; a skill without
// any such word is intermediate.
func SkillProficiency(skills []string, text string) map[string]string {
	lines := strings.Split(strings.ToLower(text), "\n")
	levels := make(map[string]string, len(skills))

	for _, skill := range skills {
		levels[skill] = proficiencyOf(strings.ToLower(skill), lines)
	}
	return levels
}

func proficiencyOf(skill string, lines []string) string {
	if skill == "" {
		return ProficiencyIntermediate
	}
	for _, p := range proficiencyKeywords {
		for _, keyword := range p.keywords {
			for _, line := range lines {
				if strings.Contains(line, skill) && strings.Contains(line, keyword) {
					return p.level
				}
			}
		}
	}
	return ProficiencyIntermediate
}
