package profile

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	maxMentionedYears  = 50
	yearsPerPosition   = 2
	maxEstimatedYears  = 15
	seniorityYearsCap  = 15
	seniorityMaxSkills = 2.0
)

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(\d+)\s*\+?\s*yrs?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`experience\s+(?:of\s+)?(\d+)\s*\+?\s*years?`),
	regexp.MustCompile(`(\d+)\s*\+?\s*years?\s+in\s+`),
}

var positionPattern = regexp.MustCompile(`\b(?:engineer|developer|analyst|manager|lead|senior|principal)\b`)

// ExperienceFromText returns the largest "N years of experience" style
// mention in the text. Mentions above 50 years are ignored. Without any
// mention it estimates two years per job title word, up to 15.
func ExperienceFromText(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)

	best, found := 0, false
	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			years, err := strconv.Atoi(match[1])
			if err != nil || years > maxMentionedYears {
				continue
			}
			if !found || years > best {
				best, found = years, true
			}
		}
	}
	if found {
		return best
	}

	positions := len(positionPattern.FindAllString(lower, -1))
	return min(positions*yearsPerPosition, maxEstimatedYears)
}

// Seniority grades a profile by capped experience, skill breadth and degree.
func Seniority(experienceYears, skillCount int, education string) string {
	score := float64(min(max(experienceYears, 0), seniorityYearsCap))
	score += min(float64(skillCount)/10, seniorityMaxSkills)

	switch strings.ToLower(education) {
	case "phd", "masters":
		score++
	case "bachelors":
		score += 0.5
	}

	switch {
	case score >= 12:
		return "Principal/Staff"
	case score >= 8:
		return "Senior"
	case score >= 4:
		return "Mid-level"
	case score >= 1:
		return "Junior"
	default:
		return "Entry-level"
	}
}
