package matching

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Field scores returned for the special cases of the individual matchers.
const (
	neutralScore        = 0.5
	exactDomainScore    = 1.0
	relatedDomainScore  = 0.7
	fullStackScore      = 0.8
	unrelatedScore      = 0.2
	noExperienceScore   = 0.1
	partialSkillWeight  = 0.5
	minPartialSkillSize = 2
)

// relatedDomains is keyed by the required domain. It is looked up in both
// directions, so it is deliberately not symmetric.
var relatedDomains = map[string][]string{
	"ml/ai":            {"data engineering", "backend"},
	"data engineering": {"ml/ai", "backend"},
	"frontend":         {"full stack"},
	"backend":          {"full stack", "devops", "ml/ai"},
	"devops":           {"backend", "cloud"},
	"full stack":       {"frontend", "backend"},
	"mobile":           {"frontend"},
}

var fullStackPeers = []string{"frontend", "backend"}

// experienceSteps maps the candidate/required ratio to a score. The first
// step whose ratio is reached wins.
var experienceSteps = []struct {
	ratio float64
	score float64
}{
	{1.0, 1.0},
	{0.8, 0.9},
	{0.6, 0.7},
	{0.4, 0.5},
	{0.2, 0.3},
}

// DomainMatch compares the candidate domain with the required one.
func DomainMatch(candidateDomain, requiredDomain string) float64 {
	if candidateDomain == "" || requiredDomain == "" {
		return neutralScore
	}

	cand := strings.ToLower(candidateDomain)
	req := strings.ToLower(requiredDomain)

	if cand == req {
		return exactDomainScore
	}

	if slices.Contains(relatedDomains[req], cand) {
		return relatedDomainScore
	}
	if slices.Contains(relatedDomains[cand], req) {
		return relatedDomainScore
	}

	if strings.Contains(cand, "full stack") && slices.Contains(fullStackPeers, req) {
		return fullStackScore
	}
	if strings.Contains(req, "full stack") && slices.Contains(fullStackPeers, cand) {
		return fullStackScore
	}

	return unrelatedScore
}

// SkillsMatch scores how many required skills the candidate covers. An exact
// hit counts fully; otherwise the first substring overlap in either direction
// counts half, but only for required skills longer than two characters.
func SkillsMatch(candidateSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return neutralScore
	}
	if len(candidateSkills) == 0 {
		return 0
	}

	cands := normalizeSkills(candidateSkills)

	exact, partial := 0, 0
	for _, req := range normalizeSkills(requiredSkills) {
		if slices.Contains(cands, req) {
			exact++
			continue
		}
		if utf8.RuneCountInString(req) <= minPartialSkillSize {
			continue
		}
		for _, cand := range cands {
			if strings.Contains(cand, req) || strings.Contains(req, cand) {
				partial++
				break
			}
		}
	}

	score := (float64(exact) + float64(partial)*partialSkillWeight) / float64(len(requiredSkills))
	return min(score, 1.0)
}

// ExperienceMatch maps years of experience against the requirement onto a
// stepped curve.
func ExperienceMatch(candidateYears, requiredYears int) float64 {
	if requiredYears <= 0 {
		return 1.0
	}
	if candidateYears <= 0 {
		return noExperienceScore
	}

	ratio := float64(candidateYears) / float64(requiredYears)
	for _, step := range experienceSteps {
		if ratio >= step.ratio {
			return step.score
		}
	}
	return noExperienceScore
}

// TextSimilarity returns the share of keywords found in the job description.
// Repeated keywords are counted once per occurrence and empty keywords never match.
func TextSimilarity(keywords []string, description string) float64 {
	if description == "" || len(keywords) == 0 {
		return 0
	}

	desc := strings.ToLower(description)
	matches := 0
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(desc, strings.ToLower(keyword)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

func normalizeSkills(skills []string) []string {
	normalized := make([]string, len(skills))
	for i, skill := range skills {
		normalized[i] = strings.ToLower(strings.TrimSpace(skill))
	}
	return normalized
}
