package matching

import (
	"fmt"
	"strings"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const (
	LevelExcellent = "Excellent"
	LevelGood      = "Good"
	LevelFair      = "Fair"
	LevelPoor      = "Poor"
	LevelVeryPoor  = "Very Poor"
)

var matchLevels = []struct {
	threshold float64
	level     string
}{
	{0.9, LevelExcellent},
	{0.7, LevelGood},
	{0.5, LevelFair},
	{0.3, LevelPoor},
}

// Thresholds used to sort field scores into strengths and gaps.
const (
	domainStrengthThreshold     = 0.7
	skillsStrengthThreshold     = 0.7
	experienceStrengthThreshold = 0.8

	juniorExperienceThreshold = 0.6
	transitionDomainThreshold = 0.5
	transitionSkillsThreshold = 0.6
	maxSkillsInRecommendation = 3
)

type MatchAnalysis struct {
	OverallScore    float64            `json:"overall_score"`
	Domain          DomainAnalysis     `json:"domain_analysis"`
	Skills          SkillsAnalysis     `json:"skills_analysis"`
	Experience      ExperienceAnalysis `json:"experience_analysis"`
	Text            TextAnalysis       `json:"text_analysis"`
	Strengths       []string           `json:"strengths"`
	Gaps            []string           `json:"gaps"`
	Recommendations []string           `json:"recommendations"`
}

type DomainAnalysis struct {
	Score           float64 `json:"score"`
	CandidateDomain string  `json:"candidate_domain"`
	RequiredDomain  string  `json:"required_domain"`
	MatchLevel      string  `json:"match_level"`
}

type SkillsAnalysis struct {
	Score             float64  `json:"score"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	AdditionalSkills  []string `json:"additional_skills"`
	MatchedNiceToHave []string `json:"matched_nice_to_have,omitempty"`
	MatchLevel        string   `json:"match_level"`
}

type ExperienceAnalysis struct {
	Score               float64 `json:"score"`
	CandidateExperience int     `json:"candidate_experience"`
	RequiredExperience  int     `json:"required_experience"`
	MatchLevel          string  `json:"match_level"`
}

type TextAnalysis struct {
	Score      float64 `json:"score"`
	MatchLevel string  `json:"match_level"`
}

// MatchLevel buckets a score into a qualitative level.
func MatchLevel(score float64) string {
	for _, l := range matchLevels {
		if score >= l.threshold {
			return l.level
		}
	}
	return LevelVeryPoor
}

// AnalyzeMatchDetails explains why the candidate does or does not fit the job.
// It panics on a nil candidate or job, callers pass records they already loaded.
func AnalyzeMatchDetails(c *candidate.Candidate, job *candidate.JobRequirement) *MatchAnalysis {
	result := Score(c, job)
	matched, missing := splitRequiredSkills(c.Skills, job.RequiredSkills)
	niceToHave, _ := splitRequiredSkills(c.Skills, job.NiceToHaveSkills)

	analysis := &MatchAnalysis{
		OverallScore: result.Overall,
		Domain: DomainAnalysis{
			Score:           result.Domain,
			CandidateDomain: c.DomainOrDefault(),
			RequiredDomain:  job.DomainOrDefault(),
			MatchLevel:      MatchLevel(result.Domain),
		},
		Skills: SkillsAnalysis{
			Score:             result.Skills,
			MatchedSkills:     matched,
			MissingSkills:     missing,
			AdditionalSkills:  additionalSkills(c.Skills, matched),
			MatchedNiceToHave: niceToHave,
			MatchLevel:        MatchLevel(result.Skills),
		},
		Experience: ExperienceAnalysis{
			Score:               result.Experience,
			CandidateExperience: c.ExperienceYears,
			RequiredExperience:  job.RequiredExperience,
			MatchLevel:          MatchLevel(result.Experience),
		},
		Text: TextAnalysis{
			Score:      result.Text,
			MatchLevel: MatchLevel(result.Text),
		},
		Strengths:       []string{},
		Gaps:            []string{},
		Recommendations: []string{},
	}

	analysis.describe(len(job.RequiredSkills))
	analysis.recommend()

	return analysis
}

func (a *MatchAnalysis) describe(requiredCount int) {
	if a.Domain.Score >= domainStrengthThreshold {
		a.Strengths = append(a.Strengths, fmt.Sprintf("Strong domain match (%s)", a.Domain.CandidateDomain))
	} else {
		a.Gaps = append(a.Gaps, fmt.Sprintf("Domain mismatch (has %s, needs %s)", a.Domain.CandidateDomain, a.Domain.RequiredDomain))
	}

	if a.Skills.Score >= skillsStrengthThreshold {
		a.Strengths = append(a.Strengths, fmt.Sprintf("Good skills match (%d/%d required skills)", len(a.Skills.MatchedSkills), requiredCount))
	} else {
		a.Gaps = append(a.Gaps, fmt.Sprintf("Missing key skills: %s", strings.Join(firstN(a.Skills.MissingSkills, maxSkillsInRecommendation), ", ")))
	}

	if a.Experience.Score >= experienceStrengthThreshold {
		a.Strengths = append(a.Strengths, fmt.Sprintf("Sufficient experience (%d years)", a.Experience.CandidateExperience))
	} else {
		a.Gaps = append(a.Gaps, fmt.Sprintf("Experience gap (has %d, needs %d years)", a.Experience.CandidateExperience, a.Experience.RequiredExperience))
	}
}

func (a *MatchAnalysis) recommend() {
	if len(a.Skills.MissingSkills) > 0 {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf("Consider training in: %s", strings.Join(firstN(a.Skills.MissingSkills, maxSkillsInRecommendation), ", ")))
	}
	if a.Experience.Score < juniorExperienceThreshold {
		a.Recommendations = append(a.Recommendations, "Consider for junior/training role or mentorship program")
	}
	if a.Domain.Score < transitionDomainThreshold && a.Skills.Score > transitionSkillsThreshold {
		a.Recommendations = append(a.Recommendations, "Skills transferable, domain transition possible with training")
	}
}

// splitRequiredSkills partitions required skills into those contained in (or
// containing) some candidate skill and the rest, ignoring case.
func splitRequiredSkills(candidateSkills, required []string) (matched, missing []string) {
	matched, missing = []string{}, []string{}
	lowered := make([]string, len(candidateSkills))
	for i, skill := range candidateSkills {
		lowered[i] = strings.ToLower(skill)
	}

	for _, req := range required {
		r := strings.ToLower(req)
		found := false
		for _, cand := range lowered {
			if strings.Contains(cand, r) || strings.Contains(r, cand) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}

func additionalSkills(candidateSkills, matched []string) []string {
	additional := []string{}
	for _, skill := range candidateSkills {
		counted := false
		for _, m := range matched {
			if strings.EqualFold(skill, m) {
				counted = true
				break
			}
		}
		if !counted {
			additional = append(additional, skill)
		}
	}
	return additional
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
