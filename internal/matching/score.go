package matching

import (
	"github.com/spigell/candidate-ranker/internal/candidate"
)

// Weights of the four field scores in the overall score. They sum to 1.
type Weights struct {
	Domain     float64
	Skills     float64
	Experience float64
	Text       float64
}

var DefaultWeights = Weights{
	Domain:     0.3,
	Skills:     0.4,
	Experience: 0.2,
	Text:       0.1,
}

// MatchResult holds the field scores of one candidate/job pair and their weighted combination.
type MatchResult struct {
	Overall    float64 `json:"overall_score"`
	Domain     float64 `json:"domain_score"`
	Skills     float64 `json:"skills_score"`
	Experience float64 `json:"experience_score"`
	Text       float64 `json:"text_score"`
}

// Score computes all field scores for the pair and combines them.
// Both c and job must be non-nil; Ranker.ScoreAll validates its input first.
func Score(c *candidate.Candidate, job *candidate.JobRequirement) MatchResult {
	result := MatchResult{
		Domain:     DomainMatch(c.Domain, job.Domain),
		Skills:     SkillsMatch(c.Skills, job.RequiredSkills),
		Experience: ExperienceMatch(c.ExperienceYears, job.RequiredExperience),
		Text:       TextSimilarity(textKeywords(c), job.JobDescription),
	}
	result.Overall = DefaultWeights.combine(result)
	return result
}

// CalculateMatchScore returns the overall score of the candidate for the job, in [0, 1].
// Like Score it requires non-nil arguments.
func CalculateMatchScore(c *candidate.Candidate, job *candidate.JobRequirement) float64 {
	return Score(c, job).Overall
}

func (w Weights) combine(r MatchResult) float64 {
	// Each product is rounded before the sum; no multiply-add may be fused.
	total := float64(w.Domain * r.Domain)
	total += float64(w.Skills * r.Skills)
	total += float64(w.Experience * r.Experience)
	total += float64(w.Text * r.Text)
	return clamp(total)
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

// textKeywords is the candidate's skills followed by its domain label.
func textKeywords(c *candidate.Candidate) []string {
	keywords := make([]string, 0, len(c.Skills)+1)
	keywords = append(keywords, c.Skills...)
	return append(keywords, c.Domain)
}
