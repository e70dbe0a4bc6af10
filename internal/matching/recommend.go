package matching

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const (
	hiringPoolSize     = 5
	hiringShortlist    = 3
	domainDistribution = 3
)

type HiringRecommendation struct {
	Recommendation string             `json:"recommendation"`
	TopCandidates  []candidate.Scored `json:"top_candidates"`
	Summary        *PoolSummary       `json:"summary,omitempty"`
	Advice         string             `json:"advice,omitempty"`
	NextSteps      []string           `json:"next_steps,omitempty"`
}

// PoolSummary describes the whole candidate pool and the best matches in it.
type PoolSummary struct {
	TotalCandidates    int           `json:"total_candidates"`
	AverageMatchScore  string        `json:"average_match_score"`
	BestMatchScore     string        `json:"best_match_score"`
	DomainDistribution []DomainCount `json:"domain_distribution"`
	AverageExperience  string        `json:"average_experience"`
}

type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// RecommendHiring summarizes the pool for the job and suggests how to proceed.
func (r *Ranker) RecommendHiring(ctx context.Context, candidates []*candidate.Candidate, job *candidate.JobRequirement) (*HiringRecommendation, error) {
	if len(candidates) == 0 {
		return &HiringRecommendation{
			Recommendation: "No suitable candidates found",
			TopCandidates:  []candidate.Scored{},
			Advice:         "Consider expanding search criteria or job posting reach",
		}, nil
	}

	top, err := r.FindBestMatches(ctx, candidates, job, hiringPoolSize)
	if err != nil {
		return nil, err
	}

	var sum, best float64
	for i, s := range top {
		sum += s.ScoreValue()
		if i == 0 || s.ScoreValue() > best {
			best = s.ScoreValue()
		}
	}
	avg := sum / float64(len(top))

	experience := 0
	for _, c := range candidates {
		experience += c.ExperienceYears
	}

	return &HiringRecommendation{
		Recommendation: hiringVerdict(best),
		TopCandidates:  firstN(top, hiringShortlist),
		Summary: &PoolSummary{
			TotalCandidates:    len(candidates),
			AverageMatchScore:  fmt.Sprintf("%.2f", avg),
			BestMatchScore:     fmt.Sprintf("%.2f", best),
			DomainDistribution: topDomains(candidates, domainDistribution),
			AverageExperience:  fmt.Sprintf("%.1f years", float64(experience)/float64(len(candidates))),
		},
		NextSteps: NextSteps(best, avg),
	}, nil
}

// NextSteps suggests hiring actions from the best and average match scores.
func NextSteps(best, avg float64) []string {
	var steps []string
	switch {
	case best >= 0.8:
		steps = append(steps,
			"Schedule technical interviews with top 3 candidates",
			"Prepare role-specific assessment questions",
			"Check references for leading candidates",
		)
	case best >= 0.6:
		steps = append(steps,
			"Conduct phone screenings with top 5 candidates",
			"Assess skill gaps and training needs",
			"Consider flexible requirements for promising candidates",
		)
	default:
		steps = append(steps,
			"Review and potentially expand job requirements",
			"Consider posting on additional platforms",
			"Evaluate internal training/development options",
			"Review compensation competitiveness",
		)
	}

	if avg < 0.4 {
		steps = append(steps, "Consider adjusting role expectations or requirements")
	}
	return steps
}

func hiringVerdict(best float64) string {
	switch {
	case best >= 0.8:
		return "Strong candidates available - recommend proceeding with interviews"
	case best >= 0.6:
		return "Good candidates available - consider interviews with top performers"
	case best >= 0.4:
		return "Moderate candidates available - may need additional screening or training"
	default:
		return "Weak candidate pool - consider revising requirements or expanding search"
	}
}

// topDomains counts candidates per domain and returns the n most common.
// Domains with equal counts keep the order in which they were first seen.
func topDomains(candidates []*candidate.Candidate, n int) []DomainCount {
	var counts []DomainCount
	index := make(map[string]int)
	for _, c := range candidates {
		domain := c.Domain
		if domain == "" {
			domain = "Unknown"
		}
		if i, ok := index[domain]; ok {
			counts[i].Count++
			continue
		}
		index[domain] = len(counts)
		counts = append(counts, DomainCount{Domain: domain, Count: 1})
	}

	slices.SortStableFunc(counts, func(a, b DomainCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
