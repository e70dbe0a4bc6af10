package matching

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const DefaultTopN = 10

// Ranker scores batches of candidates against one job requirement.
type Ranker struct {
	workers int
	logger  *zap.Logger
}

// NewRanker creates a ranker scoring up to workers candidates at once.
// A non-positive workers value uses GOMAXPROCS.
func NewRanker(workers int, logger *zap.Logger) *Ranker {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{workers: workers, logger: logger}
}

// RankCandidates returns the scored candidates ordered by score, highest first.
// Candidates with equal scores keep their input order and a missing score counts as 0.
// The input slice is left untouched.
func RankCandidates(scored []candidate.Scored) []candidate.Scored {
	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, func(a, b candidate.Scored) int {
		return cmp.Compare(b.ScoreValue(), a.ScoreValue())
	})
	return ranked
}

// FindBestMatches scores candidates with a default ranker and returns the top topN.
func FindBestMatches(ctx context.Context, candidates []*candidate.Candidate, job *candidate.JobRequirement, topN int) ([]candidate.Scored, error) {
	return NewRanker(0, nil).FindBestMatches(ctx, candidates, job, topN)
}

// FindBestMatches scores every candidate, ranks them and returns at most topN
// of them. Each result carries a copy of its candidate.
func (r *Ranker) FindBestMatches(ctx context.Context, candidates []*candidate.Candidate, job *candidate.JobRequirement, topN int) ([]candidate.Scored, error) {
	scored, err := r.ScoreAll(ctx, candidates, job)
	if err != nil {
		return nil, err
	}

	ranked := RankCandidates(scored)
	if topN < 0 {
		topN = 0
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	r.logger.Debug("ranked candidates",
		zap.Int("scored", len(scored)),
		zap.Int("returned", len(ranked)),
		zap.Int("top_n", topN),
	)

	return ranked, nil
}

// ScoreAll scores every candidate in parallel. The result keeps the input order.
func (r *Ranker) ScoreAll(ctx context.Context, candidates []*candidate.Candidate, job *candidate.JobRequirement) ([]candidate.Scored, error) {
	if job == nil {
		return nil, errors.New("job requirement is required")
	}

	for i, c := range candidates {
		if c == nil {
			return nil, fmt.Errorf("candidate at index %d is nil", i)
		}
	}

	scored := make([]candidate.Scored, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, c := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			scored[i] = candidate.WithScore(c, CalculateMatchScore(c, job))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}

	return scored, nil
}
