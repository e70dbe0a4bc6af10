package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spigell/candidate-ranker/internal/candidate"
	applog "github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/matching"
	"github.com/spigell/candidate-ranker/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <candidate-id>",
	Short: "Explain how a stored candidate matches a job requirement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		logger := newLogger()
		config := mustConfig(logger)

		job, err := loadJob(cmd.Flag("job").Value.String())
		if err != nil {
			logger.Fatal("loading job requirement", zap.Error(err))
		}

		s, err := openCandidates(ctx, config, cmd.Flag("candidates").Value.String(), logger)
		if err != nil {
			logger.Fatal("opening candidate store", zap.Error(err))
		}
		defer s.Close()

		c, analysis, err := analyzeStored(ctx, s, args[0], job)
		if errors.Is(err, store.ErrNotFound) {
			logger.Fatal("candidate not found", zap.String("candidate_id", args[0]))
		}
		if err != nil {
			logger.Fatal("analyzing candidate", zap.Error(err))
		}

		applog.WithJob(logger, job).Info("candidate analyzed",
			append(applog.CandidateFields(c), zap.Float64("score", analysis.OverallScore))...,
		)

		if err := printJSON(os.Stdout, analysis); err != nil {
			logger.Fatal("printing analysis", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("job", "", "job requirement file (yaml or json)")
	analyzeCmd.Flags().String("candidates", "", "look the candidate up in this JSON file instead of the configured store")
	analyzeCmd.MarkFlagRequired("job")
}

func analyzeStored(ctx context.Context, s store.Store, id string, job *candidate.JobRequirement) (*candidate.Candidate, *matching.MatchAnalysis, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting candidate %q: %w", id, err)
	}
	return c, matching.AnalyzeMatchDetails(c, job), nil
}
