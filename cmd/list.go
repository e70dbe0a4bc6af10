package cmd

import (
	"context"
	"os"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored candidates",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()

		logger := newLogger()
		config := mustConfig(logger)

		domains, err := cmd.Flags().GetStringSlice("domain")
		if err != nil {
			logger.Fatal("reading domain flag", zap.Error(err))
		}
		minExperience, err := cmd.Flags().GetInt("min-experience")
		if err != nil {
			logger.Fatal("reading min-experience flag", zap.Error(err))
		}
		dump, err := cmd.Flags().GetBool("dump")
		if err != nil {
			logger.Fatal("reading dump flag", zap.Error(err))
		}

		s, err := openCandidates(ctx, config, cmd.Flag("candidates").Value.String(), logger)
		if err != nil {
			logger.Fatal("opening candidate store", zap.Error(err))
		}
		defer s.Close()

		candidates, err := s.Filter(ctx, store.Query{Domains: domains, MinExperience: minExperience})
		if err != nil {
			logger.Fatal("listing candidates", zap.Error(err))
		}

		logger.Info("listing candidates", zap.Int("count", len(candidates)))

		if dump {
			filename, err := (&candidate.Candidates{Items: candidates}).DumpToTmpFile()
			if err != nil {
				logger.Fatal("dump candidates to file", zap.Error(err))
			}
			logger.Info("dumping candidates to file", zap.String("filename", filename))
			return
		}

		if err := printJSON(os.Stdout, candidates); err != nil {
			logger.Fatal("printing candidates", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringSlice("domain", nil, "only candidates from these domains")
	listCmd.Flags().Int("min-experience", 0, "only candidates with at least this many years")
	listCmd.Flags().String("candidates", "", "list résumés from this JSON file instead of the configured store")
	listCmd.Flags().Bool("dump", false, "write the list to a temporary file instead of stdout")
}
