package cmd

import (
	"context"
	"os"

	"github.com/spigell/candidate-ranker/internal/store"
	"github.com/spigell/candidate-ranker/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Analyze extracted résumés and store them as candidates",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()

		logger := newLogger()
		config := mustConfig(logger)

		if err := requirePersistent(config, "import"); err != nil {
			logger.Fatal("refusing to import", zap.Error(err))
		}

		file := cmd.Flag("file").Value.String()
		resumes, err := readResumes(file)
		if err != nil {
			logger.Fatal("reading resumes", zap.Error(err))
		}

		s, err := store.New(ctx, config.Store, logger)
		if err != nil {
			logger.Fatal("opening candidate store", zap.Error(err))
		}
		defer s.Close()

		candidates := candidatesOf(resumes)
		if err := importCandidates(ctx, s, candidates, logger); err != nil {
			logger.Fatal("importing candidates", zap.Error(err))
		}

		ids := make([]string, 0, len(candidates))
		for _, c := range candidates {
			ids = append(ids, c.ID)
		}

		logger.Info("candidates imported",
			zap.String("file", file),
			zap.Int("count", len(ids)),
			zap.String("ids", utils.JoinForLog(ids, 200)),
		)

		// resumes share the candidate pointers, so the printed records carry the stored ids
		if err := printJSON(os.Stdout, resumes); err != nil {
			logger.Fatal("printing candidates", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("file", "f", "", "JSON file with extracted résumé documents")
	importCmd.MarkFlagRequired("file")
}
