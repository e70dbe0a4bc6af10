package cmd

import (
	"os"

	"github.com/spigell/candidate-ranker/internal/matching"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type classification struct {
	Domain string                 `json:"domain"`
	Scores []matching.DomainScore `json:"scores,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify [skills...]",
	Short: "Classify a skill list into a domain",
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		result := classify(args, cmd.Flag("verbose").Value.String() == "true")
		logger.Debug("skills classified", zap.Strings("skills", args), zap.String("domain", result.Domain))

		if err := printJSON(os.Stdout, result); err != nil {
			logger.Fatal("printing classification", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolP("verbose", "v", false, "show keyword hits per domain")
}

func classify(skills []string, verbose bool) classification {
	result := classification{Domain: matching.ClassifyDomain(skills)}
	if verbose {
		result.Scores = matching.DomainScores(skills)
	}
	return result
}
