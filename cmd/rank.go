package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/filtering"
	applog "github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/matching"
	"github.com/spigell/candidate-ranker/internal/store"
	"github.com/spigell/candidate-ranker/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptAnalyze             = "Analyze a candidate"
	PromptRecommend           = "Hiring recommendation"
	PromptReportByDomain      = "Report by domain"
	PromptRankingToFile       = "Dump ranking to file"
	PromptAppendToExcludeFile = "Append shown candidates to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next action",
	Items: []string{PromptAnalyze, PromptRecommend, PromptReportByDomain, PromptRankingToFile, PromptAppendToExcludeFile, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against a job requirement",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job", "", "job requirement file (yaml or json)")
	rankCmd.Flags().String("candidates", "", "rank résumés from this JSON file instead of the configured store")
	rankCmd.Flags().IntP("top", "n", matching.DefaultTopN, "number of candidates to show")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking and exit without the interactive menu")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	rankCmd.Flags().StringSlice("skip-filter", nil, "filters to skip for this run, e.g. exclude_file")

	rankCmd.MarkFlagRequired("job")

	viper.BindPFlag("ranking.top-n", rankCmd.Flags().Lookup("top"))
	viper.BindPFlag("filters.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
}

// rankSession holds the state the interactive actions work on.
type rankSession struct {
	ranker     *matching.Ranker
	job        *candidate.JobRequirement
	pool       *candidate.Candidates
	ranked     []candidate.Scored
	excludeTo  string
	out        io.Writer
	logger     *zap.Logger
	selectItem func(label string, items []string) (int, error)
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger := newLogger()
	config := mustConfig(logger)

	logger.Info("starting the candidate-ranker", zap.String("version", version))

	job, err := loadJob(cmd.Flag("job").Value.String())
	if err != nil {
		logger.Fatal("loading job requirement", zap.Error(err))
	}
	logger = applog.WithJob(logger, job)

	s, err := openCandidates(ctx, config, cmd.Flag("candidates").Value.String(), logger)
	if err != nil {
		logger.Fatal("opening candidate store", zap.Error(err))
	}
	defer s.Close()

	pool, err := getCandidates(ctx, s, config.Filters, logger)
	if err != nil {
		logger.Fatal("getting candidates", zap.Error(err))
	}

	if pool.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	skip, err := cmd.Flags().GetStringSlice("skip-filter")
	if err != nil {
		logger.Fatal("reading skip-filter flag", zap.Error(err))
	}

	filtered, err := buildFilters(config.Filters, skip, logger).RunFilters(ctx, pool)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if filtered.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	ranker := matching.NewRanker(config.Ranking.Workers, logger)
	ranked, err := ranker.FindBestMatches(ctx, filtered.Items, job, config.Ranking.TopN)
	if err != nil {
		logger.Fatal("ranking candidates", zap.Error(err))
	}

	for i, scored := range ranked {
		logger.Debug("ranked candidate", append(applog.ScoredFields(scored), zap.Int("position", i+1))...)
	}

	if err := printJSON(os.Stdout, ranked); err != nil {
		logger.Fatal("printing ranking", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	session := &rankSession{
		ranker:     ranker,
		job:        job,
		pool:       filtered,
		ranked:     ranked,
		excludeTo:  excludeFile(config),
		out:        os.Stdout,
		logger:     logger,
		selectItem: selectWithPrompt,
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := session.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// getCandidates loads the pool, letting the store drop what the domain and
// experience criteria reject.
func getCandidates(ctx context.Context, s store.Store, filters *filtering.Config, logger *zap.Logger) (*candidate.Candidates, error) {
	q := store.Query{}
	if filters != nil {
		q.Domains = filters.Domains
		q.MinExperience = filters.MinExperience
	}

	items, err := s.Filter(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	logger.Info("getting candidates", zap.Int("count", len(items)))
	return &candidate.Candidates{Items: items}, nil
}

// buildFilters assembles the configured pipeline, turns off the skipped steps
// and logs what is going to run.
func buildFilters(cfg *filtering.Config, skip []string, logger *zap.Logger) *filtering.Filtering {
	f := filtering.FromConfig(cfg, logger)
	for _, name := range skip {
		f.DisableByName(name, "skipped by flag")
	}

	for _, status := range f.Describe() {
		fields := []zap.Field{
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
		}
		if status.Reason != "" {
			fields = append(fields, zap.String("reason", status.Reason))
		}
		if len(status.Details) > 0 {
			fields = append(fields, zap.Any("details", status.Details))
		}
		logger.Debug("filter configured", fields...)
	}

	return f
}

func excludeFile(config *Config) string {
	if config.Filters == nil {
		return ""
	}
	return config.Filters.ExcludeFile
}

func (s *rankSession) shown() *candidate.Candidates {
	shown := &candidate.Candidates{Items: make([]*candidate.Candidate, 0, len(s.ranked))}
	for _, scored := range s.ranked {
		c := scored.Candidate.Clone()
		shown.Items = append(shown.Items, &c)
	}
	return shown
}

func (s *rankSession) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptAnalyze:
		return s.analyze()
	case PromptRecommend:
		recommendation, err := s.ranker.RecommendHiring(ctx, s.pool.Items, s.job)
		if err != nil {
			return fmt.Errorf("hiring recommendation: %w", err)
		}
		return printJSON(s.out, recommendation)
	case PromptReportByDomain:
		shown := s.shown()
		return printJSON(s.out, shown.ReportByDomain())
	case PromptRankingToFile:
		filename, err := candidate.DumpScoredToTmpFile(s.ranked)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *rankSession) analyze() error {
	if len(s.ranked) == 0 {
		s.logger.Info("nothing to analyze")
		return nil
	}

	labels := make([]string, 0, len(s.ranked))
	for _, scored := range s.ranked {
		labels = append(labels, fmt.Sprintf("%s (%s) %.2f", utils.TruncateForLog(scored.Name, 40), scored.DomainOrDefault(), scored.ScoreValue()))
	}

	idx, err := s.selectItem("Candidate", labels)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(s.ranked) {
		return fmt.Errorf("invalid candidate index: %d", idx)
	}

	c := s.ranked[idx].Candidate
	s.logger.Debug("analyzing candidate", applog.CandidateFields(&c)...)
	return printJSON(s.out, matching.AnalyzeMatchDetails(&c, s.job))
}

func (s *rankSession) appendToExcludeFile() error {
	if s.excludeTo == "" {
		return errors.New("exclude file is not set")
	}

	excluded, err := candidate.GetExcludedCandidatesFromFile(s.excludeTo)
	if err != nil {
		return err
	}

	shown := s.shown()
	reason := "shown in ranking"
	if s.job.Title != "" {
		reason = "shown in ranking for " + s.job.Title
	}
	excluded.Append(shown.ToExcluded(candidate.ExcludeActorUser, reason))

	if err := excluded.ToFile(s.excludeTo); err != nil {
		return fmt.Errorf("writing exclude file: %w", err)
	}

	s.logger.Info("candidates appended to exclude file",
		zap.String("file", s.excludeTo),
		zap.Int("count", shown.Len()),
		zap.String("ids", utils.JoinForLog(shown.IDs(), 200)),
	)
	return nil
}

func selectWithPrompt(label string, items []string) (int, error) {
	sel := promptui.Select{Label: label, Items: items}
	idx, _, err := sel.Run()
	return idx, err
}
