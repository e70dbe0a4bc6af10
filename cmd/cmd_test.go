package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/filtering"
	"github.com/spigell/candidate-ranker/internal/matching"
	"github.com/spigell/candidate-ranker/internal/profile"
	"github.com/spigell/candidate-ranker/internal/schema"
	"github.com/spigell/candidate-ranker/internal/store"
)

const jobYAML = `title: ML Engineer
domain: ML/AI
required_experience: 3
required_skills:
  - Python
  - TensorFlow
nice_to_have_skills:
  - AWS
job_description: Looking for ML engineer with Python and TensorFlow experience
`

const resumesJSON = `[
  {
    "name": "Ada",
    "domain": "ML/AI",
    "skills": ["Python", "TensorFlow", "PyTorch"],
    "experience_years": 6,
    "filename": "ada.pdf"
  },
  {
    "name": "Bob",
    "domain": "Frontend",
    "skills": ["React", "JavaScript"],
    "experience_years": 2,
    "filename": "bob.pdf"
  }
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJob(t *testing.T) {
	t.Parallel()

	job, err := loadJob(writeFile(t, "job.yaml", jobYAML))
	require.NoError(t, err)

	assert.Equal(t, &candidate.JobRequirement{
		Title:              "ML Engineer",
		Domain:             "ML/AI",
		RequiredExperience: 3,
		RequiredSkills:     []string{"Python", "TensorFlow"},
		NiceToHaveSkills:   []string{"AWS"},
		JobDescription:     "Looking for ML engineer with Python and TensorFlow experience",
	}, job)
}

func TestLoadJobJSON(t *testing.T) {
	t.Parallel()

	job, err := loadJob(writeFile(t, "job.json", `{"required_skills": ["Go"], "required_experience": 4}`))
	require.NoError(t, err)

	assert.Equal(t, 4, job.RequiredExperience)
	assert.Equal(t, []string{"Go"}, job.RequiredSkills)
	assert.Equal(t, candidate.GeneralDomain, job.DomainOrDefault())
}

func TestLoadJobRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing required skills", content: "title: Engineer\n"},
		{name: "negative experience", content: "required_skills: [Go]\nrequired_experience: -1\n"},
		{name: "empty skill", content: "required_skills: [\"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadJob(writeFile(t, "job.yaml", tt.content))
			require.Error(t, err)

			var verr *schema.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestLoadJobWithoutPath(t *testing.T) {
	t.Parallel()

	_, err := loadJob("")
	require.ErrorIs(t, err, candidate.ErrInvalidJob)
}

func TestReadResumes(t *testing.T) {
	t.Parallel()

	candidates, err := readResumes(writeFile(t, "resumes.json", resumesJSON))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Ada", candidates[0].Name)
	assert.Equal(t, "ML/AI", candidates[0].Domain)
	assert.Equal(t, 6, candidates[0].ExperienceYears)
	assert.ElementsMatch(t, []string{"Python", "TensorFlow", "PyTorch"}, candidates[0].Skills)
	assert.Equal(t, "Bob", candidates[1].Name)
	assert.Equal(t, "Junior", candidates[1].Seniority)

	assert.NotEmpty(t, candidates[0].Profile.SkillCategories)
	assert.Equal(t, profile.ProficiencyIntermediate, candidates[0].Profile.SkillProficiency["Python"])
	assert.Empty(t, candidates[0].Profile.KeyProjects)

	data, err := json.Marshal(candidates[0])
	require.NoError(t, err)
	var printed map[string]any
	require.NoError(t, json.Unmarshal(data, &printed))
	assert.Equal(t, "Ada", printed["name"])
	assert.Contains(t, printed, "profile")
}

func TestReadResumesRejectsInvalidDocument(t *testing.T) {
	t.Parallel()

	_, err := readResumes(writeFile(t, "resumes.json", `[{"name": "No skills"}]`))
	require.Error(t, err)

	var verr *schema.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = readResumes(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCandidatesFromFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := openCandidates(ctx, &Config{}, writeFile(t, "resumes.json", resumesJSON), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].Name)
	assert.NotEmpty(t, all[0].ID)

	pool, err := getCandidates(ctx, s, &filtering.Config{Domains: []string{"ml/ai"}}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{all[0].ID}, pool.IDs())

	pool, err = getCandidates(ctx, s, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Len())

	assert.Equal(t, store.FilenameID("ada.pdf"), all[0].ID)
}

func TestExcludeFileAppliesToNextLoad(t *testing.T) {
	ctx := context.Background()
	resumes := writeFile(t, "resumes.json", resumesJSON)
	excludePath := filepath.Join(t.TempDir(), "exclude.json")

	job, err := loadJob(writeFile(t, "job.yaml", jobYAML))
	require.NoError(t, err)

	// first run ranks everyone and excludes what was shown
	first, err := openCandidates(ctx, &Config{}, resumes, zap.NewNop())
	require.NoError(t, err)
	defer first.Close()

	pool, err := getCandidates(ctx, first, nil, zap.NewNop())
	require.NoError(t, err)

	ranker := matching.NewRanker(1, zap.NewNop())
	ranked, err := ranker.FindBestMatches(ctx, pool.Items, job, matching.DefaultTopN)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	session := &rankSession{ranker: ranker, job: job, pool: pool, ranked: ranked, excludeTo: excludePath, out: &bytes.Buffer{}, logger: zap.NewNop()}
	require.NoError(t, session.handleAction(ctx, PromptAppendToExcludeFile))

	// second run loads the same file again
	second, err := openCandidates(ctx, &Config{}, resumes, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	pool, err = getCandidates(ctx, second, nil, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 2, pool.Len())

	left, err := buildFilters(&filtering.Config{ExcludeFile: excludePath}, nil, zap.NewNop()).RunFilters(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, left.Len())
}

func TestAnalyzeStoredFromFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := openCandidates(ctx, &Config{}, writeFile(t, "resumes.json", resumesJSON), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	job, err := loadJob(writeFile(t, "job.yaml", jobYAML))
	require.NoError(t, err)

	c, analysis, err := analyzeStored(ctx, s, store.FilenameID("ada.pdf"), job)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "ML/AI", analysis.Domain.CandidateDomain)
	assert.InDelta(t, matching.CalculateMatchScore(c, job), analysis.OverallScore, 1e-9)

	_, _, err = analyzeStored(ctx, s, store.FilenameID("carol.pdf"), job)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRequirePersistent(t *testing.T) {
	t.Parallel()

	err := requirePersistent(&Config{}, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import needs a persistent store")

	err = requirePersistent(&Config{Store: &store.Config{Backend: store.BackendMemory}}, "delete")
	assert.ErrorContains(t, err, "delete needs a persistent store")

	assert.NoError(t, requirePersistent(&Config{Store: &store.Config{Backend: store.BackendPostgres}}, "import"))
	assert.NoError(t, requirePersistent(&Config{Store: &store.Config{Backend: store.BackendRedis}}, "delete"))
}

func TestBuildFilters(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	cfg := &filtering.Config{Domains: []string{"Backend"}, MinExperience: 1}

	f := buildFilters(cfg, []string{"domains"}, zap.New(core))

	entries := observed.FilterMessage("filter configured").All()
	require.Len(t, entries, len(f.Describe()))

	byName := map[string]map[string]any{}
	for _, e := range entries {
		fields := e.ContextMap()
		byName[fields["name"].(string)] = fields
	}
	assert.Equal(t, false, byName["domains"]["enabled"])
	assert.Equal(t, "skipped by flag", byName["domains"]["reason"])
	assert.Equal(t, true, byName["min_experience"]["enabled"])

	ctx := context.Background()
	s, err := openCandidates(ctx, &Config{}, writeFile(t, "resumes.json", resumesJSON), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	pool, err := getCandidates(ctx, s, nil, zap.NewNop())
	require.NoError(t, err)

	left, err := f.RunFilters(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 2, left.Len())
}

func TestClassify(t *testing.T) {
	t.Parallel()

	result := classify([]string{"Python", "TensorFlow", "PyTorch"}, false)
	assert.Equal(t, "ML/AI", result.Domain)
	assert.Nil(t, result.Scores)

	result = classify([]string{"Python", "TensorFlow"}, true)
	assert.Len(t, result.Scores, len(matching.Domains()))

	assert.Equal(t, matching.DomainGeneral, classify(nil, false).Domain)
}

func newTestSession(t *testing.T, logger *zap.Logger) (*rankSession, *bytes.Buffer) {
	t.Helper()

	ctx := context.Background()
	s, err := openCandidates(ctx, &Config{}, writeFile(t, "resumes.json", resumesJSON), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	pool, err := getCandidates(ctx, s, nil, zap.NewNop())
	require.NoError(t, err)

	job, err := loadJob(writeFile(t, "job.yaml", jobYAML))
	require.NoError(t, err)

	ranker := matching.NewRanker(1, logger)
	ranked, err := ranker.FindBestMatches(ctx, pool.Items, job, matching.DefaultTopN)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, "Ada", ranked[0].Name)

	out := &bytes.Buffer{}
	return &rankSession{
		ranker: ranker,
		job:    job,
		pool:   pool,
		ranked: ranked,
		out:    out,
		logger: logger,
		selectItem: func(_ string, _ []string) (int, error) {
			return 0, nil
		},
	}, out
}

func TestHandleActionExit(t *testing.T) {
	session, _ := newTestSession(t, zap.NewNop())

	err := session.handleAction(context.Background(), PromptExit)
	require.ErrorIs(t, err, errExit)

	err = session.handleAction(context.Background(), "unknown")
	require.EqualError(t, err, "invalid action: unknown")
}

func TestHandleActionAnalyze(t *testing.T) {
	session, out := newTestSession(t, zap.NewNop())

	require.NoError(t, session.handleAction(context.Background(), PromptAnalyze))

	var analysis matching.MatchAnalysis
	require.NoError(t, json.Unmarshal(out.Bytes(), &analysis))
	assert.Equal(t, "ML/AI", analysis.Domain.CandidateDomain)
	assert.Equal(t, session.ranked[0].ScoreValue(), analysis.OverallScore)

	session.selectItem = func(_ string, _ []string) (int, error) {
		return 0, errors.New("prompt closed")
	}
	require.EqualError(t, session.handleAction(context.Background(), PromptAnalyze), "prompt closed")
}

func TestHandleActionRecommend(t *testing.T) {
	session, out := newTestSession(t, zap.NewNop())

	require.NoError(t, session.handleAction(context.Background(), PromptRecommend))

	var recommendation matching.HiringRecommendation
	require.NoError(t, json.Unmarshal(out.Bytes(), &recommendation))
	require.NotEmpty(t, recommendation.TopCandidates)
	assert.Equal(t, "Ada", recommendation.TopCandidates[0].Name)
	assert.Equal(t, 2, recommendation.Summary.TotalCandidates)
}

func TestHandleActionReportByDomain(t *testing.T) {
	session, out := newTestSession(t, zap.NewNop())

	require.NoError(t, session.handleAction(context.Background(), PromptReportByDomain))

	var report map[string][]map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report["ML/AI"], 1)
	assert.Equal(t, "Ada", report["ML/AI"][0]["name"])
	assert.Equal(t, "2 years", report["Frontend"][0]["experience"])
}

func TestHandleActionRankingToFile(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	session, _ := newTestSession(t, zap.New(core))

	require.NoError(t, session.handleAction(context.Background(), PromptRankingToFile))

	entries := observed.FilterMessage("dumping result to file").All()
	require.Len(t, entries, 1)
	filename, ok := entries[0].ContextMap()["filename"].(string)
	require.True(t, ok)
	t.Cleanup(func() { os.Remove(filename) })

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	var dumped []candidate.Scored
	require.NoError(t, json.Unmarshal(data, &dumped))
	require.Len(t, dumped, 2)
	assert.Equal(t, session.ranked[0].ID, dumped[0].ID)
}

func TestHandleActionAppendToExcludeFile(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	session, _ := newTestSession(t, zap.New(core))

	require.EqualError(t, session.handleAction(context.Background(), PromptAppendToExcludeFile), "exclude file is not set")

	session.excludeTo = filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, session.handleAction(context.Background(), PromptAppendToExcludeFile))
	require.NoError(t, session.handleAction(context.Background(), PromptAppendToExcludeFile))

	excluded, err := candidate.GetExcludedCandidatesFromFile(session.excludeTo)
	require.NoError(t, err)
	require.Len(t, excluded.Items, 4)

	first := excluded.Items[0]
	assert.Equal(t, session.ranked[0].ID, first.ID)
	assert.Equal(t, candidate.ExcludeActorUser, first.Actor)
	assert.Equal(t, "shown in ranking for ML Engineer", first.Reason)

	assert.Len(t, observed.FilterMessage("candidates appended to exclude file").All(), 2)
}
