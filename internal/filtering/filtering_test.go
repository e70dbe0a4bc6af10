package filtering

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

func pool() *candidate.Candidates {
	return &candidate.Candidates{Items: []*candidate.Candidate{
		{ID: "1", Name: "Ada", Domain: "ML/AI", Skills: []string{"Python", "TensorFlow"}, ExperienceYears: 6, Education: "PhD"},
		{ID: "2", Name: "Bob", Domain: "Frontend", Skills: []string{"React", "TypeScript"}, ExperienceYears: 2, Education: "Bachelors"},
		{ID: "3", Name: "Cy", Domain: "ml/ai", Skills: []string{"PyTorch"}, ExperienceYears: 3, Education: "Not specified"},
		{ID: "4", Name: "Di", Domain: "Backend", Skills: []string{"Go", "PostgreSQL"}, ExperienceYears: 8, Education: "Masters"},
	}}
}

func TestRunFiltersAppliesAllCriteria(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	f := FromConfig(&Config{
		MinExperience:  3,
		Domains:        []string{"ML/AI", "Backend"},
		MustHaveSkills: []string{"python", "go"},
		MinEducation:   "masters",
	}, zap.New(core))

	result, err := f.RunFilters(context.Background(), pool())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "4"}, result.IDs())

	steps := logs.FilterMessage("filter step").All()
	require.Len(t, steps, 4)
	first := steps[0].ContextMap()
	assert.Equal(t, "min_experience", first["name"])
	assert.Equal(t, int64(4), first["initial"])
	assert.Equal(t, int64(1), first["dropped"])
	assert.Equal(t, int64(3), first["left"])
}

func TestMustHaveSkillsUsesFilteredList(t *testing.T) {
	t.Parallel()

	f := New([]Filter{NewDomains([]string{"Frontend"}), NewMustHaveSkills([]string{"Python", "React"})}, nil)

	result, err := f.RunFilters(context.Background(), pool())
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, result.IDs())
}

func TestMustHaveSkillsMatchesSubstrings(t *testing.T) {
	t.Parallel()

	c := pool()
	_, step, err := NewMustHaveSkills([]string{"SQL"}).Apply(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, []string{"4"}, c.IDs())
	assert.Equal(t, Step{Initial: 4, Dropped: 3, Left: 1, Excluded: []string{"1", "2", "3"}}, step)
}

func TestEmptyConfigDisablesEverything(t *testing.T) {
	t.Parallel()

	f := FromConfig(nil, nil)
	result, err := f.RunFilters(context.Background(), pool())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Len())

	for _, status := range f.Describe() {
		assert.False(t, status.Enabled, status.Name)
		assert.NotEmpty(t, status.Reason, status.Name)
	}
}

func TestValidationRunsBeforeAnyStep(t *testing.T) {
	t.Parallel()

	c := pool()
	f := FromConfig(&Config{Domains: []string{"Backend"}, MinEducation: "bootcamp"}, nil)

	_, err := f.RunFilters(context.Background(), c)
	require.ErrorContains(t, err, `min_education: unknown education level "bootcamp"`)
	assert.Equal(t, 4, c.Len(), "no step may run when validation fails")

	_, err = FromConfig(&Config{MinExperience: -1}, nil).RunFilters(context.Background(), pool())
	require.Error(t, err)
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	f := FromConfig(&Config{Domains: []string{"Backend"}}, nil)
	f.DisableByName("domains", "disabled by flag")

	result, err := f.RunFilters(context.Background(), pool())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Len())

	statuses := f.Describe()
	require.Len(t, statuses, 5)
	assert.Equal(t, Status{
		Name:    "domains",
		Enabled: false,
		Reason:  "disabled by flag",
		Details: map[string]string{"domains": "Backend"},
	}, statuses[1])
}

func TestExcludeFileFilter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")
	excluded := (&candidate.Candidates{Items: []*candidate.Candidate{{ID: "2", Name: "Bob"}, {ID: "4", Name: "Di"}}}).
		ToExcluded(candidate.ExcludeActorUser, "")
	require.NoError(t, excluded.ToFile(path))

	result, err := New([]Filter{NewExcludeFile(path)}, nil).RunFilters(context.Background(), pool())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, result.IDs())

	missing := filepath.Join(t.TempDir(), "missing.json")
	result, err = New([]Filter{NewExcludeFile(missing)}, nil).RunFilters(context.Background(), pool())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Len())
}

func TestRunFiltersStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromConfig(&Config{MinExperience: 1}, nil).RunFilters(ctx, pool())
	require.ErrorIs(t, err, context.Canceled)
}
