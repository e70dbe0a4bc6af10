package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	raw, err := Decode(map[string]any{
		"name":   "John Doe",
		"email":  "john.doe@email.com",
		"skills": []any{"Python", "TensorFlow", "React", "AWS", "Docker"},
		"experience": []any{
			map[string]any{"title": "Senior ML Engineer", "description": []any{"Built ML models"}},
		},
		"education": []any{
			map[string]any{"degree": "Master of Science in Computer Science", "year": 2015},
		},
		"raw_text": "Senior ML Engineer with 5 years of experience in Python and TensorFlow",
		"filename": "john.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "2015", raw.Education[0].Year)

	c, err := Analyze(raw)
	require.NoError(t, err)

	assert.Equal(t, &candidate.Candidate{
		Name:            "John Doe",
		Email:           "john.doe@email.com",
		Domain:          "DevOps",
		Skills:          []string{"AWS", "Docker", "Python", "React", "TensorFlow"},
		ExperienceYears: 5,
		Education:       EducationMasters,
		Seniority:       "Mid-level",
		Filename:        "john.pdf",
	}, c)
}

func TestAnalyzeExplicitFieldsWin(t *testing.T) {
	t.Parallel()

	c, err := Analyze(&Raw{
		Domain:          "ML/AI",
		Skills:          []string{"Docker"},
		ExperienceYears: 9,
		RawText:         "2 years of experience",
	})
	require.NoError(t, err)

	assert.Equal(t, "Unknown", c.Name)
	assert.Equal(t, "ML/AI", c.Domain)
	assert.Equal(t, 9, c.ExperienceYears)
	assert.Equal(t, EducationNotSpecified, c.Education)
}

func TestAnalyzeNil(t *testing.T) {
	t.Parallel()

	_, err := Analyze(nil)
	require.ErrorIs(t, err, candidate.ErrInvalidCandidate)
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	t.Parallel()

	_, err := Decode(map[string]any{"name": map[string]any{"first": "John"}})
	require.Error(t, err)

	_, err = DecodeAll([]map[string]any{{"name": "ok"}, {"name": map[string]any{"first": "Jane"}}})
	require.ErrorContains(t, err, "document 1")
}

func TestExperienceFromText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		expect int
	}{
		{name: "empty", text: "", expect: 0},
		{name: "years of experience", text: "ML engineer with 5 years of experience in Python", expect: 5},
		{name: "largest mention wins", text: "10+ years in backend, 3 yrs experience with Go", expect: 10},
		{name: "experience first", text: "Experience of 7 years", expect: 7},
		{name: "implausible mention ignored", text: "60 years of experience", expect: 0},
		{name: "positions estimate", text: "Software Engineer, Senior Developer, Team Lead", expect: 8},
		{name: "positions estimate capped", text: "engineer engineer engineer engineer engineer engineer engineer engineer", expect: 15},
		{name: "word boundaries", text: "engineering leadership", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, ExperienceFromText(tt.text))
		})
	}
}

func TestSeniority(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Principal/Staff", Seniority(10, 20, EducationPhD))
	assert.Equal(t, "Senior", Seniority(7, 5, EducationBachelors))
	assert.Equal(t, "Mid-level", Seniority(5, 6, EducationMasters))
	assert.Equal(t, "Junior", Seniority(1, 0, EducationNotSpecified))
	assert.Equal(t, "Entry-level", Seniority(0, 5, ""))
	assert.Equal(t, "Principal/Staff", Seniority(40, 0, ""))
}

func TestEducationLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		degrees []Degree
		expect  string
	}{
		{degrees: nil, expect: EducationNotSpecified},
		{degrees: []Degree{{Degree: "PhD in Physics"}}, expect: EducationPhD},
		{degrees: []Degree{{Degree: "Master of Science in Computer Science"}}, expect: EducationMasters},
		{degrees: []Degree{{Degree: "MBA"}}, expect: EducationMasters},
		{degrees: []Degree{{Degree: "B.Tech Computer Science"}}, expect: EducationBachelors},
		{degrees: []Degree{{Degree: "Bachelor of Science, Mathematics"}}, expect: EducationBachelors},
		{degrees: []Degree{{Degree: "Diploma in Design"}}, expect: EducationAssociate},
		{degrees: []Degree{{Degree: "AWS Certification"}}, expect: EducationCertificate},
		{degrees: []Degree{{Degree: "High school"}, {Degree: "Ph.D. Chemistry"}}, expect: EducationPhD},
		{degrees: []Degree{{Degree: "Bootcamp"}}, expect: EducationNotSpecified},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, EducationLevel(tt.degrees), "%v", tt.degrees)
	}
}

func TestEducationRank(t *testing.T) {
	t.Parallel()

	assert.Greater(t, EducationRank("phd"), EducationRank(EducationMasters))
	assert.Greater(t, EducationRank(EducationMasters), EducationRank(EducationBachelors))
	assert.Greater(t, EducationRank(EducationBachelors), EducationRank(EducationAssociate))
	assert.Greater(t, EducationRank(EducationAssociate), EducationRank(EducationCertificate))
	assert.Equal(t, 0, EducationRank(EducationNotSpecified))
}

func TestEnhanceSkills(t *testing.T) {
	t.Parallel()

	skills := EnhanceSkills(
		[]string{"Python", "python ", " AWS", ""},
		"Worked with aws, Docker, git and CI/CD in agile teams. PostgreSQL.",
	)

	assert.Equal(t, []string{"AWS", "Agile", "Ci/Cd", "Git", "Postgresql", "Python"}, skills)
}

func TestSkillCategories(t *testing.T) {
	t.Parallel()

	categories := SkillCategories([]string{"Python", "React", "MongoDB", "Docker", "Figma", "Go", "TensorFlow"})

	assert.Equal(t, []SkillCategory{
		{Name: "Programming Languages", Skills: []string{"Python", "Go"}},
		{Name: "Frameworks", Skills: []string{"React"}},
		{Name: "Databases", Skills: []string{"MongoDB"}},
		{Name: "Cloud & DevOps", Skills: []string{"Docker"}},
		{Name: "ML/AI", Skills: []string{"TensorFlow"}},
		{Name: "Tools & Technologies", Skills: []string{"Figma"}},
	}, categories)
	assert.Empty(t, SkillCategories(nil))
}

func TestSkillProficiency(t *testing.T) {
	t.Parallel()

	text := "Expert in Python\nFamiliar with Docker\nBasic knowledge of Rust"
	levels := SkillProficiency([]string{"Python", "Docker", "Rust", "Kotlin"}, text)

	assert.Equal(t, map[string]string{
		"Python": ProficiencyExpert,
		"Docker": ProficiencyBasic,
		"Rust":   ProficiencyBasic,
		"Kotlin": ProficiencyIntermediate,
	}, levels)
}

func TestKeyProjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		expect []string
	}{
		{
			name: "bulleted section",
			text: "John Doe\nKey Projects\n• Fraud detection model\n  trained on 2M transactions\n- Recommendation engine\n\nEducation\n• MSc",
			expect: []string{
				"• Fraud detection model trained on 2M transactions",
				"- Recommendation engine",
			},
		},
		{
			name:   "section runs to the end",
			text:   "PROJECTS\n* Chat bot",
			expect: []string{"* Chat bot"},
		},
		{
			name:   "plain lines form one project",
			text:   "Personal projects\nA budgeting app\nwritten in Go\nSkills\nGo",
			expect: []string{"A budgeting app written in Go"},
		},
		{
			name: "no projects heading",
			text: "Experience\n- Built pipelines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, KeyProjects(tt.text))
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	raw := &Raw{RawText: "Expert in Python\nProjects\n- Churn model"}
	insights := Summarize(raw, []string{"Python", "Docker"})

	assert.Equal(t, []SkillCategory{
		{Name: "Programming Languages", Skills: []string{"Python"}},
		{Name: "Cloud & DevOps", Skills: []string{"Docker"}},
	}, insights.SkillCategories)
	assert.Equal(t, map[string]string{"Python": ProficiencyExpert, "Docker": ProficiencyIntermediate}, insights.SkillProficiency)
	assert.Equal(t, []string{"- Churn model"}, insights.KeyProjects)

	assert.Equal(t, Insights{}, Summarize(nil, nil))
}
