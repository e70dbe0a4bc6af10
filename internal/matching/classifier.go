// Package matching scores candidates against job requirements, ranks them and
// explains individual matches. Every function here is pure: the same inputs
// always produce the same outputs and no input is modified.
package matching

import (
	"strings"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const (
	DomainMLAI            = "ML/AI"
	DomainDataEngineering = "Data Engineering"
	DomainFrontend        = "Frontend"
	DomainBackend         = "Backend"
	DomainDevOps          = "DevOps"
	DomainMobile          = "Mobile"
	DomainFullStack       = "Full Stack"
	DomainGeneral         = candidate.GeneralDomain
)

type domainKeywords struct {
	domain   string
	keywords []string
}

// domainTable is ordered: when several domains share the top score the one
// declared first wins.
var domainTable = []domainKeywords{
	{DomainMLAI, []string{
		"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
		"scikit-learn", "neural networks", "nlp", "computer vision", "ai",
		"transformers", "bert", "gpt", "opencv", "pandas", "numpy", "ml",
	}},
	{DomainDataEngineering, []string{
		"hadoop", "spark", "kafka", "airflow", "etl", "data pipeline",
		"snowflake", "databricks", "big data", "data warehouse", "data lake",
		"apache spark", "hive", "pig", "scala", "sql",
	}},
	{DomainFrontend, []string{
		"react", "angular", "vue", "javascript", "typescript", "html", "css",
		"sass", "less", "webpack", "babel", "npm", "yarn", "jquery", "bootstrap",
		"tailwind", "next.js", "nuxt.js", "svelte",
	}},
	{DomainBackend, []string{
		"node.js", "express", "django", "flask", "fastapi", "spring", "spring boot",
		"laravel", "rails", "asp.net", "php", "java", "python", "c#", "go", "rust",
	}},
	{DomainDevOps, []string{
		"docker", "kubernetes", "jenkins", "gitlab ci", "github actions",
		"terraform", "ansible", "chef", "puppet", "aws", "azure", "gcp",
		"linux", "bash", "shell scripting", "monitoring",
	}},
	{DomainMobile, []string{
		"ios", "android", "swift", "kotlin", "react native", "flutter",
		"xamarin", "ionic", "cordova", "mobile development",
	}},
	{DomainFullStack, []string{
		"full stack", "fullstack", "mean", "mern", "lamp", "django + react",
		"node + react",
	}},
}

// DomainScore is the keyword hit count of one domain.
type DomainScore struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
}

// Domains returns the classifiable domain labels in tie-break order.
func Domains() []string {
	domains := make([]string, 0, len(domainTable))
	for _, entry := range domainTable {
		domains = append(domains, entry.domain)
	}
	return domains
}

// DomainScores counts, per domain, every (keyword, skill) pair where the keyword
// is a substring of the lowercased skill.
func DomainScores(skills []string) []DomainScore {
	lowered := make([]string, len(skills))
	for i, skill := range skills {
		lowered[i] = strings.ToLower(skill)
	}

	scores := make([]DomainScore, 0, len(domainTable))
	for _, entry := range domainTable {
		score := 0
		for _, keyword := range entry.keywords {
			for _, skill := range lowered {
				if strings.Contains(skill, keyword) {
					score++
				}
			}
		}
		scores = append(scores, DomainScore{Domain: entry.domain, Score: score})
	}
	return scores
}

// ClassifyDomain maps a skill set to one coarse domain label, or General when
// nothing matches.
func ClassifyDomain(skills []string) string {
	if len(skills) == 0 {
		return DomainGeneral
	}

	best, top := DomainGeneral, 0
	for _, s := range DomainScores(skills) {
		if s.Score > top {
			best, top = s.Domain, s.Score
		}
	}
	return best
}
