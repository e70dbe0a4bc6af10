// Package profile turns loosely structured résumé fields, as produced by an
// upstream text extractor, into candidate records ready to be stored and scored.
package profile

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/matching"
)

const unknownName = "Unknown"

// Raw is one extracted résumé document.
type Raw struct {
	Name            string     `mapstructure:"name"`
	Email           string     `mapstructure:"email"`
	Phone           string     `mapstructure:"phone"`
	LinkedIn        string     `mapstructure:"linkedin"`
	Domain          string     `mapstructure:"domain"`
	Skills          []string   `mapstructure:"skills"`
	ExperienceYears int        `mapstructure:"experience_years"`
	Experience      []Position `mapstructure:"experience"`
	Education       []Degree   `mapstructure:"education"`
	RawText         string     `mapstructure:"raw_text"`
	Filename        string     `mapstructure:"filename"`
}

type Position struct {
	Title       string   `mapstructure:"title"`
	Company     string   `mapstructure:"company"`
	Duration    string   `mapstructure:"duration"`
	Description []string `mapstructure:"description"`
}

type Degree struct {
	Degree      string `mapstructure:"degree"`
	Institution string `mapstructure:"institution"`
	Year        string `mapstructure:"year"`
}

// Decode reads a raw document from generic JSON/YAML data. Scalars are
// converted loosely, so a numeric year or a string experience count is accepted.
func Decode(input map[string]any) (*Raw, error) {
	var raw Raw

	cfg := &mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("decode resume document: %w", err)
	}

	return &raw, nil
}

// DecodeAll decodes a list of raw documents.
func DecodeAll(items []map[string]any) ([]*Raw, error) {
	raws := make([]*Raw, 0, len(items))
	for i, item := range items {
		raw, err := Decode(item)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// Analyze derives a candidate from the raw document. Explicit experience and
// domain values win over the ones inferred from text and skills.
func Analyze(raw *Raw) (*candidate.Candidate, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: document is nil", candidate.ErrInvalidCandidate)
	}

	years := raw.ExperienceYears
	if years <= 0 {
		years = ExperienceFromText(raw.RawText)
	}

	education := EducationLevel(raw.Education)
	skills := EnhanceSkills(raw.Skills, raw.RawText)

	domain := strings.TrimSpace(raw.Domain)
	if domain == "" {
		domain = matching.ClassifyDomain(skills)
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = unknownName
	}

	c := &candidate.Candidate{
		Name:            name,
		Email:           strings.TrimSpace(raw.Email),
		Phone:           strings.TrimSpace(raw.Phone),
		LinkedIn:        strings.TrimSpace(raw.LinkedIn),
		Domain:          domain,
		Skills:          skills,
		ExperienceYears: years,
		Education:       education,
		Seniority:       Seniority(years, len(skills), education),
		Filename:        raw.Filename,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
