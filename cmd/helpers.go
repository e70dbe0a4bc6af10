package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/profile"
	"github.com/spigell/candidate-ranker/internal/schema"
	"github.com/spigell/candidate-ranker/internal/store"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// loadJob reads a YAML or JSON job requirement document.
func loadJob(path string) (*candidate.JobRequirement, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: job file is not set", candidate.ErrInvalidJob)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading job requirement %q: %w", path, err)
	}

	settings := v.AllSettings()
	if err := schema.ValidateJob(settings); err != nil {
		return nil, fmt.Errorf("job requirement %q: %w", path, err)
	}

	var job candidate.JobRequirement
	if err := mapstructure.Decode(settings, &job); err != nil {
		return nil, fmt.Errorf("decoding job requirement %q: %w", path, err)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return &job, nil
}

// analyzedResume is a candidate built from a résumé document together with
// the details that do not take part in scoring.
type analyzedResume struct {
	*candidate.Candidate
	Profile profile.Insights `json:"profile"`
}

// readResumes reads a JSON list of extracted résumé documents and analyzes
// them. Results are returned in document order.
func readResumes(path string) ([]analyzedResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resumes: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding resumes %q: %w", path, err)
	}

	if err := schema.ValidateResumes(doc); err != nil {
		return nil, fmt.Errorf("resumes %q: %w", path, err)
	}

	// the schema guarantees a list of objects
	items, _ := doc.([]any)
	docs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)
		docs = append(docs, m)
	}

	raws, err := profile.DecodeAll(docs)
	if err != nil {
		return nil, err
	}

	resumes := make([]analyzedResume, 0, len(raws))
	for i, raw := range raws {
		c, err := profile.Analyze(raw)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		resumes = append(resumes, analyzedResume{Candidate: c, Profile: profile.Summarize(raw, c.Skills)})
	}

	return resumes, nil
}

func candidatesOf(resumes []analyzedResume) []*candidate.Candidate {
	candidates := make([]*candidate.Candidate, 0, len(resumes))
	for _, r := range resumes {
		candidates = append(candidates, r.Candidate)
	}
	return candidates
}

// importCandidates stores the candidates and fills in their ids.
func importCandidates(ctx context.Context, s store.Store, candidates []*candidate.Candidate, logger *zap.Logger) error {
	for _, c := range candidates {
		id, err := s.Create(ctx, c)
		if err != nil {
			return fmt.Errorf("storing candidate %q: %w", c.Name, err)
		}
		c.ID = id
		logger.Debug("candidate stored", zap.String("candidate_id", id), zap.String("candidate_name", c.Name))
	}
	return nil
}

// openCandidates returns the store the command works on. When resumesFile is
// set the résumés are analyzed into a fresh in-memory store instead of the
// configured backend. Résumés with a filename keep the same id on every load,
// so ids printed by one run and exclude files stay valid for the next.
func openCandidates(ctx context.Context, config *Config, resumesFile string, logger *zap.Logger) (store.Store, error) {
	if resumesFile == "" {
		return store.New(ctx, config.Store, logger)
	}

	resumes, err := readResumes(resumesFile)
	if err != nil {
		return nil, err
	}

	s := store.NewMemory(store.WithFilenameIDs())
	if err := importCandidates(ctx, s, candidatesOf(resumes), logger); err != nil {
		return nil, err
	}

	logger.Info("loaded candidates from file", zap.String("file", resumesFile), zap.Int("count", len(resumes)))
	return s, nil
}

// requirePersistent rejects commands whose effect would be lost with the
// process-local memory backend.
func requirePersistent(config *Config, command string) error {
	if storeBackend(config) != store.BackendMemory {
		return nil
	}
	return fmt.Errorf("%s needs a persistent store: set store.backend to %s or %s, the %s backend keeps records only while the command runs",
		command, store.BackendPostgres, store.BackendRedis, store.BackendMemory)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
