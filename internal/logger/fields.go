package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const (
	FieldCandidateID   = "candidate_id"
	FieldCandidateName = "candidate_name"
	FieldDomain        = "domain"
	FieldJobTitle      = "job_title"
	FieldJobDomain     = "job_domain"
	FieldScore         = "score"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CandidateFields identifies a candidate in log entries.
func CandidateFields(c *candidate.Candidate) []zap.Field {
	if c == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldCandidateID, Value: c.ID},
		StringField{Key: FieldCandidateName, Value: c.Name},
		StringField{Key: FieldDomain, Value: c.Domain},
	)
}

// JobFields identifies a job requirement in log entries.
func JobFields(job *candidate.JobRequirement) []zap.Field {
	if job == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldJobTitle, Value: job.Title},
		StringField{Key: FieldJobDomain, Value: job.Domain},
	)
}

// ScoredFields describes a ranked candidate together with its score.
func ScoredFields(s candidate.Scored) []zap.Field {
	return append(CandidateFields(&s.Candidate), zap.Float64(FieldScore, s.ScoreValue()))
}

// WithJob attaches the job fields to the logger.
func WithJob(logger *zap.Logger, job *candidate.JobRequirement) *zap.Logger {
	return WithFields(logger, JobFields(job)...)
}
