// Package store keeps candidate records. Records are keyed by a generated id
// and, when present, by the source filename: saving a candidate whose filename
// is already known replaces that record instead of adding a new one.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/candidate"
	"github.com/spigell/candidate-ranker/internal/secrets"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var (
	ErrNotFound = errors.New("candidate not found")
	// ErrFilenameTaken is returned by Update when the new filename already
	// belongs to another record.
	ErrFilenameTaken = errors.New("filename belongs to another candidate")
)

// Store is a keyed candidate repository. Returned candidates are copies.
type Store interface {
	// Create stores a new candidate, or replaces the one with the same
	// filename, and returns its id.
	Create(ctx context.Context, c *candidate.Candidate) (string, error)
	Get(ctx context.Context, id string) (*candidate.Candidate, error)
	Update(ctx context.Context, c *candidate.Candidate) error
	Delete(ctx context.Context, id string) error
	// List returns all candidates in creation order.
	List(ctx context.Context) ([]*candidate.Candidate, error)
	Filter(ctx context.Context, q Query) ([]*candidate.Candidate, error)
	Close() error
}

// Query selects candidates by domain and minimal experience. An empty Domains
// list matches every domain; domains are compared ignoring case.
type Query struct {
	Domains       []string
	MinExperience int
}

func (q Query) Matches(c *candidate.Candidate) bool {
	if c.ExperienceYears < q.MinExperience {
		return false
	}
	if len(q.Domains) == 0 {
		return true
	}
	return slices.ContainsFunc(q.Domains, func(d string) bool {
		return strings.EqualFold(strings.TrimSpace(d), c.Domain)
	})
}

func (q Query) lowerDomains() []string {
	domains := make([]string, 0, len(q.Domains))
	for _, d := range q.Domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

type Config struct {
	Backend  string          `mapstructure:"backend"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	DSNFile        string `mapstructure:"dsn-file"`
	MaxConnections int    `mapstructure:"max-connections"`
	MaxIdle        int    `mapstructure:"max-idle"`
	Migrate        bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	DB           int    `mapstructure:"db"`
	Prefix       string `mapstructure:"prefix"`
}

// New opens the configured backend. An empty backend means memory.
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	logger = logger.With(zap.String("store", backend))

	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendPostgres:
		if cfg.Postgres == nil {
			return nil, errors.New("store.postgres section is required for the postgres backend")
		}
		dsn, err := secrets.Load(secrets.Source{
			Name:  "postgres dsn",
			Value: cfg.Postgres.DSN,
			File:  cfg.Postgres.DSNFile,
		})
		if err != nil {
			return nil, err
		}
		s, err := OpenPostgres(dsn, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		if cfg.Postgres.Migrate {
			if err := s.Migrate(ctx); err != nil {
				s.Close()
				return nil, err
			}
			logger.Debug("schema is up to date")
		}
		return s, nil
	case BackendRedis:
		if cfg.Redis == nil {
			return nil, errors.New("store.redis section is required for the redis backend")
		}
		password, err := secrets.Load(secrets.Source{
			Name:     "redis password",
			Value:    cfg.Redis.Password,
			File:     cfg.Redis.PasswordFile,
			Optional: true,
		})
		if err != nil {
			return nil, err
		}
		s := OpenRedis(cfg.Redis, password)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

var newID = uuid.NewString

var filenameNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spigell/candidate-ranker/resume"))

// FilenameID derives a stable id from a résumé filename, so that the same file
// gets the same id every time it is loaded.
func FilenameID(filename string) string {
	return uuid.NewSHA1(filenameNamespace, []byte(filename)).String()
}
