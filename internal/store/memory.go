package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

// Memory is a process-local store. It is safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	records    map[string]*candidate.Candidate
	order      []string
	byFilename map[string]string
	now        func() time.Time
	newID      func(*candidate.Candidate) string
}

type MemoryOption func(*Memory)

// WithFilenameIDs makes records with a filename use FilenameID as their id.
// Records loaded again from the same files then keep their ids between runs.
func WithFilenameIDs() MemoryOption {
	return func(m *Memory) {
		m.newID = func(c *candidate.Candidate) string {
			if c.Filename == "" {
				return newID()
			}
			return FilenameID(c.Filename)
		}
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records:    make(map[string]*candidate.Candidate),
		byFilename: make(map[string]string),
		now:        time.Now,
		newID:      func(*candidate.Candidate) string { return newID() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Create(ctx context.Context, c *candidate.Candidate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	record := c.Clone()

	if id, ok := m.byFilename[record.Filename]; ok && record.Filename != "" {
		record.ID = id
		record.CreatedAt = m.records[id].CreatedAt
		record.UpdatedAt = now
		m.records[id] = &record
		return id, nil
	}

	record.ID = m.newID(&record)
	record.CreatedAt = now
	record.UpdatedAt = now
	m.records[record.ID] = &record
	m.order = append(m.order, record.ID)
	if record.Filename != "" {
		m.byFilename[record.Filename] = record.ID
	}
	return record.ID, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := record.Clone()
	return &cp, nil
}

func (m *Memory) Update(ctx context.Context, c *candidate.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[c.ID]
	if !ok {
		return ErrNotFound
	}

	if owner, ok := m.byFilename[c.Filename]; ok && c.Filename != "" && owner != c.ID {
		return fmt.Errorf("%w: %s", ErrFilenameTaken, c.Filename)
	}

	record := c.Clone()
	record.CreatedAt = current.CreatedAt
	record.UpdatedAt = m.now().UTC()

	if current.Filename != record.Filename {
		delete(m.byFilename, current.Filename)
		if record.Filename != "" {
			m.byFilename[record.Filename] = record.ID
		}
	}
	m.records[record.ID] = &record
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	delete(m.byFilename, record.Filename)
	m.order = slices.DeleteFunc(m.order, func(v string) bool { return v == id })
	return nil
}

func (m *Memory) List(ctx context.Context) ([]*candidate.Candidate, error) {
	return m.Filter(ctx, Query{})
}

func (m *Memory) Filter(ctx context.Context, q Query) ([]*candidate.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*candidate.Candidate, 0, len(m.order))
	for _, id := range m.order {
		record := m.records[id]
		if !q.Matches(record) {
			continue
		}
		cp := record.Clone()
		result = append(result, &cp)
	}
	return result, nil
}

func (m *Memory) Close() error {
	return nil
}
