// Package store keeps uploaded resumes and job postings in a single JSON
// file so they survive restarts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"resumatch/internal/domain"
)

// Resume is a parsed, stored resume.
type Resume struct {
	ID        string          `json:"id"`
	FilePath  string          `json:"file_path,omitempty"`
	Name      string          `json:"name,omitempty"`
	Contacts  domain.Contacts `json:"contacts"`
	Skills    []string        `json:"skills"`
	RawText   string          `json:"raw_text"`
	Embedding []float32       `json:"embedding,omitempty"`
}

// JobPosting is a stored job description.
type JobPosting struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	Company        string    `json:"company,omitempty"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills,omitempty"`
	RawText        string    `json:"raw_text"`
	Embedding      []float32 `json:"embedding,omitempty"`
}

type fileState struct {
	Resumes []Resume     `json:"resumes"`
	Jobs    []JobPosting `json:"jobs"`
}

// Store is a file-backed document store. Every mutation rewrites the file.
type Store struct {
	mu    sync.RWMutex
	path  string
	log   *zap.Logger
	state fileState
}

// Open loads the store at path, creating an empty one if the file does not
// exist. A corrupt file is logged and replaced with an empty state rather
// than failing startup.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		log.Warn("store file is corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		s.state = fileState{}
	}
	return s, nil
}

// AddResume assigns the next resume ID and persists.
func (s *Store) AddResume(r Resume) (Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = fmt.Sprintf("resume_%d", len(s.state.Resumes)+1)
	s.state.Resumes = append(s.state.Resumes, r)
	if err := s.flush(); err != nil {
		s.state.Resumes = s.state.Resumes[:len(s.state.Resumes)-1]
		return Resume{}, err
	}
	s.log.Debug("resume stored", zap.String("id", r.ID))
	return r, nil
}

// AddJob assigns the next job ID and persists.
func (s *Store) AddJob(j JobPosting) (JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.ID = fmt.Sprintf("job_%d", len(s.state.Jobs)+1)
	s.state.Jobs = append(s.state.Jobs, j)
	if err := s.flush(); err != nil {
		s.state.Jobs = s.state.Jobs[:len(s.state.Jobs)-1]
		return JobPosting{}, err
	}
	s.log.Debug("job stored", zap.String("id", j.ID))
	return j, nil
}

// GetResume returns the resume with the given ID.
func (s *Store) GetResume(id string) (Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Resumes {
		if r.ID == id {
			return r, nil
		}
	}
	return Resume{}, fmt.Errorf("%w: resume %q", domain.ErrNotFound, id)
}

// GetJob returns the job with the given ID.
func (s *Store) GetJob(id string) (JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.state.Jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return JobPosting{}, fmt.Errorf("%w: job %q", domain.ErrNotFound, id)
}

// ListResumes returns all resumes in insertion order.
func (s *Store) ListResumes() []Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Resume, len(s.state.Resumes))
	copy(out, s.state.Resumes)
	return out
}

// ListJobs returns all jobs in insertion order.
func (s *Store) ListJobs() []JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JobPosting, len(s.state.Jobs))
	copy(out, s.state.Jobs)
	return out
}

// flush writes the state to disk. Caller holds the write lock.
func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}
