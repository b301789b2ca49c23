// Package jobs tracks the lifecycle of translation requests handed to the
// pipeline. The store is in-memory: jobs do not survive a restart, and the
// surrounding service is expected to treat a lost job as failed.
package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/mcp-pdf-translator/internal/pipeline"
)

// Status is the lifecycle state of a translation job.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job represents one translation request and its outcome.
type Job struct {
	ID      string           `json:"id"`
	Request pipeline.Request `json:"request"`
	Status  Status           `json:"status"`

	// FailedStage is the pipeline stage at which a failed job stopped.
	FailedStage pipeline.Stage `json:"failed_stage,omitempty"`
	Error       string         `json:"error,omitempty"`

	Result *pipeline.Result `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is thread-safe in-memory storage for translation jobs.
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*Job),
	}
}

// Create registers a new pending job for the given request and returns a
// snapshot of it.
func (s *Store) Create(req pipeline.Request) Job {
	now := time.Now()
	job := &Job{
		ID:        uuid.New().String(),
		Request:   req,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	return *job
}

// Get returns a snapshot of the job with the given ID.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns snapshots of all jobs in creation order.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.jobs[id])
	}
	return out
}

// NextPending atomically claims the oldest pending job, marking it running.
func (s *Store) NextPending() (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		job := s.jobs[id]
		if job.Status == StatusPending {
			job.Status = StatusRunning
			job.UpdatedAt = time.Now()
			return *job, true
		}
	}
	return Job{}, false
}

// MarkDone records a successful run.
func (s *Store) MarkDone(id string, result *pipeline.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job: %s", id)
	}
	job.Status = StatusDone
	job.Result = result
	job.FailedStage = ""
	job.Error = ""
	job.UpdatedAt = time.Now()
	return nil
}

// MarkFailed records a failed run with the stage at which it stopped.
func (s *Store) MarkFailed(id string, stage pipeline.Stage, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job: %s", id)
	}
	job.Status = StatusFailed
	job.FailedStage = stage
	if cause != nil {
		job.Error = cause.Error()
	}
	job.UpdatedAt = time.Now()
	return nil
}
