package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ytget/yt-fetchd/internal/model"
)

// ErrNotFound is returned when an operation references an unknown job id
var ErrNotFound = errors.New("job not found")

// ErrInvalidTransition is returned when a mutator attempts an illegal state
// machine step. The store rejects the update instead of applying it.
var ErrInvalidTransition = errors.New("invalid job state transition")

// Mutator applies a change to a job inside the store's critical section.
// Returning an error aborts the update and leaves the record untouched.
type Mutator func(*model.Job) error

// Store is a thread-safe mapping from job id to job record
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]*model.Job
	order []string // insertion order for List
}

// New creates an empty store
func New() *Store {
	return &Store{
		jobs: make(map[string]*model.Job),
	}
}

// Create allocates a fresh job in the queued state and returns a snapshot of it
func (s *Store) Create(sourceURL string) model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		SourceURL: sourceURL,
		State:     model.StateQueued,
		Progress:  0,
		CreatedAt: time.Now().UTC(),
	}

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)

	return *job
}

// Get returns a consistent snapshot of a job
func (s *Store) Get(id string) (model.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return model.Job{}, false
	}
	return *job, true
}

// Update applies an atomic read-modify-write to the job. The mutator runs
// under the store lock; if it returns an error the record is left as it was.
// Returns the post-update snapshot, or ErrNotFound for an unknown id.
func (s *Store) Update(id string, mutate Mutator) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return model.Job{}, ErrNotFound
	}

	// Mutate a copy so a failed mutator cannot leave a half-applied record
	updated := *job
	if err := mutate(&updated); err != nil {
		return model.Job{}, err
	}
	*job = updated

	return updated, nil
}

// List returns snapshots of all jobs in insertion order
func (s *Store) List() []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]model.Job, 0, len(s.order))
	for _, id := range s.order {
		if job, exists := s.jobs[id]; exists {
			jobs = append(jobs, *job)
		}
	}
	return jobs
}

// Delete removes a job record. Returns false if the id is unknown.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; !exists {
		return false
	}
	delete(s.jobs, id)

	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// CountActive returns the number of jobs that are not yet terminal
func (s *Store) CountActive() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, job := range s.jobs {
		if job.State.IsActive() {
			count++
		}
	}
	return count
}
