package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"inspectme/internal/model"
)

type memoryRepository struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*model.InspectionJob
}

// NewMemoryRepository returns a process-local repository, used when no
// database is configured.
func NewMemoryRepository() InspectionRepository {
	return &memoryRepository{jobs: make(map[uuid.UUID]*model.InspectionJob)}
}

func (r *memoryRepository) Create(_ context.Context, job *model.InspectionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *job
	r.jobs[job.ID] = &c
	return nil
}

func (r *memoryRepository) UpdateResult(_ context.Context, job *model.InspectionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[job.ID]
	if !ok {
		return ErrNotFound
	}
	if job.Status != "" {
		stored.Status = job.Status
	}
	if job.CleanedText != nil {
		stored.CleanedText = job.CleanedText
	}
	if len(job.StructuredData) > 0 {
		stored.StructuredData = job.StructuredData
	}
	if job.ErrorMessage != nil {
		stored.ErrorMessage = job.ErrorMessage
	}
	if job.FailedStage != nil {
		stored.FailedStage = job.FailedStage
	}
	if job.ProcessingTimeMs != nil {
		stored.ProcessingTimeMs = job.ProcessingTimeMs
	}
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.InspectionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *job
	return &c, nil
}

func (r *memoryRepository) List(_ context.Context, limit, offset int) ([]model.InspectionJob, error) {
	r.mu.Lock()
	jobs := make([]model.InspectionJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, *job)
	}
	r.mu.Unlock()

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	if offset >= len(jobs) {
		return []model.InspectionJob{}, nil
	}
	jobs = jobs[offset:]
	if limit > 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (r *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}
