package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"inspectme/internal/model"
)

// ErrNotFound is returned when no job has the requested ID.
var ErrNotFound = errors.New("inspection job not found")

// InspectionRepository defines the interface for inspection job data access
type InspectionRepository interface {
	// Create creates a new job record
	Create(ctx context.Context, job *model.InspectionJob) error

	// UpdateResult updates the outcome (status, narrative, record, error, timing)
	UpdateResult(ctx context.Context, job *model.InspectionJob) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.InspectionJob, error)

	// List retrieves jobs, newest first, with pagination
	List(ctx context.Context, limit, offset int) ([]model.InspectionJob, error)

	// Delete removes a job
	Delete(ctx context.Context, id uuid.UUID) error
}
