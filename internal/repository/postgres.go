package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inspectme/internal/model"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) InspectionRepository {
	return &postgresRepository{db: db}
}

const jobColumns = `
	id, recording_id, status, raw_transcript, cleaned_text, structured_data,
	error_message, failed_stage, processing_time_ms, created_at`

// Create creates a new job record
func (r *postgresRepository) Create(ctx context.Context, job *model.InspectionJob) error {
	query := `
		INSERT INTO inspection_jobs (` + jobColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID,
		job.RecordingID,
		job.Status,
		job.RawTranscript,
		job.CleanedText,
		nullableJSON(job.StructuredData),
		job.ErrorMessage,
		job.FailedStage,
		job.ProcessingTimeMs,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inspection job: %w", err)
	}
	return nil
}

// UpdateResult updates the job outcome. Nil fields keep their stored value.
func (r *postgresRepository) UpdateResult(ctx context.Context, job *model.InspectionJob) error {
	query := `
		UPDATE inspection_jobs
		SET
			status = COALESCE(NULLIF($1, ''), status),
			cleaned_text = COALESCE($2, cleaned_text),
			structured_data = COALESCE($3::jsonb, structured_data),
			error_message = COALESCE($4, error_message),
			failed_stage = COALESCE($5, failed_stage),
			processing_time_ms = COALESCE($6, processing_time_ms)
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		job.Status,
		job.CleanedText,
		nullableJSON(job.StructuredData),
		job.ErrorMessage,
		job.FailedStage,
		job.ProcessingTimeMs,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inspection job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a job by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.InspectionJob, error) {
	query := `SELECT ` + jobColumns + ` FROM inspection_jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection job: %w", err)
	}
	return job, nil
}

// List retrieves jobs, newest first, with pagination
func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.InspectionJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM inspection_jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query inspection jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.InspectionJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return jobs, nil
}

// Delete removes a job
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inspection_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inspection job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*model.InspectionJob, error) {
	var job model.InspectionJob
	var structured []byte
	err := s.Scan(
		&job.ID,
		&job.RecordingID,
		&job.Status,
		&job.RawTranscript,
		&job.CleanedText,
		&structured,
		&job.ErrorMessage,
		&job.FailedStage,
		&job.ProcessingTimeMs,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(structured) > 0 {
		job.StructuredData = structured
	}
	return &job, nil
}

func nullableJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
