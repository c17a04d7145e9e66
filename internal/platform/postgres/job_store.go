package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teagan-pado/contacts-application/internal/job"
	"github.com/teagan-pado/contacts-application/internal/platform/logger"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// PostgresJobStore implements the job.JobStore interface using PostgreSQL.
// The jobs table is the durable half of the queue: a saved job survives a
// process crash and is requeued by recovery on the next start.
type PostgresJobStore struct {
	db store.DBTX
}

var _ job.JobStore = (*PostgresJobStore)(nil)

// NewPostgresJobStore creates a new PostgresJobStore
func NewPostgresJobStore(db store.DBTX) *PostgresJobStore {
	return &PostgresJobStore{
		db: db,
	}
}

// SaveJob persists a job to the database
func (s *PostgresJobStore) SaveJob(ctx context.Context, j job.Job) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO jobs (id, type, payload, status, enqueued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		j.ID(),
		j.Type(),
		j.Payload(),
		j.Status(),
		j.EnqueuedAt(),
		now,
		now,
	)

	if err != nil {
		log.Error("failed to save job",
			"job_id", j.ID(),
			"job_type", j.Type(),
			"error", err)
		return fmt.Errorf("failed to save job to database: %w", err)
	}

	return nil
}

// UpdateJobStatus updates the status of a job in the database
func (s *PostgresJobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status job.JobStatus, errorMsg string) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		jobID,
	)

	if err != nil {
		log.Error("failed to update job status",
			"job_id", jobID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no job found with ID to update status", "job_id", jobID)
		return nil
	}

	return nil
}

// GetPendingJobs retrieves jobs with "pending" status, optionally filtered
// to rows that have not been touched for longer than olderThan
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context, olderThan time.Duration) ([]job.Job, error) {
	return s.getJobsByStatus(ctx, job.JobStatusPending, olderThan)
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *PostgresJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]job.Job, error) {
	return s.getJobsByStatus(ctx, job.JobStatusProcessing, olderThan)
}

// WithTx returns a new JobStore instance that uses the provided transaction
func (s *PostgresJobStore) WithTx(tx *sql.Tx) job.JobStore {
	return &PostgresJobStore{
		db: tx,
	}
}

// getJobsByStatus is a helper method to get jobs by status with optional age filter
func (s *PostgresJobStore) getJobsByStatus(ctx context.Context, status job.JobStatus, olderThan time.Duration) ([]job.Job, error) {
	log := logger.FromContext(ctx)

	var query string
	var args []interface{}

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status, enqueued_at
			FROM jobs
			WHERE status = $1 AND updated_at < $2
			ORDER BY enqueued_at ASC
		`
		args = []interface{}{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status, enqueued_at
			FROM jobs
			WHERE status = $1
			ORDER BY enqueued_at ASC
		`
		args = []interface{}{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs by status",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("failed to query jobs by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []job.Job

	for rows.Next() {
		var id uuid.UUID
		var jobType string
		var payload []byte
		var jobStatus job.JobStatus
		var enqueuedAt time.Time

		if err := rows.Scan(&id, &jobType, &payload, &jobStatus, &enqueuedAt); err != nil {
			log.Error("failed to scan job row",
				"status", status,
				"error", err)
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}

		jobs = append(jobs, job.NewRecord(id, jobType, payload, jobStatus, enqueuedAt))
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating job rows",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}
