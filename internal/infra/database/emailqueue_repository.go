package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

const emailJobColumns = `id, lead_id, recipient, subject, template, data,
	status, attempts, last_attempt, error, sent_at, created_at`

// RetryCoolDown is the minimum wait before a pending job with a prior
// attempt becomes eligible again.
const RetryCoolDown = 5 * time.Minute

type EmailQueueRepository struct {
	DB *sql.DB
}

func NewEmailQueueRepository(db *sql.DB) *EmailQueueRepository {
	return &EmailQueueRepository{DB: db}
}

func (r *EmailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	payload, err := json.Marshal(job.Data)
	if err != nil {
		return fmt.Errorf("failed to serialize email payload: %w", err)
	}

	query := `
		INSERT INTO email_queue (lead_id, recipient, subject, template, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, attempts, created_at
	`

	err = r.DB.QueryRowContext(ctx, query,
		job.LeadID,
		job.Recipient,
		job.Subject,
		job.Template,
		string(payload),
	).Scan(&job.ID, &job.Status, &job.Attempts, &job.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

func (r *EmailQueueRepository) FindByID(ctx context.Context, id int64) (*entity.EmailJob, error) {
	query := `SELECT ` + emailJobColumns + ` FROM email_queue WHERE id = $1`

	job, err := scanEmailJob(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// FindPending selects the jobs a dispatch cycle may attempt: still pending,
// below the attempt ceiling, and either never tried or past the cool-down.
// Oldest first, so retries don't starve newer jobs and vice versa.
func (r *EmailQueueRepository) FindPending(ctx context.Context, maxAttempts int) ([]*entity.EmailJob, error) {
	query := `
		SELECT ` + emailJobColumns + `
		FROM email_queue
		WHERE status = 'pending'
			AND attempts < $1
			AND (last_attempt IS NULL OR last_attempt <= NOW() - INTERVAL '5 minutes')
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*entity.EmailJob{}
	for rows.Next() {
		job, err := scanEmailJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *EmailQueueRepository) MarkSent(ctx context.Context, id int64) error {
	query := `
		UPDATE email_queue
		SET status = 'sent',
			sent_at = NOW(),
			attempts = attempts + 1,
			last_attempt = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *EmailQueueRepository) MarkFailed(ctx context.Context, id int64, errText string) error {
	query := `
		UPDATE email_queue
		SET status = 'failed',
			error = $1,
			attempts = attempts + 1,
			last_attempt = NOW()
		WHERE id = $2
	`
	_, err := r.DB.ExecContext(ctx, query, errText, id)
	return err
}

func (r *EmailQueueRepository) UpdateStatus(ctx context.Context, id int64, status string, errText *string, sentAt *time.Time) error {
	query := `
		UPDATE email_queue
		SET status = $1,
			error = $2,
			sent_at = $3,
			attempts = attempts + 1,
			last_attempt = NOW()
		WHERE id = $4
	`
	_, err := r.DB.ExecContext(ctx, query, status, errText, sentAt, id)
	return err
}

func (r *EmailQueueRepository) Statistics(ctx context.Context) (*entity.EmailQueueStatistics, error) {
	stats := &entity.EmailQueueStatistics{ByStatus: make(map[string]int)}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM email_queue GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM email_queue
		WHERE created_at >= NOW() - INTERVAL '24 hours'
	`).Scan(&stats.Last24h)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM email_queue
		WHERE status = 'failed' AND created_at >= NOW() - INTERVAL '7 days'
	`).Scan(&stats.FailedLastWeek)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func scanEmailJob(row rowScanner) (*entity.EmailJob, error) {
	var job entity.EmailJob
	var payload sql.NullString

	err := row.Scan(
		&job.ID, &job.LeadID, &job.Recipient, &job.Subject, &job.Template,
		&payload, &job.Status, &job.Attempts, &job.LastAttempt,
		&job.Error, &job.SentAt, &job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Data = map[string]any{}
	if payload.Valid && payload.String != "" {
		// A corrupt payload shouldn't block dispatch; render falls back to
		// an empty body and the send outcome is recorded normally.
		_ = json.Unmarshal([]byte(payload.String), &job.Data)
	}
	return &job, nil
}

var _ entity.EmailQueueRepository = (*EmailQueueRepository)(nil)
