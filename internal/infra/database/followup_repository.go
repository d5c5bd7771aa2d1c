package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

const followUpColumns = `id, lead_id, action, notes, performed_by, scheduled_for, completed_at, created_at`

var followUpUpdatableFields = []string{"action", "notes", "scheduled_for", "performed_by"}

type FollowUpRepository struct {
	DB *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

func (r *FollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	query := `
		INSERT INTO follow_ups (lead_id, action, notes, performed_by, scheduled_for)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		f.LeadID,
		f.Action,
		f.Notes,
		f.PerformedBy,
		f.ScheduledFor,
	).Scan(&f.ID, &f.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert follow-up: %w", err)
	}
	return nil
}

func (r *FollowUpRepository) FindByID(ctx context.Context, id int64) (*entity.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE id = $1`

	f, err := scanFollowUp(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FollowUpRepository) FindByLeadID(ctx context.Context, leadID int64) ([]*entity.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE lead_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followUps := []*entity.FollowUp{}
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		followUps = append(followUps, f)
	}
	return followUps, rows.Err()
}

// FindPending returns incomplete follow-ups already due, most overdue first,
// with lead display fields joined in.
func (r *FollowUpRepository) FindPending(ctx context.Context) ([]*entity.FollowUp, error) {
	query := `
		SELECT f.id, f.lead_id, f.action, f.notes, f.performed_by,
			f.scheduled_for, f.completed_at, f.created_at,
			l.company_name, l.contact_person, l.email
		FROM follow_ups f
		JOIN leads l ON f.lead_id = l.id
		WHERE f.completed_at IS NULL AND f.scheduled_for <= NOW()
		ORDER BY f.scheduled_for ASC
	`
	return r.queryJoined(ctx, query)
}

func (r *FollowUpRepository) FindUpcoming(ctx context.Context, withinDays int) ([]*entity.FollowUp, error) {
	if withinDays <= 0 {
		withinDays = 7
	}
	query := `
		SELECT f.id, f.lead_id, f.action, f.notes, f.performed_by,
			f.scheduled_for, f.completed_at, f.created_at,
			l.company_name, l.contact_person, l.email
		FROM follow_ups f
		JOIN leads l ON f.lead_id = l.id
		WHERE f.completed_at IS NULL
			AND f.scheduled_for BETWEEN NOW() AND NOW() + $1 * INTERVAL '1 day'
		ORDER BY f.scheduled_for ASC
	`
	return r.queryJoined(ctx, query, withinDays)
}

// Complete marks the follow-up done. Notes are replaced only when a value is
// supplied; completing with nil notes preserves whatever was there.
func (r *FollowUpRepository) Complete(ctx context.Context, id int64, notes *string) (*entity.FollowUp, error) {
	query := `
		UPDATE follow_ups
		SET completed_at = NOW(),
			notes = CASE WHEN $1::text IS NOT NULL THEN $1 ELSE notes END
		WHERE id = $2
	`

	res, err := r.DB.ExecContext(ctx, query, notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete follow-up: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *FollowUpRepository) Update(ctx context.Context, id int64, fields map[string]any) (*entity.FollowUp, error) {
	var sets []string
	var args []any

	for _, field := range followUpUpdatableFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE follow_ups SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update follow-up: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *FollowUpRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *FollowUpRepository) Statistics(ctx context.Context) (*entity.FollowUpStatistics, error) {
	stats := &entity.FollowUpStatistics{}

	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE completed_at IS NOT NULL),
			COUNT(*) FILTER (WHERE completed_at IS NULL AND scheduled_for <= NOW()),
			COUNT(*) FILTER (WHERE completed_at IS NULL AND scheduled_for > NOW())
		FROM follow_ups
	`).Scan(&stats.Total, &stats.Completed, &stats.Overdue, &stats.Pending)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT action, COUNT(*) AS count
		FROM follow_ups
		GROUP BY action
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.ByAction = []entity.GroupCount{}
	for rows.Next() {
		var g entity.GroupCount
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, err
		}
		stats.ByAction = append(stats.ByAction, g)
	}
	return stats, rows.Err()
}

func (r *FollowUpRepository) queryJoined(ctx context.Context, query string, args ...any) ([]*entity.FollowUp, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followUps := []*entity.FollowUp{}
	for rows.Next() {
		var f entity.FollowUp
		err := rows.Scan(
			&f.ID, &f.LeadID, &f.Action, &f.Notes, &f.PerformedBy,
			&f.ScheduledFor, &f.CompletedAt, &f.CreatedAt,
			&f.CompanyName, &f.ContactPerson, &f.LeadEmail,
		)
		if err != nil {
			return nil, err
		}
		followUps = append(followUps, &f)
	}
	return followUps, rows.Err()
}

func scanFollowUp(row rowScanner) (*entity.FollowUp, error) {
	var f entity.FollowUp
	err := row.Scan(
		&f.ID, &f.LeadID, &f.Action, &f.Notes, &f.PerformedBy,
		&f.ScheduledFor, &f.CompletedAt, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

var _ entity.FollowUpRepository = (*FollowUpRepository)(nil)
