package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

const leadColumns = `id, company_name, contact_person, email, phone, inquiry_type,
	message, source, utm_source, utm_medium, utm_campaign, industry, budget,
	timeline, requirements, status, score, assigned_to, tags, created_at, updated_at`

// Fields an update may touch. Anything else in the patch is dropped, which
// keeps unexpected request fields out of the SQL entirely.
var leadUpdatableFields = []string{
	"status", "score", "assigned_to", "tags", "company_name",
	"contact_person", "phone", "industry", "budget", "timeline",
	"requirements", "message",
}

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead.CompanyName == "" {
		return errors.New("company_name is required")
	}
	if lead.ContactPerson == "" {
		return errors.New("contact_person is required")
	}
	if lead.Email == "" {
		return errors.New("email is required")
	}
	if lead.InquiryType == "" {
		return errors.New("inquiry_type is required")
	}

	lead.Score = entity.CalculateScore(entity.ScoreInput{
		InquiryType: lead.InquiryType,
		Budget:      deref(lead.Budget),
		Timeline:    deref(lead.Timeline),
		Phone:       deref(lead.Phone),
		Industry:    deref(lead.Industry),
		CompanyName: lead.CompanyName,
	})

	if lead.Source == "" {
		lead.Source = "direct"
	}

	query := `
		INSERT INTO leads (
			company_name, contact_person, email, phone, inquiry_type,
			message, source, utm_source, utm_medium, utm_campaign,
			industry, budget, timeline, requirements, score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, status, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Email,
		lead.Phone,
		lead.InquiryType,
		lead.Message,
		lead.Source,
		lead.UTMSource,
		lead.UTMMedium,
		lead.UTMCampaign,
		lead.Industry,
		lead.Budget,
		lead.Timeline,
		lead.Requirements,
		lead.Score,
	).Scan(&lead.ID, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *LeadRepository) FindAll(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	where, args := buildLeadFilter(filters)

	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + where + ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *LeadRepository) Count(ctx context.Context, filters entity.LeadFilters) (int, error) {
	where, args := buildLeadFilter(filters)

	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *LeadRepository) Update(ctx context.Context, id int64, fields map[string]any) (*entity.Lead, error) {
	var sets []string
	var args []any

	for _, field := range leadUpdatableFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	// Nothing on the whitelist: no write, no updated_at bump.
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status string, assignedTo *string) (*entity.Lead, error) {
	query := `
		UPDATE leads
		SET status = $1, assigned_to = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := r.DB.ExecContext(ctx, query, status, assignedTo, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes the lead. Follow-ups go with it (FK cascade) and queued
// email jobs keep running with their lead reference nulled.
func (r *LeadRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *LeadRepository) Statistics(ctx context.Context, period string) (*entity.LeadStatistics, error) {
	dateFilter := periodFilter(period)

	stats := &entity.LeadStatistics{ByStatus: make(map[string]int)}

	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(score), 0),
			COUNT(*) FILTER (WHERE inquiry_type = 'demo'),
			COUNT(*) FILTER (WHERE inquiry_type = 'sales')
		FROM leads WHERE `+dateFilter,
	).Scan(&stats.Total, &stats.AvgScore, &stats.DemoRequests, &stats.SalesInquiries)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM leads WHERE `+dateFilter+` GROUP BY status`)
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

	if stats.Total > 0 {
		stats.ConversionRate = float64(stats.ByStatus["won"]) / float64(stats.Total) * 100
	}

	stats.BySource, err = r.groupCounts(ctx,
		`SELECT source, COUNT(*) AS count FROM leads WHERE `+dateFilter+`
		 GROUP BY source ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}

	stats.ByIndustry, err = r.groupCounts(ctx,
		`SELECT industry, COUNT(*) AS count FROM leads
		 WHERE industry IS NOT NULL AND `+dateFilter+`
		 GROUP BY industry ORDER BY count DESC LIMIT 10`)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *LeadRepository) groupCounts(ctx context.Context, query string) ([]entity.GroupCount, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []entity.GroupCount{}
	for rows.Next() {
		var g entity.GroupCount
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func buildLeadFilter(filters entity.LeadFilters) (string, []any) {
	clauses := []string{"TRUE"}
	var args []any

	if filters.Status != "" {
		args = append(args, filters.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.InquiryType != "" {
		args = append(args, filters.InquiryType)
		clauses = append(clauses, fmt.Sprintf("inquiry_type = $%d", len(args)))
	}
	if filters.AssignedTo != "" {
		args = append(args, filters.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if filters.FromDate != nil {
		args = append(args, *filters.FromDate)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filters.ToDate != nil {
		args = append(args, *filters.ToDate)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(company_name ILIKE $%d OR contact_person ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	return strings.Join(clauses, " AND "), args
}

func periodFilter(period string) string {
	switch period {
	case "today":
		return "created_at >= CURRENT_DATE"
	case "week":
		return "created_at >= NOW() - INTERVAL '7 days'"
	case "month":
		return "created_at >= NOW() - INTERVAL '30 days'"
	default:
		return "TRUE"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
		&lead.ID,
		&lead.CompanyName,
		&lead.ContactPerson,
		&lead.Email,
		&lead.Phone,
		&lead.InquiryType,
		&lead.Message,
		&lead.Source,
		&lead.UTMSource,
		&lead.UTMMedium,
		&lead.UTMCampaign,
		&lead.Industry,
		&lead.Budget,
		&lead.Timeline,
		&lead.Requirements,
		&lead.Status,
		&lead.Score,
		&lead.AssignedTo,
		&lead.Tags,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func collectLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ entity.LeadRepository = (*LeadRepository)(nil)
