package entity

import (
	"context"
	"time"
)

type FollowUp struct {
	ID           int64      `json:"id"`
	LeadID       int64      `json:"lead_id"`
	Action       string     `json:"action"`
	Notes        *string    `json:"notes,omitempty"`
	PerformedBy  *string    `json:"performed_by,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// Display fields joined from the owning lead. Populated only by the
	// pending/upcoming queries.
	CompanyName   string `json:"company_name,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	LeadEmail     string `json:"lead_email,omitempty"`
}

type FollowUpStatistics struct {
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Overdue   int          `json:"overdue"`
	Pending   int          `json:"pending"`
	ByAction  []GroupCount `json:"by_action"`
}

type FollowUpRepository interface {
	Create(ctx context.Context, f *FollowUp) error
	FindByID(ctx context.Context, id int64) (*FollowUp, error)
	FindByLeadID(ctx context.Context, leadID int64) ([]*FollowUp, error)
	FindPending(ctx context.Context) ([]*FollowUp, error)
	FindUpcoming(ctx context.Context, withinDays int) ([]*FollowUp, error)
	Complete(ctx context.Context, id int64, notes *string) (*FollowUp, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*FollowUp, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Statistics(ctx context.Context) (*FollowUpStatistics, error)
}
