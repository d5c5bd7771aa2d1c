package entity

import (
	"context"
	"time"
)

const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Known template names. Anything else falls back to the raw
// htmlContent/textContent fields of the job payload.
const (
	TemplateWelcome          = "welcome"
	TemplateLeadNotification = "lead_notification"
	TemplateFollowUpReminder = "follow_up_reminder"
	TemplateDemoConfirmation = "demo_confirmation"
	TemplateQuoteFollowUp    = "quote_follow_up"
	TemplateLeadWon          = "lead_won_notification"
)

type EmailJob struct {
	ID          int64          `json:"id"`
	LeadID      *int64         `json:"lead_id,omitempty"`
	Recipient   string         `json:"recipient"`
	Subject     string         `json:"subject"`
	Template    string         `json:"template"`
	Data        map[string]any `json:"data,omitempty"`
	Status      string         `json:"status"`
	Attempts    int            `json:"attempts"`
	LastAttempt *time.Time     `json:"last_attempt,omitempty"`
	Error       *string        `json:"error,omitempty"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type EmailQueueStatistics struct {
	ByStatus       map[string]int `json:"by_status"`
	Last24h        int            `json:"last_24h"`
	FailedLastWeek int            `json:"failed_last_week"`
}

type EmailQueueRepository interface {
	Create(ctx context.Context, job *EmailJob) error
	FindByID(ctx context.Context, id int64) (*EmailJob, error)
	// FindPending returns jobs that are still pending, below maxAttempts,
	// and past the 5-minute retry cool-down, oldest first.
	FindPending(ctx context.Context, maxAttempts int) ([]*EmailJob, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errText string) error
	// UpdateStatus is the generic write-back used for retryable failures:
	// status stays pending, the error is recorded, and attempts/last_attempt
	// advance so the cool-down applies to the next poll.
	UpdateStatus(ctx context.Context, id int64, status string, errText *string, sentAt *time.Time) error
	Statistics(ctx context.Context) (*EmailQueueStatistics, error)
}
