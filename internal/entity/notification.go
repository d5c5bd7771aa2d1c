package entity

import (
	"context"
	"time"
)

// Notification rows are written by the lead-event consumer and read by the
// admin dashboard. This core only produces them.
type Notification struct {
	ID        int64     `json:"id"`
	LeadID    *int64    `json:"lead_id,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   *string   `json:"message,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
}
