package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (lead_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		n.LeadID,
		n.Type,
		n.Title,
		n.Message,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

var _ entity.NotificationRepository = (*NotificationRepository)(nil)
