package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return fmt.Errorf("marshal notification attributes: %w", err)
	}
	query := `INSERT INTO notifications (customer_id, title, message, attributes, read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	note.CreatedOn = time.Now().UTC()
	err = r.db.QueryRowContext(ctx, query, note.CustomerID, note.Title, note.Message, attrs, note.Read, note.CreatedOn).Scan(&note.ID)
	if err != nil {
		return mapError(fmt.Errorf("create notification: %w", err))
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE customer_id = $1`, customerID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, customer_id, title, message, attributes, read, created_on
	          FROM notifications WHERE customer_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, customerID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var note domain.Notification
		var attrs []byte
		if err := rows.Scan(&note.ID, &note.CustomerID, &note.Title, &note.Message, &attrs, &note.Read, &note.CreatedOn); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &note.Attributes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification attributes: %w", err)
			}
		}
		notes = append(notes, note)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, customerID int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
