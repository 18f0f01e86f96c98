package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Append(ctx context.Context, n *notification.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("appending notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Page(ctx context.Context, recipientID uuid.UUID, req notification.PageRequest) (*notification.Page, error) {
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 20
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	base := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ?", recipientID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting notifications: %w", err)
	}

	var rows []*notification.Notification
	err := base.
		Order("created_at DESC").
		Limit(req.Size).
		Offset((req.Page - 1) * req.Size).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("paging notifications: %w", err)
	}

	return &notification.Page{
		Notifications: rows,
		TotalCount:    total,
		Page:          req.Page,
		Size:          req.Size,
	}, nil
}

func (r *NotificationRepository) Unread(ctx context.Context, recipientID uuid.UUID) ([]*notification.Notification, error) {
	var rows []*notification.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing unread notifications: %w", err)
	}
	return rows, nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead only touches rows owned by recipientID; a foreign or unknown id
// matches nothing and the call is a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("id = ? AND recipient_id = ? AND read = ?", id, recipientID, false).
		Updates(map[string]any{"read": true, "read_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Updates(map[string]any{"read": true, "read_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, before).
		Delete(&notification.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweeping read notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}
