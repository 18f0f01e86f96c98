package service

import (
	"context"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService exposes the durable notification log to its recipient.
// All operations are scoped to the authenticated recipient; a notification
// owned by someone else behaves as if it did not exist.
type NotificationService struct {
	repo    notification.Repository
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewNotificationService(repo notification.Repository, m *metrics.Collector, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, metrics: m, log: log}
}

func (s *NotificationService) Page(ctx context.Context, recipientID uuid.UUID, req notification.PageRequest) (*notification.Page, error) {
	return s.repo.Page(ctx, recipientID, req)
}

func (s *NotificationService) Unread(ctx context.Context, recipientID uuid.UUID) ([]*notification.Notification, error) {
	return s.repo.Unread(ctx, recipientID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

// SweepRetention deletes read notifications created before the cutoff and
// returns the number removed. Unread notifications are kept regardless of
// age.
func (s *NotificationService) SweepRetention(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := s.repo.DeleteReadBefore(ctx, before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.metrics.NotificationsSwept.Add(float64(deleted))
		s.log.Info("retention sweep removed read notifications",
			zap.Int64("deleted", deleted),
			zap.Time("before", before),
		)
	}
	return deleted, nil
}
