package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Append persists a new notification, assigning identity and creation
	// timestamp. When called inside a transaction it commits or rolls back
	// with the rest of that unit of work.
	Append(ctx context.Context, n *Notification) error

	// Page returns a reverse-chronological page for the recipient.
	Page(ctx context.Context, recipientID uuid.UUID, req PageRequest) (*Page, error)

	// Unread returns all unread notifications for the recipient,
	// reverse-chronological.
	Unread(ctx context.Context, recipientID uuid.UUID) ([]*Notification, error)

	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// MarkRead sets read=true and read_at for the notification if and only
	// if it belongs to recipientID. A notification owned by someone else, or
	// one already read, is silently skipped.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error

	// MarkAllRead bulk-transitions every unread notification of the
	// recipient. Idempotent.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error

	// DeleteReadBefore removes read notifications created before the cutoff
	// and returns how many were deleted. Unread rows are never touched.
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}
