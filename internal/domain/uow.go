package domain

import (
	"context"

	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/clinicapp/clinic-backend/internal/domain/notification"
)

// Stores bundles the repositories that participate in a single unit of work.
type Stores struct {
	Appointments  appointment.Repository
	Notifications notification.Repository
}

// UnitOfWork runs a function whose reads and writes must commit or roll back
// together. Scheduling mutations require serializable isolation so the
// conflict check and the subsequent write cannot interleave with a concurrent
// booking for the same slot.
type UnitOfWork interface {
	RunSerializable(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
