package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status follows a forward-only state machine:
//
//	scheduled → completed
//	scheduled → cancelled
//	scheduled → no_show
//
// completed and cancelled are terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null"`

	Room   string `gorm:"column:room;type:varchar(50)"`
	Status Status `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index"`
	Notes  string `gorm:"column:notes;type:text"`

	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the appointment may no longer be updated.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	return nil
}

type CreateAppointmentCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Room      string
	Notes     string
}

// UpdateAppointmentCommand carries the full replacement state, mirroring the
// create shape. Status may move the appointment out of scheduled (e.g. to
// completed); it must still be a legal transition.
type UpdateAppointmentCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Room      string
	Status    Status
	Notes     string
}
