package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error

	// GetByID retrieves an appointment by primary key.
	// Returns ErrAppointmentNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Save persists the full current state of an existing appointment.
	Save(ctx context.Context, a *Appointment) error

	ListAll(ctx context.Context) ([]*Appointment, error)

	// ListByDoctor returns appointments for a doctor starting after `from`,
	// ordered by start time ascending.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*Appointment, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)

	// HasDoctorOverlap reports whether a scheduled appointment for the doctor,
	// other than excludeID, overlaps [start, end). Intervals are half-open:
	// touching boundaries do not conflict.
	HasDoctorOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// HasPatientSameDay reports whether the patient has any scheduled
	// appointment, other than excludeID, on the calendar day of `day`.
	HasPatientSameDay(ctx context.Context, patientID uuid.UUID, day time.Time, excludeID *uuid.UUID) (bool, error)
}
