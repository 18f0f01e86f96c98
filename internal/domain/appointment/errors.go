package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrDoctorConflict          = errors.New("doctor already has an overlapping appointment scheduled")
	ErrPatientSameDayConflict  = errors.New("patient already has an appointment scheduled on this day")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrInvalidTimeRange        = errors.New("appointment end time must be after start time")
	ErrNotADoctor              = errors.New("assigned user is not a doctor")
	ErrCancellationNotice      = errors.New("appointment cannot be cancelled this close to its start time")
)
