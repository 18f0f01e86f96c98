package service

import (
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain"
	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
)

// validateTiming rejects a proposed slot whose end does not come strictly
// after its start.
func validateTiming(start, end time.Time) error {
	if !end.After(start) {
		return appointment.ErrInvalidTimeRange
	}
	return nil
}

// validateDoctor rejects a resolved user that cannot act as the clinical
// professional on an appointment.
func validateDoctor(u *domain.User) error {
	if !u.IsDoctor() {
		return appointment.ErrNotADoctor
	}
	return nil
}
