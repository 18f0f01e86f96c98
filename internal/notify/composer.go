// Package notify turns scheduling outcomes into notification records. It is
// pure mapping code: no I/O happens here.
package notify

import (
	"fmt"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/google/uuid"
)

// Outcome names the lifecycle event a notification reports.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeModified  Outcome = "modified"
	OutcomeCancelled Outcome = "cancelled"
)

const referenceTypeAppointment = "APPOINTMENT"

// typeFor maps a lifecycle outcome to the notification type enum. Creation
// and modification share the modified type; only cancellation gets its own.
func typeFor(o Outcome) notification.Type {
	if o == OutcomeCancelled {
		return notification.TypeAppointmentCancelled
	}
	return notification.TypeAppointmentModified
}

// AppointmentNotification builds the provider-facing notification for a
// scheduling outcome. patientName and start describe the booked slot;
// appointmentID becomes the opaque back-reference.
func AppointmentNotification(recipientID uuid.UUID, o Outcome, patientName string, start time.Time, appointmentID uuid.UUID) *notification.Notification {
	var title, message string
	when := start.Format("Mon, 02 Jan 2006 15:04")

	switch o {
	case OutcomeCreated:
		title = "New Appointment Scheduled"
		message = fmt.Sprintf("New appointment with %s at %s", patientName, when)
	case OutcomeModified:
		title = "Appointment Updated"
		message = fmt.Sprintf("Appointment with %s at %s has been updated.", patientName, when)
	case OutcomeCancelled:
		title = "Appointment Cancelled"
		message = fmt.Sprintf("Appointment with %s at %s has been cancelled.", patientName, when)
	}

	return &notification.Notification{
		RecipientID:   recipientID,
		Type:          typeFor(o),
		Title:         title,
		Message:       message,
		ReferenceType: referenceTypeAppointment,
		ReferenceID:   appointmentID,
	}
}
