package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAppointmentReminder  Type = "appointment_reminder"
	TypeAppointmentModified  Type = "appointment_modified"
	TypeAppointmentCancelled Type = "appointment_cancelled"
	TypeNewMessage           Type = "new_message"
	TypePrescriptionReady    Type = "prescription_ready"
	TypeInvoiceGenerated     Type = "invoice_generated"
	TypeSystem               Type = "system"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeAppointmentReminder, TypeAppointmentModified, TypeAppointmentCancelled,
		TypeNewMessage, TypePrescriptionReady, TypeInvoiceGenerated, TypeSystem:
		return true
	}
	return false
}

// Notification is a durable per-recipient record of a domain event. The
// (ReferenceType, ReferenceID) pair is an opaque back-reference to whatever
// triggered it; it is never resolved as a strong pointer and deleting a
// notification never touches the referenced aggregate.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;index:idx_notifications_recipient_read" json:"-"`

	Type    Type   `gorm:"column:type;type:varchar(40);not null" json:"type"`
	Title   string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message string `gorm:"column:message;type:text;not null" json:"message"`

	Read   bool       `gorm:"column:read;not null;default:false;index:idx_notifications_recipient_read" json:"read"`
	ReadAt *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`

	ReferenceType string    `gorm:"column:reference_type;type:varchar(40);not null" json:"referenceType"`
	ReferenceID   uuid.UUID `gorm:"column:reference_id;type:uuid" json:"referenceId"`
}

func (Notification) TableName() string {
	return "messaging.notifications"
}

// MarkRead flips the notification to read, stamping ReadAt on the first
// transition only. Safe to call repeatedly.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
}

type PageRequest struct {
	Page int
	Size int
}

type Page struct {
	Notifications []*Notification `json:"notifications"`
	TotalCount    int64           `json:"totalCount"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
}
