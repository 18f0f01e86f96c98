package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment %s: %w", id, err)
	}
	return &a, nil
}

func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("saving appointment %s: %w", a.ID, err)
	}
	return nil
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	if err := r.db.WithContext(ctx).Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND start_time > ?", doctorID, from).
		Order("start_time ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments for doctor %s: %w", doctorID, err)
	}
	return out, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("start_time ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments for patient %s: %w", patientID, err)
	}
	return out, nil
}

// HasDoctorOverlap applies the half-open interval test: an existing scheduled
// appointment conflicts iff existing.start < end AND existing.end > start.
func (r *AppointmentRepository) HasDoctorOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND status = ?", doctorID, appointment.StatusScheduled).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking doctor overlap: %w", err)
	}
	return count > 0, nil
}

func (r *AppointmentRepository) HasPatientSameDay(ctx context.Context, patientID uuid.UUID, day time.Time, excludeID *uuid.UUID) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	q := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("patient_id = ? AND status = ?", patientID, appointment.StatusScheduled).
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking patient same-day booking: %w", err)
	}
	return count > 0, nil
}
