package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain"
	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/internal/domain/patient"
	"github.com/clinicapp/clinic-backend/internal/notify"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pusher hands a stored notification to the recipient's live channel.
// Implementations must never fail the calling mutation.
type Pusher interface {
	Push(recipientKey string, n *notification.Notification)
}

// AppointmentService is the sole writer of appointment records. Every
// accepted mutation appends a provider-facing notification inside the same
// transaction and attempts a live push after commit.
type AppointmentService struct {
	uow          domain.UnitOfWork
	repo         appointment.Repository
	patientRepo  patient.Repository
	userRepo     domain.UserRepository
	pusher       Pusher
	metrics      *metrics.Collector
	log          *zap.Logger
	noticeWindow time.Duration
}

func NewAppointmentService(
	uow domain.UnitOfWork,
	repo appointment.Repository,
	patientRepo patient.Repository,
	userRepo domain.UserRepository,
	pusher Pusher,
	m *metrics.Collector,
	log *zap.Logger,
	noticeWindow time.Duration,
) *AppointmentService {
	return &AppointmentService{
		uow:          uow,
		repo:         repo,
		patientRepo:  patientRepo,
		userRepo:     userRepo,
		pusher:       pusher,
		metrics:      m,
		log:          log,
		noticeWindow: noticeWindow,
	}
}

func (s *AppointmentService) Schedule(ctx context.Context, cmd *appointment.CreateAppointmentCommand) (*appointment.Appointment, error) {
	if err := validateTiming(cmd.StartTime, cmd.EndTime); err != nil {
		return nil, err
	}

	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolving patient: %w", err)
	}
	doctor, err := s.userRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("resolving doctor: %w", err)
	}
	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
		Room:      cmd.Room,
		Status:    appointment.StatusScheduled,
		Notes:     cmd.Notes,
	}
	var n *notification.Notification

	err = s.uow.RunSerializable(ctx, func(ctx context.Context, st domain.Stores) error {
		if err := s.checkConflicts(ctx, st, a, nil); err != nil {
			return err
		}
		if err := st.Appointments.Create(ctx, a); err != nil {
			return err
		}
		n = notify.AppointmentNotification(doctor.ID, notify.OutcomeCreated, p.FullName(), a.StartTime, a.ID)
		return st.Notifications.Append(ctx, n)
	})
	if err != nil {
		return nil, err
	}

	s.committed("created", doctor.Email, n)
	return a, nil
}

func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	if err := validateTiming(cmd.StartTime, cmd.EndTime); err != nil {
		return nil, err
	}

	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolving patient: %w", err)
	}
	doctor, err := s.userRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("resolving doctor: %w", err)
	}
	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}

	var a *appointment.Appointment
	var n *notification.Notification

	err = s.uow.RunSerializable(ctx, func(ctx context.Context, st domain.Stores) error {
		a, err = st.Appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.IsTerminal() {
			return appointment.ErrInvalidStatusTransition
		}
		if cmd.Status != "" && cmd.Status != a.Status && !a.CanTransitionTo(cmd.Status) {
			return appointment.ErrInvalidStatusTransition
		}

		probe := &appointment.Appointment{
			PatientID: cmd.PatientID,
			DoctorID:  cmd.DoctorID,
			StartTime: cmd.StartTime,
			EndTime:   cmd.EndTime,
		}
		if err := s.checkConflicts(ctx, st, probe, &id); err != nil {
			return err
		}

		a.PatientID = cmd.PatientID
		a.DoctorID = cmd.DoctorID
		a.StartTime = cmd.StartTime
		a.EndTime = cmd.EndTime
		a.Room = cmd.Room
		a.Notes = cmd.Notes
		if cmd.Status != "" {
			a.Status = cmd.Status
		}
		if err := st.Appointments.Save(ctx, a); err != nil {
			return err
		}

		n = notify.AppointmentNotification(doctor.ID, notify.OutcomeModified, p.FullName(), a.StartTime, a.ID)
		return st.Notifications.Append(ctx, n)
	})
	if err != nil {
		return nil, err
	}

	s.committed("modified", doctor.Email, n)
	return a, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a *appointment.Appointment
	var n *notification.Notification
	var doctorEmail string

	err := s.uow.RunSerializable(ctx, func(ctx context.Context, st domain.Stores) error {
		var err error
		a, err = st.Appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.IsTerminal() {
			return appointment.ErrInvalidStatusTransition
		}
		if time.Until(a.StartTime) < s.noticeWindow {
			return appointment.ErrCancellationNotice
		}

		if err := a.Cancel(); err != nil {
			return err
		}
		if err := st.Appointments.Save(ctx, a); err != nil {
			return err
		}

		p, err := s.patientRepo.GetByID(ctx, a.PatientID)
		if err != nil {
			return fmt.Errorf("resolving patient: %w", err)
		}
		doctor, err := s.userRepo.GetByID(ctx, a.DoctorID)
		if err != nil {
			return fmt.Errorf("resolving doctor: %w", err)
		}
		doctorEmail = doctor.Email

		n = notify.AppointmentNotification(doctor.ID, notify.OutcomeCancelled, p.FullName(), a.StartTime, a.ID)
		return st.Notifications.Append(ctx, n)
	})
	if err != nil {
		return nil, err
	}

	s.committed("cancelled", doctorEmail, n)
	return a, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) ListAll(ctx context.Context) ([]*appointment.Appointment, error) {
	return s.repo.ListAll(ctx)
}

// ListByDoctor returns the doctor's appointments from the last day onward, so
// a schedule view shows the recent past as well as what is coming.
func (s *AppointmentService) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*appointment.Appointment, error) {
	doctor, err := s.userRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("resolving doctor: %w", err)
	}
	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctorID, time.Now().AddDate(0, 0, -1))
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, fmt.Errorf("resolving patient: %w", err)
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// checkConflicts runs both availability predicates against all scheduled
// appointments other than excludeID.
func (s *AppointmentService) checkConflicts(ctx context.Context, st domain.Stores, a *appointment.Appointment, excludeID *uuid.UUID) error {
	overlap, err := st.Appointments.HasDoctorOverlap(ctx, a.DoctorID, a.StartTime, a.EndTime, excludeID)
	if err != nil {
		return fmt.Errorf("checking doctor overlap: %w", err)
	}
	if overlap {
		return appointment.ErrDoctorConflict
	}

	sameDay, err := st.Appointments.HasPatientSameDay(ctx, a.PatientID, a.StartTime, excludeID)
	if err != nil {
		return fmt.Errorf("checking patient same-day booking: %w", err)
	}
	if sameDay {
		return appointment.ErrPatientSameDayConflict
	}
	return nil
}

// committed records metrics and fires the live push once the transaction has
// committed. The push runs on its own goroutine and cannot affect the
// already-durable mutation.
func (s *AppointmentService) committed(outcome, recipientKey string, n *notification.Notification) {
	s.metrics.AppointmentsTotal.WithLabelValues(outcome).Inc()
	s.metrics.NotificationsCreated.Inc()
	go s.pusher.Push(recipientKey, n)
}
