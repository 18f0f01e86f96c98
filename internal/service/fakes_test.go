package service

import (
	"context"
	"sync"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain"
	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/internal/domain/patient"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	"github.com/google/uuid"
)

// The prometheus default registry rejects duplicate registration, so the
// test collector is created once for the whole package.
var testMetrics = metrics.NewCollector("clinic_test")

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) Save(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) ListAll(_ context.Context) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*appointment.Appointment, 0, len(r.items))
	for _, a := range r.items {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, from time.Time) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.items {
		if a.DoctorID == doctorID && a.StartTime.After(from) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.items {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) HasDoctorOverlap(_ context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.DoctorID != doctorID || a.Status != appointment.StatusScheduled {
			continue
		}
		if a.StartTime.Before(end) && a.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) HasPatientSameDay(_ context.Context, patientID uuid.UUID, day time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	for _, a := range r.items {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.PatientID != patientID || a.Status != appointment.StatusScheduled {
			continue
		}
		ay, am, ad := a.StartTime.Date()
		if ay == y && am == m && ad == d {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Append(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeNotificationRepo) Page(_ context.Context, recipientID uuid.UUID, req notification.PageRequest) (*notification.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.Size <= 0 {
		req.Size = 20
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	var mine []*notification.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].RecipientID == recipientID {
			cp := *r.items[i]
			mine = append(mine, &cp)
		}
	}

	total := int64(len(mine))
	lo := (req.Page - 1) * req.Size
	if lo > len(mine) {
		lo = len(mine)
	}
	hi := lo + req.Size
	if hi > len(mine) {
		hi = len(mine)
	}

	return &notification.Page{
		Notifications: mine[lo:hi],
		TotalCount:    total,
		Page:          req.Page,
		Size:          req.Size,
	}, nil
}

func (r *fakeNotificationRepo) Unread(_ context.Context, recipientID uuid.UUID) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		n := r.items[i]
		if n.RecipientID == recipientID && !n.Read {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			n.MarkRead()
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			n.MarkRead()
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*notification.Notification
	var deleted int64
	for _, n := range r.items {
		if n.Read && n.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return deleted, nil
}

type fakePatientRepo struct {
	items map[uuid.UUID]*patient.Patient
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

type fakeUserRepo struct {
	items map[uuid.UUID]*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, _ uuid.UUID) error { return nil }

// fakeUnitOfWork runs the function directly against the shared fakes. The
// serializable-isolation guarantee is the real implementation's concern.
type fakeUnitOfWork struct {
	stores domain.Stores
}

func (u *fakeUnitOfWork) RunSerializable(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	return fn(ctx, u.stores)
}

type pushRecord struct {
	key string
	n   *notification.Notification
}

type fakePusher struct {
	pushes chan pushRecord
}

func newFakePusher() *fakePusher {
	return &fakePusher{pushes: make(chan pushRecord, 16)}
}

func (p *fakePusher) Push(recipientKey string, n *notification.Notification) {
	p.pushes <- pushRecord{key: recipientKey, n: n}
}
