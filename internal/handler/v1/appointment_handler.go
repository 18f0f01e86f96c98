package v1

import (
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/clinicapp/clinic-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type createAppointmentRequest struct {
	PatientID uuid.UUID `json:"patientId" binding:"required"`
	DoctorID  uuid.UUID `json:"doctorId" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Room      string    `json:"room"`
	Notes     string    `json:"notes"`
}

type updateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patientId" binding:"required"`
	DoctorID  uuid.UUID `json:"doctorId" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Room      string    `json:"room"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
}

func (h *AppointmentHandler) List(c *gin.Context) {
	out, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) ListByDoctor(c *gin.Context) {
	doctorID, ok := parseUUID(c, "doctorId")
	if !ok {
		return
	}
	out, err := h.svc.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *AppointmentHandler) ListByPatient(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientId")
	if !ok {
		return
	}
	out, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Schedule(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Update(c.Request.Context(), id, &appointment.UpdateAppointmentCommand{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Status:    appointment.Status(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}
