package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clinicapp/clinic-backend/internal/domain"
	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/internal/domain/patient"
	"github.com/clinicapp/clinic-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrDoctorConflict),
		errors.Is(err, appointment.ErrPatientSameDayConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrInvalidTimeRange),
		errors.Is(err, appointment.ErrNotADoctor),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrCancellationNotice),
		errors.Is(err, notification.ErrInvalidType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "account is disabled",
			Code:  "ACCOUNT_DISABLED",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// callerClaims returns the authenticated identity placed on the context by
// the auth middleware.
func callerClaims(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}
