package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicapp/clinic-backend/internal/config"
	"github.com/clinicapp/clinic-backend/internal/domain"
	"github.com/clinicapp/clinic-backend/internal/domain/appointment"
	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/internal/domain/patient"
	"github.com/clinicapp/clinic-backend/internal/service"
	"github.com/clinicapp/clinic-backend/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"appointment not found", appointment.ErrAppointmentNotFound, http.StatusNotFound},
		{"patient not found", patient.ErrPatientNotFound, http.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"notification not found", notification.ErrNotificationNotFound, http.StatusNotFound},
		{"doctor overlap", appointment.ErrDoctorConflict, http.StatusConflict},
		{"patient same day", appointment.ErrPatientSameDayConflict, http.StatusConflict},
		{"invalid time range", appointment.ErrInvalidTimeRange, http.StatusBadRequest},
		{"not a doctor", appointment.ErrNotADoctor, http.StatusBadRequest},
		{"invalid transition", appointment.ErrInvalidStatusTransition, http.StatusBadRequest},
		{"cancellation notice", appointment.ErrCancellationNotice, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"account disabled", service.ErrAccountDisabled, http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			// Wrapped errors must map the same as bare sentinels.
			respondServiceError(c, errors.Join(errors.New("context"), tc.err))

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "handler-test-secret",
		Issuer:          "clinic-api-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func authRouter(jwtMgr *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(jwtMgr), func(c *gin.Context) {
		claims, ok := callerClaims(c)
		if !ok {
			return
		}
		respondOK(c, claims.Email)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtMgr := newTestJWTManager()
	r := authRouter(jwtMgr)

	pair, err := jwtMgr.GenerateTokenPair(&domain.Claims{
		UserID: uuid.New(),
		Email:  "dr.a@clinic.test",
		Role:   domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + pair.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"refresh token rejected", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestParseUUIDRejectsMalformed(t *testing.T) {
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := parseUUID(c, "id")
		if !ok {
			return
		}
		respondOK(c, id.String())
	})

	for path, want := range map[string]int{
		"/items/" + uuid.NewString(): http.StatusOK,
		"/items/nope":                http.StatusBadRequest,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, want)
		}
	}
}
