package v1

import (
	"net/http"

	"github.com/clinicapp/clinic-backend/internal/config"
	"github.com/clinicapp/clinic-backend/pkg/auth"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	Appointments  *AppointmentHandler
	Notifications *NotificationHandler
	Auth          *AuthHandler
	WS            *WSHandler
}

func (rt *Router) Build(cfg *config.Config, jwtMgr *auth.JWTManager, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(log))
	r.Use(MetricsMiddleware(m))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", rt.Auth.Login)
		authGroup.POST("/refresh", rt.Auth.Refresh)
	}

	// Token travels as a query parameter on the handshake, so the ws route
	// sits outside the bearer-header middleware.
	api.GET("/ws", rt.WS.Connect)

	protected := api.Group("")
	protected.Use(AuthMiddleware(jwtMgr))
	{
		appts := protected.Group("/appointments")
		{
			appts.GET("", rt.Appointments.List)
			appts.GET("/:id", rt.Appointments.Get)
			appts.POST("", rt.Appointments.Create)
			appts.PUT("/:id", rt.Appointments.Update)
			appts.POST("/:id/cancel", rt.Appointments.Cancel)
		}
		protected.GET("/doctors/:doctorId/appointments", rt.Appointments.ListByDoctor)
		protected.GET("/patients/:patientId/appointments", rt.Appointments.ListByPatient)

		notifs := protected.Group("/notifications")
		{
			notifs.GET("", rt.Notifications.ListPaged)
			notifs.GET("/unread", rt.Notifications.ListUnread)
			notifs.GET("/unread/count", rt.Notifications.CountUnread)
			notifs.POST("/:id/read", rt.Notifications.MarkRead)
			notifs.POST("/read-all", rt.Notifications.MarkAllRead)
		}
	}

	return r
}
