package v1

import (
	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the caller's own notification log; the
// recipient is always the authenticated identity, never a request parameter.
type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) ListPaged(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	page, err := h.svc.Page(c.Request.Context(), claims.UserID, notification.PageRequest{
		Page: parseQueryInt(c, "page", 1),
		Size: parseQueryInt(c, "size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

func (h *NotificationHandler) ListUnread(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	out, err := h.svc.Unread(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *NotificationHandler) CountUnread(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	count, err := h.svc.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id, claims.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"status": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"status": "ok"})
}
