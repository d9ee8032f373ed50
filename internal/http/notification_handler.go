package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citizen-service/internal/http/middleware"
)

func (h *Handler) listNotifications(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	unreadOnly := false
	if v := queryBool(c, "unread"); v != nil {
		unreadOnly = *v
	}

	inbox, err := h.notificationService.List(c.Request.Context(), principal, unreadOnly, queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(inbox))
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "read"}))
}
