package handlers

import (
	"net/http"

	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
)

type ActivityLogHandler struct {
	logs *services.ActivityLogService
}

func NewActivityLogHandler(logs *services.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{logs: logs}
}

// GET /api/userActivityLogs
func (h *ActivityLogHandler) List(c *gin.Context) {
	logs, err := h.logs.List()
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/userActivityLogs/user/:userId
func (h *ActivityLogHandler) ListByUser(c *gin.Context) {
	logs, err := h.logs.ListByUser(c.Param("userId"))
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/userActivityLogs/device/:deviceId
func (h *ActivityLogHandler) ListByDevice(c *gin.Context) {
	logs, err := h.logs.ListByDevice(c.Param("deviceId"))
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, logs)
}
