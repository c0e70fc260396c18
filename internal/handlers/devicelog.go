package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/TriStrac/scarrow-server/internal/models"
	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
)

type DeviceLogHandler struct {
	logs *services.DeviceLogService
}

func NewDeviceLogHandler(logs *services.DeviceLogService) *DeviceLogHandler {
	return &DeviceLogHandler{logs: logs}
}

type CreateDeviceLogRequest struct {
	DeviceID       string    `json:"DeviceID" binding:"required"`
	Timestamp      time.Time `json:"Timestamp" binding:"required"`
	PestType       string    `json:"PestType" binding:"required"`
	FendType       string    `json:"FendType" binding:"required"`
	ActiveDuration float64   `json:"ActiveDuration"`
}

// POST /api/deviceLogs
func (h *DeviceLogHandler) Create(c *gin.Context) {
	var req CreateDeviceLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	logID, err := h.logs.Create(&models.DeviceLog{
		DeviceID:       req.DeviceID,
		Timestamp:      req.Timestamp,
		PestType:       req.PestType,
		FendType:       req.FendType,
		ActiveDuration: req.ActiveDuration,
	})
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Device log created successfully",
		"data":    gin.H{"deviceLogId": logID},
	})
}

// GET /api/deviceLogs
func (h *DeviceLogHandler) List(c *gin.Context) {
	logs, err := h.logs.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": logs})
}

// GET /api/deviceLogs/device/:deviceId
func (h *DeviceLogHandler) ListByDevice(c *gin.Context) {
	logs, err := h.logs.ListByDevice(c.Param("deviceId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": logs})
}

// GET /api/deviceLogs/:logId
func (h *DeviceLogHandler) Get(c *gin.Context) {
	log, err := h.logs.Get(c.Param("logId"))
	if err != nil {
		if errors.Is(err, services.ErrDeviceLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Device log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": log})
}

// DELETE /api/deviceLogs/device/:deviceId
func (h *DeviceLogHandler) DeleteByDevice(c *gin.Context) {
	if err := h.logs.DeleteByDevice(c.Param("deviceId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	NoContent(c)
}
