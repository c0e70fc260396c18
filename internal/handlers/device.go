package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/TriStrac/scarrow-server/internal/models"
	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	devices *services.DeviceService
}

func NewDeviceHandler(devices *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

type CreateDeviceRequest struct {
	DeviceName     string `json:"DeviceName" binding:"required"`
	DeviceType     string `json:"DeviceType" binding:"required"`
	DeviceLocation string `json:"DeviceLocation" binding:"required"`
}

type UpdateDeviceInfoRequest struct {
	DeviceName     string `json:"DeviceName"`
	DeviceLocation string `json:"DeviceLocation"`
}

type DeviceStatusRequest struct {
	BatteryState *string    `json:"BatteryState"`
	BatteryLevel *int       `json:"BatteryLevel"`
	IsOnline     *bool      `json:"IsOnline"`
	LastUpdate   *time.Time `json:"LastUpdate"`
}

type DeviceOwnerRequest struct {
	DeviceID string  `json:"DeviceID" binding:"required"`
	UserID   *string `json:"UserID"`
	GroupID  *string `json:"GroupID"`
}

// POST /api/devices
func (h *DeviceHandler) Create(c *gin.Context) {
	var req CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	deviceID, err := h.devices.Create(services.CreateDeviceParams{
		Name:     req.DeviceName,
		Type:     req.DeviceType,
		Location: req.DeviceLocation,
	})
	if err != nil {
		if errors.Is(err, services.ErrDeviceNameExists) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Device name already exists"})
			return
		}
		log.Printf("create device failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Device created", "deviceId": deviceID})
}

// GET /api/devices
func (h *DeviceHandler) List(c *gin.Context) {
	devices, err := h.devices.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "devices": devices})
}

// GET /api/devices/:deviceId
func (h *DeviceHandler) Get(c *gin.Context) {
	device, err := h.devices.Get(c.Param("deviceId"))
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device": device})
}

// PATCH /api/devices/:deviceId/name
func (h *DeviceHandler) UpdateInfo(c *gin.Context) {
	var req UpdateDeviceInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.DeviceName == "" && req.DeviceLocation == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "At least one of newName or location is required"})
		return
	}

	deviceID := c.Param("deviceId")
	if err := h.devices.UpdateInfo(deviceID, req.DeviceName, req.DeviceLocation); err != nil {
		switch {
		case errors.Is(err, services.ErrDeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_NOT_FOUND"})
		case errors.Is(err, services.ErrDeviceNameExists):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Device name already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device info updated", "deviceId": deviceID})
}

// POST /api/devices/:deviceId/status
func (h *DeviceHandler) CreateStatus(c *gin.Context) {
	var req DeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	deviceID := c.Param("deviceId")
	status := models.DeviceStatus{DeviceID: deviceID}
	if req.BatteryState != nil {
		status.BatteryState = *req.BatteryState
	}
	if req.BatteryLevel != nil {
		status.BatteryLevel = *req.BatteryLevel
	}
	if req.IsOnline != nil {
		status.IsOnline = *req.IsOnline
	}
	if req.LastUpdate != nil {
		status.LastUpdate = *req.LastUpdate
	}

	if err := h.devices.CreateStatus(&status); err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Device status created", "deviceId": deviceID})
}

// GET /api/devices/:deviceId/status
func (h *DeviceHandler) GetStatus(c *gin.Context) {
	status, err := h.devices.GetStatus(c.Param("deviceId"))
	if err != nil {
		if errors.Is(err, services.ErrDeviceStatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_STATUS_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// GET /api/devices/status/user/:userId
func (h *DeviceHandler) StatusesByUser(c *gin.Context) {
	statuses, err := h.devices.StatusesByUser(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "statuses": statuses})
}

// GET /api/devices/status/group/:groupId
func (h *DeviceHandler) StatusesByGroup(c *gin.Context) {
	statuses, err := h.devices.StatusesByGroup(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "statuses": statuses})
}

// PATCH /api/devices/:deviceId/status
func (h *DeviceHandler) UpdateStatus(c *gin.Context) {
	var req DeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	deviceID := c.Param("deviceId")
	err := h.devices.UpdateStatus(deviceID, services.UpdateStatusParams{
		BatteryState: req.BatteryState,
		BatteryLevel: req.BatteryLevel,
		IsOnline:     req.IsOnline,
		LastUpdate:   req.LastUpdate,
	})
	if err != nil {
		if errors.Is(err, services.ErrDeviceStatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_STATUS_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device status updated", "deviceId": deviceID})
}

// POST /api/devices/owner
func (h *DeviceHandler) CreateOwner(c *gin.Context) {
	var req DeviceOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.devices.SetOwner(req.DeviceID, req.UserID, req.GroupID); err != nil {
		switch {
		case errors.Is(err, services.ErrDeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_NOT_FOUND"})
		case errors.Is(err, services.ErrOwnerRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "USER_OR_GROUP_ID_REQUIRED"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Device owner created", "deviceId": req.DeviceID})
}

// PATCH /api/devices/owner
func (h *DeviceHandler) UpdateOwner(c *gin.Context) {
	var req DeviceOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.devices.UpdateOwner(req.DeviceID, req.UserID, req.GroupID); err != nil {
		switch {
		case errors.Is(err, services.ErrDeviceOwnerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_OWNER_NOT_FOUND"})
		case errors.Is(err, services.ErrOwnerRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "USER_OR_GROUP_ID_REQUIRED"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device owner updated", "deviceId": req.DeviceID})
}

// GET /api/devices/:deviceId/owners
func (h *DeviceHandler) GetOwner(c *gin.Context) {
	owner, err := h.devices.GetOwner(c.Param("deviceId"))
	if err != nil {
		if errors.Is(err, services.ErrDeviceOwnerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_OWNER_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "owner": owner})
}

// GET /api/devices/user/:userId
func (h *DeviceHandler) ListByUser(c *gin.Context) {
	devices, err := h.devices.ListByUser(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "devices": devices})
}

// GET /api/devices/group/:groupId
func (h *DeviceHandler) ListByGroup(c *gin.Context) {
	devices, err := h.devices.ListByGroup(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "devices": devices})
}

// PATCH /api/devices/:deviceId/softDelete
func (h *DeviceHandler) SoftDelete(c *gin.Context) {
	deviceID := c.Param("deviceId")
	if err := h.devices.SoftDelete(deviceID); err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "DEVICE_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device soft deleted", "deviceId": deviceID})
}
