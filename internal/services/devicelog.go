package services

import (
	"errors"

	"github.com/TriStrac/scarrow-server/internal/models"
	"gorm.io/gorm"
)

var ErrDeviceLogNotFound = errors.New("device log not found")

// DeviceLogService records sensor events. Device existence is checked
// through the device service, not by touching the devices table directly.
type DeviceLogService struct {
	db      *gorm.DB
	devices *DeviceService
}

func NewDeviceLogService(db *gorm.DB, devices *DeviceService) *DeviceLogService {
	return &DeviceLogService{db: db, devices: devices}
}

func (s *DeviceLogService) Create(log *models.DeviceLog) (string, error) {
	if _, err := s.devices.Get(log.DeviceID); err != nil {
		return "", err
	}
	if err := s.db.Create(log).Error; err != nil {
		return "", err
	}
	return log.ID, nil
}

func (s *DeviceLogService) List() ([]models.DeviceLog, error) {
	var logs []models.DeviceLog
	if err := s.db.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *DeviceLogService) ListByDevice(deviceID string) ([]models.DeviceLog, error) {
	var logs []models.DeviceLog
	if err := s.db.Where("device_id = ?", deviceID).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *DeviceLogService) Get(logID string) (*models.DeviceLog, error) {
	var log models.DeviceLog
	if err := s.db.First(&log, "id = ?", logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

// DeleteByDevice hard-deletes every log for the device.
func (s *DeviceLogService) DeleteByDevice(deviceID string) error {
	return s.db.Where("device_id = ?", deviceID).Delete(&models.DeviceLog{}).Error
}
