package services

import (
	"encoding/json"
	"time"

	"github.com/TriStrac/scarrow-server/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityLogService struct {
	db *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

// ActivityInfo is the free-form request snapshot stored with each record.
type ActivityInfo struct {
	Method     string                 `json:"method"`
	Route      string                 `json:"route"`
	Status     int                    `json:"status"`
	DurationMs int64                  `json:"durationMs"`
	Params     map[string]string      `json:"params"`
	Query      map[string][]string    `json:"query"`
	Body       map[string]interface{} `json:"body"`
}

type ActivityRecord struct {
	UserID        string
	DeviceID      *string
	ActivityClass string
	ActivityType  string
	Info          ActivityInfo
}

func (s *ActivityLogService) Record(rec ActivityRecord) error {
	info, err := json.Marshal(rec.Info)
	if err != nil {
		return err
	}
	log := models.UserActivityLog{
		UserID:           rec.UserID,
		DeviceID:         rec.DeviceID,
		ActivityClass:    rec.ActivityClass,
		ActivityType:     rec.ActivityType,
		ActivityDateTime: time.Now(),
		ActivityInfo:     datatypes.JSON(info),
	}
	return s.db.Create(&log).Error
}

func (s *ActivityLogService) List() ([]models.UserActivityLog, error) {
	var logs []models.UserActivityLog
	if err := s.db.Order("activity_date_time DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *ActivityLogService) ListByUser(userID string) ([]models.UserActivityLog, error) {
	var logs []models.UserActivityLog
	if err := s.db.Where("user_id = ?", userID).
		Order("activity_date_time DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *ActivityLogService) ListByDevice(deviceID string) ([]models.UserActivityLog, error) {
	var logs []models.UserActivityLog
	if err := s.db.Where("device_id = ?", deviceID).
		Order("activity_date_time DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
