package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceLog is one sensor event reported by a device: what pest was detected
// and which deterrent fired, with how long the device stayed active.
type DeviceLog struct {
	ID             string    `gorm:"primaryKey;size:36" json:"DeviceLogsID"`
	DeviceID       string    `gorm:"size:36;index;not null" json:"DeviceID"`
	Timestamp      time.Time `json:"Timestamp"`
	PestType       string    `gorm:"size:60" json:"PestType"`
	FendType       string    `gorm:"size:60" json:"FendType"`
	ActiveDuration float64   `json:"ActiveDuration"`
	CreatedAt      time.Time `json:"-"`
}

func (l *DeviceLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
