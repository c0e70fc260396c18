package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserActivityLog is one audit record written after a successful
// authenticated request. Never soft-deleted, never updated.
type UserActivityLog struct {
	ID               string         `gorm:"primaryKey;size:36" json:"UserActivityLogID"`
	UserID           string         `gorm:"size:36;index;not null" json:"UserID"`
	DeviceID         *string        `gorm:"size:36;index" json:"DeviceID"`
	ActivityClass    string         `gorm:"size:60" json:"ActivityClass"`
	ActivityType     string         `gorm:"size:120" json:"ActivityType"`
	ActivityDateTime time.Time      `gorm:"index" json:"ActivityDateTime"`
	ActivityInfo     datatypes.JSON `json:"ActivityInfo"`
}

func (l *UserActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
