package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Device struct {
	ID        string         `gorm:"primaryKey;size:36" json:"deviceId"`
	Name      string         `gorm:"size:100;index" json:"DeviceName"`
	Type      string         `gorm:"size:60" json:"DeviceType"`
	Location  string         `gorm:"size:200" json:"DeviceLocation"`
	CreatedAt time.Time      `json:"DateCreated"`
	UpdatedAt time.Time      `json:"DateUpdated"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DeviceStatus keys on the device id; one row per device. Its lifecycle is
// independent of the device row after creation.
type DeviceStatus struct {
	DeviceID     string    `gorm:"primaryKey;size:36" json:"DeviceID"`
	BatteryState string    `gorm:"size:30;default:In Use" json:"BatteryState"`
	BatteryLevel int       `gorm:"default:0" json:"BatteryLevel"`
	IsOnline     bool      `gorm:"default:false" json:"IsOnline"`
	LastUpdate   time.Time `json:"LastUpdate"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"DateUpdated"`
}

// DeviceOwner assigns a device to a user or a group. At least one of the two
// must be set; both may be.
type DeviceOwner struct {
	DeviceID  string    `gorm:"primaryKey;size:36" json:"DeviceID"`
	UserID    *string   `gorm:"size:36;index" json:"UserID"`
	GroupID   *string   `gorm:"size:36;index" json:"GroupID"`
	CreatedAt time.Time `json:"DateAdded"`
	UpdatedAt time.Time `json:"DateUpdated"`
}
