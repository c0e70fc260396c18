package services

import (
	"errors"
	"time"

	"github.com/TriStrac/scarrow-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDeviceNotFound       = errors.New("device not found")
	ErrDeviceNameExists     = errors.New("device name already exists")
	ErrDeviceStatusNotFound = errors.New("device status not found")
	ErrDeviceOwnerNotFound  = errors.New("device owner not found")
	ErrOwnerRequired        = errors.New("user or group id required")
)

type DeviceService struct {
	db *gorm.DB
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{db: db}
}

type CreateDeviceParams struct {
	Name     string
	Type     string
	Location string
}

type UpdateStatusParams struct {
	BatteryState *string
	BatteryLevel *int
	IsOnline     *bool
	LastUpdate   *time.Time
}

// Create writes the device and its default status (battery 0, offline) in
// one transaction. The duplicate-name check (live devices only) runs inside
// the same transaction.
func (s *DeviceService) Create(params CreateDeviceParams) (string, error) {
	device := models.Device{
		Name:     params.Name,
		Type:     params.Type,
		Location: params.Location,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Device{}).Where("name = ?", params.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDeviceNameExists
		}
		if err := tx.Create(&device).Error; err != nil {
			return err
		}
		status := models.DeviceStatus{
			DeviceID:     device.ID,
			BatteryState: "In Use",
			BatteryLevel: 0,
			IsOnline:     false,
			LastUpdate:   time.Now(),
		}
		return tx.Create(&status).Error
	})
	if err != nil {
		return "", err
	}
	return device.ID, nil
}

func (s *DeviceService) List() ([]models.Device, error) {
	var devices []models.Device
	if err := s.db.Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *DeviceService) Get(deviceID string) (*models.Device, error) {
	var device models.Device
	if err := s.db.First(&device, "id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

// UpdateInfo patches name and/or location. A non-empty new name is checked
// against every live device, the renamed one included, so renaming a device
// to its current name is rejected.
func (s *DeviceService) UpdateInfo(deviceID, name, location string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if name != "" {
			var count int64
			if err := tx.Model(&models.Device{}).Where("name = ?", name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDeviceNameExists
			}
		}
		var device models.Device
		if err := tx.First(&device, "id = ?", deviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeviceNotFound
			}
			return err
		}
		update := map[string]interface{}{}
		if name != "" {
			update["name"] = name
		}
		if location != "" {
			update["location"] = location
		}
		if len(update) == 0 {
			return nil
		}
		return tx.Model(&device).Updates(update).Error
	})
}

// CreateStatus replaces the device's status row wholesale. The device must
// exist; after that the status lives its own life.
func (s *DeviceService) CreateStatus(status *models.DeviceStatus) error {
	if _, err := s.Get(status.DeviceID); err != nil {
		return err
	}
	if status.LastUpdate.IsZero() {
		status.LastUpdate = time.Now()
	}
	return s.db.Save(status).Error
}

func (s *DeviceService) GetStatus(deviceID string) (*models.DeviceStatus, error) {
	var status models.DeviceStatus
	if err := s.db.First(&status, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (s *DeviceService) UpdateStatus(deviceID string, params UpdateStatusParams) error {
	var status models.DeviceStatus
	if err := s.db.First(&status, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceStatusNotFound
		}
		return err
	}
	update := map[string]interface{}{}
	if params.BatteryState != nil {
		update["battery_state"] = *params.BatteryState
	}
	if params.BatteryLevel != nil {
		update["battery_level"] = *params.BatteryLevel
	}
	if params.IsOnline != nil {
		update["is_online"] = *params.IsOnline
	}
	if params.LastUpdate != nil {
		update["last_update"] = *params.LastUpdate
	}
	if len(update) == 0 {
		return nil
	}
	return s.db.Model(&status).Updates(update).Error
}

// SetOwner assigns (or reassigns) the device's owner record. At least one of
// user and group id must be set.
func (s *DeviceService) SetOwner(deviceID string, userID, groupID *string) error {
	if _, err := s.Get(deviceID); err != nil {
		return err
	}
	if userID == nil && groupID == nil {
		return ErrOwnerRequired
	}
	owner := models.DeviceOwner{DeviceID: deviceID, UserID: userID, GroupID: groupID}
	return s.db.Save(&owner).Error
}

func (s *DeviceService) UpdateOwner(deviceID string, userID, groupID *string) error {
	var owner models.DeviceOwner
	if err := s.db.First(&owner, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceOwnerNotFound
		}
		return err
	}
	if userID == nil && groupID == nil {
		return ErrOwnerRequired
	}
	return s.db.Model(&owner).Updates(map[string]interface{}{
		"user_id":  userID,
		"group_id": groupID,
	}).Error
}

func (s *DeviceService) GetOwner(deviceID string) (*models.DeviceOwner, error) {
	var owner models.DeviceOwner
	if err := s.db.First(&owner, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceOwnerNotFound
		}
		return nil, err
	}
	return &owner, nil
}

func (s *DeviceService) ownedDeviceIDs(column, id string) ([]string, error) {
	var owners []models.DeviceOwner
	if err := s.db.Where(column+" = ?", id).Find(&owners).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(owners))
	for i, o := range owners {
		ids[i] = o.DeviceID
	}
	return ids, nil
}

// ListByUser returns the live devices owned by the user. Owner records whose
// device is gone or soft-deleted are skipped; no owners means an empty list.
func (s *DeviceService) ListByUser(userID string) ([]models.Device, error) {
	return s.devicesOwnedBy("user_id", userID)
}

func (s *DeviceService) ListByGroup(groupID string) ([]models.Device, error) {
	return s.devicesOwnedBy("group_id", groupID)
}

func (s *DeviceService) devicesOwnedBy(column, id string) ([]models.Device, error) {
	ids, err := s.ownedDeviceIDs(column, id)
	if err != nil {
		return nil, err
	}
	devices := make([]models.Device, 0, len(ids))
	for _, deviceID := range ids {
		device, err := s.Get(deviceID)
		if errors.Is(err, ErrDeviceNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		devices = append(devices, *device)
	}
	return devices, nil
}

// StatusesByUser returns the statuses of every device owned by the user.
func (s *DeviceService) StatusesByUser(userID string) ([]models.DeviceStatus, error) {
	return s.statusesOwnedBy("user_id", userID)
}

func (s *DeviceService) StatusesByGroup(groupID string) ([]models.DeviceStatus, error) {
	return s.statusesOwnedBy("group_id", groupID)
}

func (s *DeviceService) statusesOwnedBy(column, id string) ([]models.DeviceStatus, error) {
	ids, err := s.ownedDeviceIDs(column, id)
	if err != nil {
		return nil, err
	}
	statuses := make([]models.DeviceStatus, 0, len(ids))
	for _, deviceID := range ids {
		status, err := s.GetStatus(deviceID)
		if errors.Is(err, ErrDeviceStatusNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

func (s *DeviceService) SoftDelete(deviceID string) error {
	var device models.Device
	if err := s.db.First(&device, "id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}
		return err
	}
	return s.db.Delete(&device).Error
}
