package services

import (
	"errors"
	"time"

	"github.com/TriStrac/scarrow-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupNameExists    = errors.New("group name already exists")
	ErrUserAlreadyInGroup = errors.New("user already in group")
	ErrMemberNotFound     = errors.New("member not found in group")
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

type CreateGroupParams struct {
	OwnerID     string
	Name        string
	Description string
}

type UpdateGroupParams struct {
	Name        *string
	Description *string
}

// Create writes the group and flips the owner's head flag in one
// transaction. The duplicate-name check (live groups only) runs inside the
// same transaction.
func (s *GroupService) Create(params CreateGroupParams) (string, error) {
	group := models.Group{
		OwnerID:     params.OwnerID,
		Name:        params.Name,
		Description: params.Description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Group{}).Where("name = ?", params.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrGroupNameExists
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		if params.OwnerID != "" {
			if err := tx.Model(&models.User{}).Where("id = ?", params.OwnerID).
				Update("is_user_head", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return group.ID, nil
}

func (s *GroupService) Update(groupID string, params UpdateGroupParams) error {
	var group models.Group
	if err := s.db.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	update := map[string]interface{}{}
	if params.Name != nil {
		update["name"] = *params.Name
	}
	if params.Description != nil {
		update["description"] = *params.Description
	}
	if len(update) == 0 {
		return nil
	}
	return s.db.Model(&group).Updates(update).Error
}

func (s *GroupService) List() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) ListByOwner(ownerID string) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Where("owner_id = ?", ownerID).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) GetByName(name string) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (s *GroupService) Get(groupID string) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (s *GroupService) SoftDelete(groupID string) error {
	var group models.Group
	if err := s.db.First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return s.db.Delete(&group).Error
}

// AddMember resolves the email to a live user, rejects duplicates, and
// writes the membership plus the user's in-group flag in one transaction.
func (s *GroupService) AddMember(groupID, userEmail string) (string, error) {
	var userID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		var user models.User
		if err := tx.First(&user, "email = ?", userEmail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		userID = user.ID

		var count int64
		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", groupID, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserAlreadyInGroup
		}

		member := models.GroupMember{
			GroupID:    groupID,
			UserID:     user.ID,
			DateJoined: time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("is_user_in_group", true).Error
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

// RemoveMember hard-deletes the membership row.
func (s *GroupService) RemoveMember(groupID, userID string) error {
	var member models.GroupMember
	if err := s.db.First(&member, "group_id = ? AND user_id = ?", groupID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return s.db.Delete(&member).Error
}

// Members lists the group's memberships with each member's display name.
// Memberships whose user no longer resolves are skipped.
func (s *GroupService) Members(groupID string) ([]models.GroupMemberInfo, error) {
	var members []models.GroupMember
	if err := s.db.Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		return nil, err
	}

	infos := make([]models.GroupMemberInfo, 0, len(members))
	for _, m := range members {
		var user models.User
		if err := s.db.First(&user, "id = ?", m.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		info := models.GroupMemberInfo{GroupMember: m}
		var profile models.Profile
		if err := s.db.First(&profile, "id = ?", user.ProfileID).Error; err == nil {
			info.UserName = profile.DisplayName()
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
