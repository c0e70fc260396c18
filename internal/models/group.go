package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID          string         `gorm:"primaryKey;size:36" json:"groupId"`
	OwnerID     string         `gorm:"size:36;index" json:"GroupOwnerID"`
	Name        string         `gorm:"size:100;index" json:"GroupName"`
	Description string         `gorm:"size:500" json:"GroupDescription"`
	CreatedAt   time.Time      `json:"DateCreated"`
	UpdatedAt   time.Time      `json:"DateUpdated"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GroupMember links a user to a group. Memberships are hard-deleted on
// removal, unlike the soft-deleted entities they join.
type GroupMember struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	GroupID    string     `gorm:"size:36;uniqueIndex:idx_group_user;not null" json:"GroupID"`
	UserID     string     `gorm:"size:36;uniqueIndex:idx_group_user;not null" json:"UserID"`
	DateJoined time.Time  `json:"DateJoined"`
	DateLeft   *time.Time `json:"DateLeft,omitempty"`
}

// GroupMemberInfo is a membership joined with the member's display name.
type GroupMemberInfo struct {
	GroupMember
	UserName string `json:"UserName,omitempty"`
}
