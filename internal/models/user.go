package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID            string         `gorm:"primaryKey;size:36" json:"userId"`
	Email         string         `gorm:"size:120;index;not null" json:"email"`
	PasswordHash  string         `gorm:"size:72;not null" json:"-"`
	IsUserInGroup bool           `gorm:"default:false" json:"isUserInGroup"`
	IsUserHead    bool           `gorm:"default:false" json:"isUserHead"`
	AddressID     string         `gorm:"size:36" json:"addressId"`
	ProfileID     string         `gorm:"size:36" json:"profileId"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

type Address struct {
	ID         string    `gorm:"primaryKey;size:36" json:"addressId"`
	StreetName string    `gorm:"size:120" json:"streetName"`
	Barangay   string    `gorm:"size:120" json:"baranggay"`
	Town       string    `gorm:"size:120" json:"town"`
	Province   string    `gorm:"size:120" json:"province"`
	ZipCode    string    `gorm:"size:10" json:"zipCode"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Profile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"profileId"`
	FirstName   string    `gorm:"size:60" json:"firstName"`
	MiddleName  string    `gorm:"size:60" json:"middleName,omitempty"`
	LastName    string    `gorm:"size:60" json:"lastName"`
	BirthDate   string    `gorm:"size:30" json:"birthDate"`
	PhoneNumber string    `gorm:"size:30" json:"phoneNumber"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DisplayName is the "First Last" form shown in member listings.
func (p *Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
