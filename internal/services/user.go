package services

import (
	"errors"

	"github.com/TriStrac/scarrow-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrWrongPassword  = errors.New("wrong password")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserParams struct {
	Email         string
	Password      string
	IsUserInGroup bool
	IsUserHead    bool
	Address       models.Address
	Profile       models.Profile
}

type CreatedUserIDs struct {
	UserID    string `json:"userId"`
	ProfileID string `json:"profileId"`
	AddressID string `json:"addressId"`
}

type UpdateUserParams struct {
	Email         *string
	IsUserInGroup *bool
	IsUserHead    *bool
	Address       *models.Address
	Profile       *models.Profile
}

// UserDetail is a user joined with its address and profile.
type UserDetail struct {
	models.User
	Address *models.Address `json:"address"`
	Profile *models.Profile `json:"profile"`
}

// Create writes the user, address and profile in one transaction. The
// duplicate-email check runs inside the same transaction, so check and
// insert are serialized by the storage engine. Soft-deleted users do not
// count against uniqueness.
func (s *UserService) Create(params CreateUserParams) (*CreatedUserIDs, error) {
	user := models.User{
		Email:         params.Email,
		IsUserInGroup: params.IsUserInGroup,
		IsUserHead:    params.IsUserHead,
	}
	if err := user.SetPassword(params.Password); err != nil {
		return nil, err
	}

	address := params.Address
	profile := params.Profile

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", params.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.AddressID = address.ID
		user.ProfileID = profile.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &CreatedUserIDs{UserID: user.ID, ProfileID: profile.ID, AddressID: address.ID}, nil
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) ListDeleted() ([]models.User, error) {
	var users []models.User
	if err := s.db.Unscoped().Where("deleted_at IS NOT NULL").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Get(userID string) (*UserDetail, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.detail(&user)
}

func (s *UserService) detail(user *models.User) (*UserDetail, error) {
	detail := &UserDetail{User: *user}

	var address models.Address
	if err := s.db.First(&address, "id = ?", user.AddressID).Error; err == nil {
		detail.Address = &address
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", user.ProfileID).Error; err == nil {
		detail.Profile = &profile
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return detail, nil
}

// Update patches the user row and, when provided, its address and profile
// sub-documents in one transaction.
func (s *UserService) Update(userID string, params UpdateUserParams) (*UserDetail, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		userUpdate := map[string]interface{}{}
		if params.Email != nil {
			userUpdate["email"] = *params.Email
		}
		if params.IsUserInGroup != nil {
			userUpdate["is_user_in_group"] = *params.IsUserInGroup
		}
		if params.IsUserHead != nil {
			userUpdate["is_user_head"] = *params.IsUserHead
		}
		if len(userUpdate) > 0 {
			if err := tx.Model(&user).Updates(userUpdate).Error; err != nil {
				return err
			}
		}

		if params.Address != nil {
			addr := *params.Address
			addr.ID = user.AddressID
			if err := tx.Model(&models.Address{ID: user.AddressID}).
				Select("street_name", "barangay", "town", "province", "zip_code").
				Updates(addr).Error; err != nil {
				return err
			}
		}

		if params.Profile != nil {
			prof := *params.Profile
			prof.ID = user.ProfileID
			if err := tx.Model(&models.Profile{ID: user.ProfileID}).
				Select("first_name", "middle_name", "last_name", "birth_date", "phone_number").
				Updates(prof).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// Login returns the user when the email exists among live users and the
// password matches. Both failure modes surface as distinct errors; the
// handler collapses them to a single 401.
func (s *UserService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrWrongPassword
	}
	return &user, nil
}

// ChangePassword distinguishes three outcomes: ErrUserNotFound,
// ErrWrongPassword, and nil on success.
func (s *UserService) ChangePassword(userID, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Model(&user).Update("password_hash", user.PasswordHash).Error
}

// SoftDelete flags the user as deleted. Deleting an unknown or already
// deleted user is a no-op.
func (s *UserService) SoftDelete(userID string) error {
	return s.db.Where("id = ?", userID).Delete(&models.User{}).Error
}

func (s *UserService) EmailExists(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
