package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/TriStrac/scarrow-server/internal/middleware"
	"github.com/TriStrac/scarrow-server/internal/models"
	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users   *services.UserService
	jwtAuth *middleware.JWTAuth
}

func NewUserHandler(users *services.UserService, jwtAuth *middleware.JWTAuth) *UserHandler {
	return &UserHandler{users: users, jwtAuth: jwtAuth}
}

type AddressRequest struct {
	StreetName string `json:"streetName" binding:"required"`
	Barangay   string `json:"baranggay" binding:"required"`
	Town       string `json:"town" binding:"required"`
	Province   string `json:"province" binding:"required"`
	ZipCode    string `json:"zipCode" binding:"required"`
}

type ProfileRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName" binding:"required"`
	BirthDate   string `json:"birthDate" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type CreateUserRequest struct {
	Email         string         `json:"email" binding:"required,email"`
	Password      string         `json:"password" binding:"required,min=6"`
	IsUserInGroup bool           `json:"isUserInGroup"`
	IsUserHead    bool           `json:"isUserHead"`
	Address       AddressRequest `json:"address" binding:"required"`
	Profile       ProfileRequest `json:"profile" binding:"required"`
}

type UpdateUserRequest struct {
	Email         *string         `json:"email" binding:"omitempty,email"`
	IsUserInGroup *bool           `json:"isUserInGroup"`
	IsUserHead    *bool           `json:"isUserHead"`
	Address       *AddressRequest `json:"address"`
	Profile       *ProfileRequest `json:"profile"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	UserID      string `json:"userId" binding:"required"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type EmailExistsRequest struct {
	Email string `json:"email" binding:"required"`
}

func (r *AddressRequest) toModel() models.Address {
	return models.Address{
		StreetName: r.StreetName,
		Barangay:   r.Barangay,
		Town:       r.Town,
		Province:   r.Province,
		ZipCode:    r.ZipCode,
	}
}

func (r *ProfileRequest) toModel() models.Profile {
	return models.Profile{
		FirstName:   r.FirstName,
		MiddleName:  r.MiddleName,
		LastName:    r.LastName,
		BirthDate:   r.BirthDate,
		PhoneNumber: r.PhoneNumber,
	}
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ids, err := h.users.Create(services.CreateUserParams{
		Email:         req.Email,
		Password:      req.Password,
		IsUserInGroup: req.IsUserInGroup,
		IsUserHead:    req.IsUserHead,
		Address:       req.Address.toModel(),
		Profile:       req.Profile.toModel(),
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			Conflict(c, "Existing email")
			return
		}
		log.Printf("create user failed: %v", err)
		InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "User created",
		"userId":    ids.UserID,
		"profileId": ids.ProfileID,
		"addressId": ids.AddressID,
	})
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/deleted
func (h *UserHandler) ListDeleted(c *gin.Context) {
	users, err := h.users.ListDeleted()
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/:userId
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Param("userId"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			NotFound(c, "User not found")
			return
		}
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	params := services.UpdateUserParams{
		Email:         req.Email,
		IsUserInGroup: req.IsUserInGroup,
		IsUserHead:    req.IsUserHead,
	}
	if req.Address != nil {
		addr := req.Address.toModel()
		params.Address = &addr
	}
	if req.Profile != nil {
		prof := req.Profile.toModel()
		params.Profile = &prof
	}

	user, err := h.users.Update(c.Param("userId"), params)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			NotFound(c, "User not found")
			return
		}
		log.Printf("update user failed: %v", err)
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	user, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	token, err := h.jwtAuth.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "userId": user.ID})
}

// POST /api/users/changePassword
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId, oldPassword, and newPassword are required"})
		return
	}

	err := h.users.ChangePassword(req.UserID, req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
	case errors.Is(err, services.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Old password is incorrect"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "userId": req.UserID})
	}
}

// PATCH /api/users/:userId/softDelete
func (h *UserHandler) SoftDelete(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.users.SoftDelete(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "userId": userID})
}

// POST /api/users/emailExists
func (h *UserHandler) EmailExists(c *gin.Context) {
	var req EmailExistsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Email is required in request body")
		return
	}
	exists, err := h.users.EmailExists(req.Email)
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
