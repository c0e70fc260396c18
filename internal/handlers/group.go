package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups *services.GroupService
}

func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type CreateGroupRequest struct {
	GroupOwnerID     string `json:"GroupOwnerID" binding:"required"`
	GroupName        string `json:"GroupName" binding:"required,min=1"`
	GroupDescription string `json:"GroupDescription" binding:"required,min=1"`
}

type UpdateGroupRequest struct {
	GroupName        *string `json:"GroupName"`
	GroupDescription *string `json:"GroupDescription"`
}

type AddMemberRequest struct {
	GroupID   string `json:"groupId" binding:"required"`
	UserEmail string `json:"userEmail" binding:"required"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
}

// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	groupID, err := h.groups.Create(services.CreateGroupParams{
		OwnerID:     req.GroupOwnerID,
		Name:        req.GroupName,
		Description: req.GroupDescription,
	})
	if err != nil {
		if errors.Is(err, services.ErrGroupNameExists) {
			Conflict(c, "Group name already exists")
			return
		}
		log.Printf("create group failed: %v", err)
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Group created", "groupId": groupID})
}

// PATCH /api/groups/:groupId
func (h *GroupHandler) Update(c *gin.Context) {
	groupID := c.Param("groupId")

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	err := h.groups.Update(groupID, services.UpdateGroupParams{
		Name:        req.GroupName,
		Description: req.GroupDescription,
	})
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			NotFound(c, "Group not found")
			return
		}
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group updated", "groupId": groupID})
}

// GET /api/groups
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List()
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GET /api/groups/owner?ownerId=
func (h *GroupHandler) ListByOwner(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		BadRequest(c, "Owner ID is required")
		return
	}
	groups, err := h.groups.ListByOwner(ownerID)
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GET /api/groups/name?groupName=
func (h *GroupHandler) GetByName(c *gin.Context) {
	name := c.Query("groupName")
	if name == "" {
		BadRequest(c, "Group name is required")
		return
	}
	group, err := h.groups.GetByName(name)
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			NotFound(c, "Group not found")
			return
		}
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, group)
}

// GET /api/groups/:groupId
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groups.Get(c.Param("groupId"))
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			NotFound(c, "Group not found")
			return
		}
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, group)
}

// PATCH /api/groups/:groupId/softDelete
func (h *GroupHandler) SoftDelete(c *gin.Context) {
	if err := h.groups.SoftDelete(c.Param("groupId")); err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			NotFound(c, "Group not found")
			return
		}
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group soft-deleted"})
}

// POST /api/groups/member
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Group ID and User Email are required")
		return
	}

	userID, err := h.groups.AddMember(req.GroupID, req.UserEmail)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			NotFound(c, "Group not found")
		case errors.Is(err, services.ErrUserNotFound):
			NotFound(c, "User not found")
		case errors.Is(err, services.ErrUserAlreadyInGroup):
			BadRequest(c, "User already in group")
		default:
			log.Printf("add group member failed: %v", err)
			InternalError(c, "Internal server error")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Member added to group",
		"result":  gin.H{"groupId": req.GroupID, "userId": userID},
	})
}

// DELETE /api/groups/member
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	var req RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Group ID and User ID are required")
		return
	}

	if err := h.groups.RemoveMember(req.GroupID, req.UserID); err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			NotFound(c, "Member not found in group")
			return
		}
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed from group",
		"result":  gin.H{"groupId": req.GroupID, "userId": req.UserID},
	})
}

// GET /api/groups/:groupId/members
func (h *GroupHandler) Members(c *gin.Context) {
	members, err := h.groups.Members(c.Param("groupId"))
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, members)
}
