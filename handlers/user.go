package handlers

import (
	"net/http"

	"reminderx/middleware"
	"reminderx/models"
	userSvc "reminderx/services/user"
	"reminderx/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	UserService userSvc.UserService
}

func NewUserHandler(svc userSvc.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

type registerUserRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Age     int    `json:"age" binding:"min=0"`
}

// RegisterUserHandler handles POST /api/user/register. The identity comes
// from the verified ID token, not from the body.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	uid := c.GetString(middleware.ContextFirebaseUID)
	if uid == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "missing verified identity")
		return
	}
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.UserService.Register(c.Request.Context(), uid, models.User{
		Email:   req.Email,
		Name:    req.Name,
		Address: req.Address,
		Age:     req.Age,
	})
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered", "user": u})
}

// GetProfileHandler handles GET /api/user.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	u, err := h.UserService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfileHandler handles PATCH /api/user.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req userSvc.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdatePushTokenHandler handles POST /api/user/push-token.
func (h *UserHandler) UpdatePushTokenHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.UserService.UpdatePushToken(c.Request.Context(), userID, req.Token); err != nil {
		respondError(c, err, "Failed to update push token")
		return
	}
	getLogger(c).Debug("push token updated", zap.String("userId", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}

// PairDeviceHandler handles POST /api/model.
func (h *UserHandler) PairDeviceHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Model string `json:"model" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	device, created, err := h.UserService.PairDevice(c.Request.Context(), userID, req.Model)
	if err != nil {
		respondError(c, err, "Failed to pair device")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"device": device})
}

// GetDeviceHandler handles GET /api/model.
func (h *UserHandler) GetDeviceHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	device, err := h.UserService.GetDevice(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve device")
		return
	}
	c.JSON(http.StatusOK, gin.H{"device": device})
}
