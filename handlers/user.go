package handlers

import (
	"errors"
	"net/http"

	userRepo "tally/database/repository/user"
	"tally/models"
	"tally/services/user"
	"tally/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	Service user.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserHandler creates an account and returns an auth token.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	logger := getLogger(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	resp, err := h.Service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "Registration failed", err.Error())
			return
		}
		logger.Error("Failed to register user", zap.String("email", req.Email), zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Registration failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler verifies credentials and returns a fresh token.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	resp, err := h.Service.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		getLogger(c).Error("Failed to authenticate user", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMeHandler returns the authenticated account.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	userID := c.GetString("userID")

	usr, err := h.Service.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateUserHandler updates the authenticated account.
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	logger := getLogger(c)
	userID := c.GetString("userID")

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	req.ID = userID

	updated, err := h.Service.UpdateUser(req)
	if err != nil {
		logger.Error("Failed to update user", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Update failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteUserHandler removes the authenticated account.
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.Service.DeleteUser(userID); err != nil {
		getLogger(c).Error("Failed to delete user", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// RevokeUserAuthTokenHandler invalidates the current auth token.
func (h *UserHandler) RevokeUserAuthTokenHandler(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.Service.RevokeAuthToken(userID); err != nil {
		getLogger(c).Error("Failed to revoke token", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}
