package user

import (
	"fmt"
	"strings"
	"time"

	"tally/models"
	"tally/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// GetUserByID returns the account without credential fields.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	usr, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return usr, nil
}

// UpdateUser updates non-empty account fields using a partial update.
func (s *DefaultUserService) UpdateUser(req models.UserUpdateRequest) (*models.User, error) {
	logger := utils.GetLogger()

	if req.ID == "" {
		return nil, fmt.Errorf("user ID is required for update")
	}

	updateFields := bson.M{
		"updatedAt": time.Now(),
	}
	if v := strings.TrimSpace(req.Username); v != "" {
		updateFields["username"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		updateFields["email"] = v
	}
	if len(updateFields) == 1 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	if err := s.Repo.UpdateSetDocument(req.ID, updateFields); err != nil {
		logger.Error("Failed to update user", zap.String("userID", req.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.Repo.GetByID(req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated user: %w", err)
	}
	return updated, nil
}

// DeleteUser removes the account. Token records remain until the user
// deletes them explicitly.
func (s *DefaultUserService) DeleteUser(userID string) error {
	if err := s.Repo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
