package user

import (
	userRepo "tally/database/repository/user"
	"tally/models"
)

// UserService manages accounts and their auth tokens.
type UserService interface {
	// Registration & authentication
	Register(username, email, password string) (*AuthResponse, error)
	Authenticate(email, password string) (*AuthResponse, error)

	// Account management
	GetUserByID(userID string) (*models.User, error)
	UpdateUser(req models.UserUpdateRequest) (*models.User, error)
	DeleteUser(userID string) error
	RevokeAuthToken(userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
