package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "tally/database/repository/user"
	"tally/models"
	"tally/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const authTokenTTL = 72 * time.Hour

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Register creates an account and signs the new user in.
func (s *DefaultUserService) Register(username, email, password string) (*AuthResponse, error) {
	logger := utils.GetLogger()

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(usr); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, err
		}
		logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return s.issueToken(usr)
}

// Authenticate verifies credentials and issues a fresh token, replacing
// any previously issued one.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	usr, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(usr)
}

// RevokeAuthToken invalidates the user's current token.
func (s *DefaultUserService) RevokeAuthToken(userID string) error {
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"tokenHash": "", "updatedAt": time.Now()}); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	// Drop the cached hash so the revocation is immediate.
	authCache := utils.GetAuthCacheClient()
	if authCache != nil {
		_ = authCache.Del(context.Background(), utils.AuthCachePrefix+userID).Err()
	}
	return nil
}

// issueToken signs a JWT for the user and persists its hash for the
// auth middleware's DB fallback.
func (s *DefaultUserService) issueToken(usr *models.User) (*AuthResponse, error) {
	tokenStr, err := utils.GenerateToken(usr.ID, usr.Email, authTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Repo.UpdateSetDocument(usr.ID, bson.M{
		"tokenHash": utils.HashToken(tokenStr),
		"updatedAt": time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("failed to persist token hash: %w", err)
	}

	return &AuthResponse{
		ID:       usr.ID,
		Token:    tokenStr,
		Username: usr.Username,
		Email:    usr.Email,
	}, nil
}
