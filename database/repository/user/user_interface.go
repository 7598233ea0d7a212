package userRepo

import (
	"tally/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for account data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(user *models.User) error
	// GetByID retrieves a user by its unique ID, hiding credential fields.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by email including credential fields,
	// for authentication.
	GetByEmail(email string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	// UpdateSetDocument applies a partial $set update by user ID.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a user record by its ID.
	Delete(id string) error
	// AllIDs lists every user ID, for the reconciliation sweep.
	AllIDs() ([]string, error)
}
