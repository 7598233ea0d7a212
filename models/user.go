package models

import "time"

// User represents an account that owns token records.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	TokenHash    string    `bson:"tokenHash" json:"-"` // SHA-256 of the active auth token
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserUpdateRequest carries the fields a user may change after registration.
type UserUpdateRequest struct {
	ID       string `json:"-"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
