package domain

import (
	"errors"
	"time"
)

// User represents an account holder.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Active         bool
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin has full access, including other users' data.
	RoleAdmin Role = "admin"

	// RoleUser can only manage their own budgets and transactions.
	RoleUser Role = "user"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrUserExists   = errors.New("user with this email already exists")
	ErrUserInactive = errors.New("user account is inactive")
	ErrUserNotFound = errors.New("user not found")
)
