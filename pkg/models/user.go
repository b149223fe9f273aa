package models

import "time"

// User represents a user in the system.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required" example:"Alice Dupont"`
	Email string `json:"email" binding:"required,email" example:"alice@example.com"`
}

// UpdateUserRequest is the request body for updating a user.
// The name is always replaced; an empty email keeps the current one.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required" example:"Alice Martin"`
	Email string `json:"email,omitempty" binding:"omitempty,email" example:"alice.martin@example.com"`
}

// CountResponse is returned by the count endpoint.
type CountResponse struct {
	Count int64 `json:"count"`
}

// SeedResponse is returned by the sample data endpoint.
type SeedResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
