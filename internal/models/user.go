package models

import "time"

// User is an authenticated back-office user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
