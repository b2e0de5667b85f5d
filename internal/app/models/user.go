package models

import (
	"time"
)

// User defines the login identity stored in the 'users' table.
// The id is allocated from the role's band, not by a sequence.
type User struct {
	ID           int64     `json:"id" db:"id" example:"101"`
	Username     string    `json:"username" db:"username" example:"ramshrestha101"`
	PasswordHash string    `json:"-" db:"password"`
	Role         RoleType  `json:"role" db:"role" example:"student"`
	FullName     string    `json:"fullName" db:"full_name" example:"Ram Shrestha"`
	Email        string    `json:"email" db:"email" example:"ram@example.com"`
	Gender       string    `json:"gender" db:"gender" example:"male"`
	IsActive     bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
