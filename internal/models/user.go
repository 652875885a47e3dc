package models

import "time"

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Not serialized
	Bio          string    `json:"bio"`
	Followers    int       `json:"followers"`
	CreatedAt    time.Time `json:"created_at"`
}
