package models

import "time"

// Session maps an opaque client token to a user
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
