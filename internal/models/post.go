package models

import "time"

// Post represents a blog post joined with its author's username
type Post struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"` // Raw rich text, sanitized at render time
	Created  time.Time `json:"created"`
	AuthorID int64     `json:"author_id"`
	Username string    `json:"username"`
}
