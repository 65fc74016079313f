package domain

import "time"

// Message is a single post authored by a user. UserID is a weak reference:
// the message points at its author by id, cascade on user deletion keeps the
// reference from dangling.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
