package model

import "time"

// Contact is a message submitted via the contact form.
// ID, CreatedAt and IsRead are always assigned by the server.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// ContactListOptions filters the administrative contact listing.
type ContactListOptions struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
