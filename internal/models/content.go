package models

import "time"

// ContentItem represents a publishable unit with a title, body, and an
// optional image stored in the upload directory.
type ContentItem struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	ImageFilename *string   `json:"image_filename,omitempty"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	CreatorID     *int64    `json:"creator_id,omitempty"`

	// CreatorName is the joined admin_users.username for display.
	// Empty when the creator account no longer exists.
	CreatorName string `json:"creator_name,omitempty"`
}

// HasImage returns true if the item references an uploaded image.
// Value receiver so templates can call it on slice elements directly.
func (c ContentItem) HasImage() bool {
	return c.ImageFilename != nil && *c.ImageFilename != ""
}
