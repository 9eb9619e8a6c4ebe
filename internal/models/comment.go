package models

import "time"

// Comment belongs to an article. AuthorName is a denormalized snapshot of
// the acting profile's display name at creation time; it survives later
// profile renames or deletion. Comments are immutable except for deletion.
type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Article    string    `json:"article" gorm:"index;type:varchar(36)"`
	Author     string    `json:"author" gorm:"index;type:varchar(36)"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content" validate:"required"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthorProfileID identifies the owning profile for authorization checks.
func (c Comment) AuthorProfileID() string { return c.Author }
