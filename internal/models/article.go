package models

import "time"

// Article is authored by a profile. Title length is validated against the
// [5,100] bounds both at the handler and in the service.
type Article struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Author    string    `json:"author" gorm:"index;type:varchar(36)"`
	Title     string    `json:"title" validate:"required,min=5,max=100"`
	Content   string    `json:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"lastUpdated"`
}

// AuthorProfileID identifies the owning profile for authorization checks.
func (a Article) AuthorProfileID() string { return a.Author }
