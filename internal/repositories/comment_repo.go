package repositories

import "plume/internal/models"

// CommentRepository defines the interface for comment data access. The bulk
// deletes back the cascade sequences; deleting with no matches is a no-op so
// cascades can be retried safely.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	GetByArticle(articleID string) ([]models.Comment, error)
	GetByAuthor(authorID string) ([]models.Comment, error)
	Delete(id string) error
	DeleteByArticle(articleID string) error
	DeleteByAuthor(authorID string) error
}
