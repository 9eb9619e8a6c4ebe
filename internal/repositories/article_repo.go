package repositories

import "plume/internal/models"

// ArticleFilter restricts article queries. A zero filter matches everything.
type ArticleFilter struct {
	Author string
}

// ArticleRepository defines the interface for article data access. List and
// Count take the same filter so handlers can report maxPage alongside a page
// of results.
type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id string) (*models.Article, error)
	GetByAuthor(authorID string) ([]models.Article, error)
	List(filter ArticleFilter, skip, limit int) ([]models.Article, error)
	Count(filter ArticleFilter) (int64, error)
	Update(article *models.Article) error
	Delete(id string) error
	DeleteByAuthor(authorID string) error
}
