package repositories

import (
	"errors"
	"fmt"
	"time"

	"plume/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMArticleRepository is a GORM implementation of ArticleRepository.
type GORMArticleRepository struct {
	db *gorm.DB
}

// NewGORMArticleRepository creates a new instance of GORMArticleRepository.
func NewGORMArticleRepository(db *gorm.DB) *GORMArticleRepository {
	return &GORMArticleRepository{
		db: db,
	}
}

func (r *GORMArticleRepository) filtered(filter ArticleFilter) *gorm.DB {
	query := r.db.Model(&models.Article{})
	if filter.Author != "" {
		query = query.Where("author = ?", filter.Author)
	}
	return query
}

// Create creates a new article in the database.
func (r *GORMArticleRepository) Create(article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if err := r.db.Create(article).Error; err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// GetByID retrieves a single article by its ID.
func (r *GORMArticleRepository) GetByID(id string) (*models.Article, error) {
	var article models.Article
	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by ID %s: %w", id, err)
	}
	return &article, nil
}

// GetByAuthor retrieves all articles by an author profile, newest first.
func (r *GORMArticleRepository) GetByAuthor(authorID string) ([]models.Article, error) {
	var articles []models.Article
	if err := r.db.Where("author = ?", authorID).Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to get articles for author %s: %w", authorID, err)
	}
	return articles, nil
}

// List retrieves a page of articles matching the filter, newest first.
func (r *GORMArticleRepository) List(filter ArticleFilter, skip, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.filtered(filter).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// Count returns the number of articles matching the filter.
func (r *GORMArticleRepository) Count(filter ArticleFilter) (int64, error) {
	var count int64
	if err := r.filtered(filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// Update updates an existing article.
func (r *GORMArticleRepository) Update(article *models.Article) error {
	article.UpdatedAt = time.Now()
	res := r.db.Save(article)
	if res.Error != nil {
		return fmt.Errorf("failed to update article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article with ID %s for update: %w", article.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes an article by its ID. No-op when absent.
func (r *GORMArticleRepository) Delete(id string) error {
	if err := r.db.Delete(&models.Article{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}
	return nil
}

// DeleteByAuthor deletes every article by an author profile. No-op when
// none exist.
func (r *GORMArticleRepository) DeleteByAuthor(authorID string) error {
	if err := r.db.Delete(&models.Article{}, "author = ?", authorID).Error; err != nil {
		return fmt.Errorf("failed to delete articles for author %s: %w", authorID, err)
	}
	return nil
}
