package repositories

import (
	"errors"
	"fmt"

	"plume/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create creates a new comment in the database.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a single comment by its ID.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment by ID %s: %w", id, err)
	}
	return &comment, nil
}

// GetByArticle retrieves all comments on an article, newest first.
func (r *GORMCommentRepository) GetByArticle(articleID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("article = ?", articleID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to get comments for article %s: %w", articleID, err)
	}
	return comments, nil
}

// GetByAuthor retrieves all comments by an author profile, newest first.
func (r *GORMCommentRepository) GetByAuthor(authorID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("author = ?", authorID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to get comments for author %s: %w", authorID, err)
	}
	return comments, nil
}

// Delete deletes a comment by its ID. No-op when absent.
func (r *GORMCommentRepository) Delete(id string) error {
	if err := r.db.Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
	}
	return nil
}

// DeleteByArticle deletes every comment on an article. No-op when none
// exist.
func (r *GORMCommentRepository) DeleteByArticle(articleID string) error {
	if err := r.db.Delete(&models.Comment{}, "article = ?", articleID).Error; err != nil {
		return fmt.Errorf("failed to delete comments for article %s: %w", articleID, err)
	}
	return nil
}

// DeleteByAuthor deletes every comment by an author profile. No-op when
// none exist.
func (r *GORMCommentRepository) DeleteByAuthor(authorID string) error {
	if err := r.db.Delete(&models.Comment{}, "author = ?", authorID).Error; err != nil {
		return fmt.Errorf("failed to delete comments for author %s: %w", authorID, err)
	}
	return nil
}
