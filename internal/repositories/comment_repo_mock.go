package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"plume/internal/models"

	"github.com/google/uuid"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments map[string]models.Comment
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[string]models.Comment),
	}
}

func sortNewestFirst(comments []models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}

// Create adds a new comment.
func (r *MockCommentRepository) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments[comment.ID] = *comment
	return nil
}

// GetByID returns a comment by its ID.
func (r *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment with ID %s: %w", id, ErrNotFound)
	}
	return &comment, nil
}

// GetByArticle returns all comments on an article, newest first.
func (r *MockCommentRepository) GetByArticle(articleID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, comment := range r.comments {
		if comment.Article == articleID {
			comments = append(comments, comment)
		}
	}
	sortNewestFirst(comments)
	return comments, nil
}

// GetByAuthor returns all comments by an author profile, newest first.
func (r *MockCommentRepository) GetByAuthor(authorID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, comment := range r.comments {
		if comment.Author == authorID {
			comments = append(comments, comment)
		}
	}
	sortNewestFirst(comments)
	return comments, nil
}

// Delete removes a comment by its ID. No-op when absent.
func (r *MockCommentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.comments, id)
	return nil
}

// DeleteByArticle removes every comment on an article.
func (r *MockCommentRepository) DeleteByArticle(articleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, comment := range r.comments {
		if comment.Article == articleID {
			delete(r.comments, id)
		}
	}
	return nil
}

// DeleteByAuthor removes every comment by an author profile.
func (r *MockCommentRepository) DeleteByAuthor(authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, comment := range r.comments {
		if comment.Author == authorID {
			delete(r.comments, id)
		}
	}
	return nil
}
