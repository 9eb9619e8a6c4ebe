package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"plume/internal/models"

	"github.com/google/uuid"
)

// MockArticleRepository is an in-memory implementation of ArticleRepository.
type MockArticleRepository struct {
	articles map[string]models.Article
	mu       sync.RWMutex
}

// NewMockArticleRepository creates a new instance of MockArticleRepository.
func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		articles: make(map[string]models.Article),
	}
}

func (r *MockArticleRepository) matching(filter ArticleFilter) []models.Article {
	articles := make([]models.Article, 0)
	for _, article := range r.articles {
		if filter.Author != "" && article.Author != filter.Author {
			continue
		}
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles
}

// Create adds a new article.
func (r *MockArticleRepository) Create(article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
	r.articles[article.ID] = *article
	return nil
}

// GetByID returns an article by its ID.
func (r *MockArticleRepository) GetByID(id string) (*models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, fmt.Errorf("article with ID %s: %w", id, ErrNotFound)
	}
	return &article, nil
}

// GetByAuthor returns all articles by an author profile, newest first.
func (r *MockArticleRepository) GetByAuthor(authorID string) ([]models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.matching(ArticleFilter{Author: authorID}), nil
}

// List returns a page of articles matching the filter, newest first.
func (r *MockArticleRepository) List(filter ArticleFilter, skip, limit int) ([]models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	articles := r.matching(filter)
	if skip >= len(articles) {
		return []models.Article{}, nil
	}
	articles = articles[skip:]
	if limit < len(articles) {
		articles = articles[:limit]
	}
	return articles, nil
}

// Count returns the number of articles matching the filter.
func (r *MockArticleRepository) Count(filter ArticleFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matching(filter))), nil
}

// Update modifies an existing article.
func (r *MockArticleRepository) Update(article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[article.ID]; !ok {
		return fmt.Errorf("article with ID %s for update: %w", article.ID, ErrNotFound)
	}
	article.UpdatedAt = time.Now()
	r.articles[article.ID] = *article
	return nil
}

// Delete removes an article by its ID. No-op when absent.
func (r *MockArticleRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.articles, id)
	return nil
}

// DeleteByAuthor removes every article by an author profile.
func (r *MockArticleRepository) DeleteByAuthor(authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, article := range r.articles {
		if article.Author == authorID {
			delete(r.articles, id)
		}
	}
	return nil
}
