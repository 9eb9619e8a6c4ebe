package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"plume/internal/apierr"
	"plume/internal/authz"
	"plume/internal/models"
	"plume/internal/repositories"

	"go.uber.org/zap"
)

// Article listing defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Title length bounds.
const (
	MinTitleLength = 5
	MaxTitleLength = 100
)

// ArticleService handles article CRUD guarded by the ownership decisions.
type ArticleService struct {
	articles repositories.ArticleRepository
	comments repositories.CommentRepository
	events   EventPublisher
	logger   *zap.Logger
}

// NewArticleService creates a new ArticleService.
func NewArticleService(
	articles repositories.ArticleRepository,
	comments repositories.CommentRepository,
	events EventPublisher,
	logger *zap.Logger,
) *ArticleService {
	return &ArticleService{
		articles: articles,
		comments: comments,
		events:   events,
		logger:   logger,
	}
}

func titleValid(title string) bool {
	length := len([]rune(title))
	return length >= MinTitleLength && length <= MaxTitleLength
}

// List returns a page of articles, newest first, optionally filtered by
// author profile, together with maxPage = ceil(totalMatching/pageSize).
func (s *ArticleService) List(page, pageSize int, author string) ([]models.Article, int, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	filter := repositories.ArticleFilter{Author: author}

	total, err := s.articles.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	maxPage := int((total + int64(pageSize) - 1) / int64(pageSize))

	articles, err := s.articles.List(filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return articles, maxPage, nil
}

// Get retrieves an article by its ID.
func (s *ArticleService) Get(id string) (*models.Article, error) {
	article, err := s.articles.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apierr.NotFound("article not found")
		}
		return nil, err
	}
	return article, nil
}

// Create publishes a new article authored by the acting profile.
func (s *ArticleService) Create(acting *models.Profile, title, content string) (*models.Article, error) {
	if title == "" || content == "" {
		return nil, apierr.BadBody("please provide title and content")
	}
	if !titleValid(title) {
		return nil, apierr.BadBody("title must be between 5 and 100 characters")
	}

	article := &models.Article{
		Author:  acting.ID,
		Title:   title,
		Content: content,
	}
	if err := s.articles.Create(article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.logger.Info("article created",
		zap.String("articleID", article.ID),
		zap.String("author", article.Author),
	)
	s.publishArticleEvent(EventArticleCreated, article)
	return article, nil
}

// Update applies the present fields to an article. Only the authoring
// profile may update it; the title is revalidated when supplied and an
// empty field is left untouched.
func (s *ArticleService) Update(id string, acting *models.Profile, title, content string) (*models.Article, error) {
	article, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateContent(*article, acting) {
		return nil, apierr.Forbidden("you are not allowed to update this article")
	}

	if title != "" {
		if !titleValid(title) {
			return nil, apierr.BadBody("title must be between 5 and 100 characters")
		}
		article.Title = title
	}
	if content != "" {
		article.Content = content
	}

	if err := s.articles.Update(article); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

// Delete deletes an article and its comments. Only the authoring profile
// may delete it; the comments go first so a retry converges.
func (s *ArticleService) Delete(id string, acting *models.Profile) error {
	article, err := s.Get(id)
	if err != nil {
		return err
	}

	if !authz.CanMutateContent(*article, acting) {
		return apierr.Forbidden("you are not allowed to delete this article")
	}

	if err := s.comments.DeleteByArticle(id); err != nil {
		return err
	}
	if err := s.articles.Delete(id); err != nil {
		return err
	}

	s.logger.Info("article deleted", zap.String("articleID", id))
	s.publishArticleEvent(EventArticleDeleted, article)
	return nil
}

func (s *ArticleService) publishArticleEvent(eventType string, article *models.Article) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"articleID": article.ID,
		"author":    article.Author,
		"title":     article.Title,
	})
	if err != nil {
		s.logger.Warn("failed to marshal article event", zap.Error(err))
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		s.logger.Warn("failed to publish article event",
			zap.String("type", eventType),
			zap.String("articleID", article.ID),
			zap.Error(err),
		)
	}
}
