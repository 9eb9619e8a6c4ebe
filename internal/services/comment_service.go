package services

import (
	"errors"
	"fmt"

	"plume/internal/apierr"
	"plume/internal/authz"
	"plume/internal/models"
	"plume/internal/repositories"

	"go.uber.org/zap"
)

// CommentService handles comment creation, listing and deletion. Comments
// are immutable after creation.
type CommentService struct {
	comments repositories.CommentRepository
	articles repositories.ArticleRepository
	logger   *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments repositories.CommentRepository,
	articles repositories.ArticleRepository,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		articles: articles,
		logger:   logger,
	}
}

func (s *CommentService) articleExists(articleID string) error {
	if _, err := s.articles.GetByID(articleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apierr.NotFound("article not found")
		}
		return err
	}
	return nil
}

// ListByArticle retrieves all comments on an article, newest first.
func (s *CommentService) ListByArticle(articleID string) ([]models.Comment, error) {
	if err := s.articleExists(articleID); err != nil {
		return nil, err
	}
	return s.comments.GetByArticle(articleID)
}

// Create adds a comment on an article. The acting profile's display name is
// snapshotted onto the comment so it survives later profile changes.
func (s *CommentService) Create(articleID string, acting *models.Profile, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apierr.BadBody("please provide content")
	}
	if err := s.articleExists(articleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Article:    articleID,
		Author:     acting.ID,
		AuthorName: acting.DisplayName(),
		Content:    content,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info("comment created",
		zap.String("commentID", comment.ID),
		zap.String("articleID", articleID),
	)
	return comment, nil
}

// Delete deletes a comment. Only the authoring profile may.
func (s *CommentService) Delete(id string, acting *models.Profile) error {
	comment, err := s.comments.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apierr.NotFound("comment not found")
		}
		return err
	}

	if !authz.CanMutateContent(*comment, acting) {
		return apierr.Forbidden("you are not allowed to delete this comment")
	}

	return s.comments.Delete(id)
}
