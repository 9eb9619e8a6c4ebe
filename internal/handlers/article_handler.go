package handlers

import (
	"plume/internal/apierr"
	"plume/internal/middleware"
	"plume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ArticleHandler handles HTTP requests for articles and their comments.
type ArticleHandler struct {
	articleService *services.ArticleService
	commentService *services.CommentService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleService *services.ArticleService, commentService *services.CommentService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		commentService: commentService,
	}
}

// RegisterRoutes registers the article routes. Reads are public; every
// mutation runs behind both gates (authenticated account + resolved acting
// profile). The literal /comments/:id route is registered before /:id so it
// wins the match.
func (h *ArticleHandler) RegisterRoutes(router fiber.Router, authRequired, profileRequired fiber.Handler) {
	articles := router.Group("/articles")

	articles.Delete("/comments/:id", authRequired, profileRequired, h.HandleDeleteComment)

	articles.Get("/", h.HandleList)
	articles.Post("/", authRequired, profileRequired, h.HandleCreate)
	articles.Get("/:id", h.HandleGet)
	articles.Put("/:id", authRequired, profileRequired, h.HandleUpdate)
	articles.Delete("/:id", authRequired, profileRequired, h.HandleDelete)
	articles.Get("/:id/comments", h.HandleListComments)
	articles.Post("/:id/comments", authRequired, profileRequired, h.HandleCreateComment)
}

// HandleList returns a page of articles, optionally filtered by author
// profile, together with maxPage for the same filter.
func (h *ArticleHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", services.DefaultPage)
	pageSize := c.QueryInt("pageSize", services.DefaultPageSize)
	author := c.Query("author")

	articles, maxPage, err := h.articleService.List(page, pageSize, author)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"articles": articles,
		"maxPage":  maxPage,
	})
}

// HandleGet returns a single article.
func (h *ArticleHandler) HandleGet(c *fiber.Ctx) error {
	article, err := h.articleService.Get(c.Params("id"))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"article": article,
	})
}

// ArticleRequest is the request body for creating or updating an article.
// The profileId is consumed by the profile resolution gate.
type ArticleRequest struct {
	ProfileID string `json:"profileId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// HandleCreate publishes a new article as the acting profile.
func (h *ArticleHandler) HandleCreate(c *fiber.Ctx) error {
	profile := middleware.ProfileFromContext(c)
	if profile == nil {
		return apierr.Unauthorized("unauthorized")
	}

	var req ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.BadBody("invalid request body")
	}

	article, err := h.articleService.Create(profile, req.Title, req.Content)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, fiber.Map{
		"message": "article created successfully",
		"article": article,
	})
}

// HandleUpdate applies the present fields of the body to an article.
func (h *ArticleHandler) HandleUpdate(c *fiber.Ctx) error {
	profile := middleware.ProfileFromContext(c)
	if profile == nil {
		return apierr.Unauthorized("unauthorized")
	}

	var req ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.BadBody("invalid request body")
	}

	article, err := h.articleService.Update(c.Params("id"), profile, req.Title, req.Content)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "article updated successfully",
		"article": article,
	})
}

// HandleDelete deletes an article and its comments.
func (h *ArticleHandler) HandleDelete(c *fiber.Ctx) error {
	profile := middleware.ProfileFromContext(c)
	if profile == nil {
		return apierr.Unauthorized("unauthorized")
	}

	if err := h.articleService.Delete(c.Params("id"), profile); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "article deleted successfully",
	})
}

// HandleListComments returns the comments on an article.
func (h *ArticleHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.commentService.ListByArticle(c.Params("id"))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"comments": comments,
	})
}

// CommentRequest is the request body for creating a comment.
type CommentRequest struct {
	ProfileID string `json:"profileId"`
	Content   string `json:"content"`
}

// HandleCreateComment adds a comment on an article as the acting profile.
func (h *ArticleHandler) HandleCreateComment(c *fiber.Ctx) error {
	profile := middleware.ProfileFromContext(c)
	if profile == nil {
		return apierr.Unauthorized("unauthorized")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.BadBody("invalid request body")
	}

	comment, err := h.commentService.Create(c.Params("id"), profile, req.Content)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, fiber.Map{
		"message": "comment created successfully",
		"comment": comment,
	})
}

// HandleDeleteComment deletes a comment authored by the acting profile.
func (h *ArticleHandler) HandleDeleteComment(c *fiber.Ctx) error {
	profile := middleware.ProfileFromContext(c)
	if profile == nil {
		return apierr.Unauthorized("unauthorized")
	}

	if err := h.commentService.Delete(c.Params("id"), profile); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "comment deleted successfully",
	})
}
