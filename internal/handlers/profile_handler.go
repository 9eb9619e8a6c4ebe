package handlers

import (
	"plume/internal/apierr"
	"plume/internal/middleware"
	"plume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for profiles.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// RegisterRoutes registers the profile routes. Reads of individual profiles
// and their content are public; creation, the owner's listing and deletion
// require authentication.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	profiles := router.Group("/profiles")
	profiles.Post("/", authRequired, h.HandleRegister)
	profiles.Get("/", authRequired, h.HandleList)
	profiles.Get("/:id", h.HandleGet)
	profiles.Get("/:id/articles", h.HandleArticles)
	profiles.Get("/:id/comments", h.HandleComments)
	profiles.Delete("/:id", authRequired, h.HandleDelete)
}

// RegisterProfileRequest is the request body for profile registration. The
// kind decides which fields are required.
type RegisterProfileRequest struct {
	Kind      string `json:"kind"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
}

// HandleRegister creates a Person or Company profile for the authenticated
// account.
func (h *ProfileHandler) HandleRegister(c *fiber.Ctx) error {
	account := middleware.AccountFromContext(c)
	if account == nil {
		return apierr.Unauthorized("unauthorized")
	}

	var req RegisterProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.BadBody("invalid request body")
	}

	profile, err := h.profileService.Register(account, req.Kind, req.FirstName, req.LastName, req.Name)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, fiber.Map{
		"message": "profile registered successfully",
		"profile": profile,
	})
}

// HandleList returns the authenticated account's profiles.
func (h *ProfileHandler) HandleList(c *fiber.Ctx) error {
	account := middleware.AccountFromContext(c)
	if account == nil {
		return apierr.Unauthorized("unauthorized")
	}

	profiles, err := h.profileService.ListByAccount(account.ID)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message":  "profiles fetched",
		"profiles": profiles,
	})
}

// HandleGet returns a single profile.
func (h *ProfileHandler) HandleGet(c *fiber.Ctx) error {
	profile, err := h.profileService.Get(c.Params("id"))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "profile found",
		"profile": profile,
	})
}

// HandleArticles returns all articles authored by a profile.
func (h *ProfileHandler) HandleArticles(c *fiber.Ctx) error {
	articles, err := h.profileService.Articles(c.Params("id"))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message":  "articles fetched",
		"articles": articles,
	})
}

// HandleComments returns all comments authored by a profile.
func (h *ProfileHandler) HandleComments(c *fiber.Ctx) error {
	comments, err := h.profileService.Comments(c.Params("id"))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message":  "comments fetched",
		"comments": comments,
	})
}

// HandleDelete deletes a profile owned by the authenticated account.
func (h *ProfileHandler) HandleDelete(c *fiber.Ctx) error {
	account := middleware.AccountFromContext(c)
	if account == nil {
		return apierr.Unauthorized("unauthorized")
	}

	if err := h.profileService.Delete(c.Params("id"), account); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "profile deleted",
	})
}
