package handlers

import (
	"plume/internal/apierr"
	"plume/internal/middleware"
	"plume/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for accounts: registration, login and
// account deletion.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the account routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	accounts := router.Group("/accounts")
	accounts.Post("/register", h.HandleRegister)
	accounts.Post("/login", h.HandleLogin)
	accounts.Get("/me", authRequired, h.HandleMe)
	accounts.Delete("/:id", authRequired, h.HandleDelete)
}

// CredentialsRequest is the request body for registration and login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister handles new account registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.BadBody("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return apierr.BadBody("please provide a valid email and password")
	}

	account, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, fiber.Map{
		"message": "account registered successfully",
		"account": account,
	})
}

// HandleLogin handles login and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apierr.BadBody("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return apierr.BadBody("please provide a valid email and password")
	}

	token, account, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "login successful",
		"token":   token,
		"account": account,
	})
}

// HandleMe echoes the authenticated account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	account := middleware.AccountFromContext(c)
	if account == nil {
		return apierr.Unauthorized("unauthorized")
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"account": account,
	})
}

// HandleDelete deletes an account and everything it owns.
func (h *AuthHandler) HandleDelete(c *fiber.Ctx) error {
	account := middleware.AccountFromContext(c)
	if account == nil {
		return apierr.Unauthorized("unauthorized")
	}

	if err := h.authService.DeleteAccount(c.Params("id"), account); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"message": "account deleted",
	})
}
