package middleware

import (
	"strings"

	"plume/internal/apierr"
	"plume/internal/models"
	"plume/internal/repositories"
	"plume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys under which the gates bind the resolved records.
const (
	accountKey = "account"
	profileKey = "profile"
)

// AuthRequired resolves the bearer token to a live account and binds it to
// the request. Missing header, bad prefix, bad signature, expired claims and
// unknown account all answer with the same 401 so the response does not
// reveal which check failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apierr.Unauthorized("unauthorized")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apierr.Unauthorized("unauthorized")
		}

		account, err := authService.Authenticate(parts[1])
		if err != nil {
			return err
		}

		c.Locals(accountKey, account)
		return c.Next()
	}
}

// ProfileRequired resolves the profile the request claims to act as, taken
// from the JSON body and falling back to the query string, and requires it
// to be owned by the authenticated account. Must run after AuthRequired.
// "Not found" and "owned by someone else" are indistinguishable in the
// response.
func ProfileRequired(profiles repositories.ProfileRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ProfileID string `json:"profileId"`
		}
		if len(c.Body()) > 0 {
			// A non-JSON body is not an error here; the handler will
			// reject it when it parses the rest of the payload.
			_ = c.BodyParser(&body)
		}

		profileID := body.ProfileID
		if profileID == "" {
			profileID = c.Query("profileId")
		}
		if profileID == "" {
			return apierr.BadBody("missing profileId")
		}

		account := AccountFromContext(c)
		if account == nil {
			return apierr.Unauthorized("unauthorized")
		}

		profile, err := profiles.GetByID(profileID)
		if err != nil || profile.Owner != account.ID {
			return apierr.Unauthorized("unauthorized")
		}

		c.Locals(profileKey, profile)
		return c.Next()
	}
}

// AccountFromContext returns the account bound by AuthRequired, or nil.
func AccountFromContext(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals(accountKey).(*models.Account)
	return account
}

// ProfileFromContext returns the acting profile bound by ProfileRequired,
// or nil.
func ProfileFromContext(c *fiber.Ctx) *models.Profile {
	profile, _ := c.Locals(profileKey).(*models.Profile)
	return profile
}
