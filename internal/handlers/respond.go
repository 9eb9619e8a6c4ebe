package handlers

import "github.com/gofiber/fiber/v2"

// success writes the uniform success envelope. The error envelope is
// produced centrally by apierr.ErrorHandler.
func success(c *fiber.Ctx, status int, data fiber.Map) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
