package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"contacts-service/internal/apperr"
)

// ErrorHandler is the single place domain failures become HTTP responses:
// every error is serialized as {"message": ...} with its taxonomy status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Code).JSON(fiber.Map{"message": appErr.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	slog.ErrorContext(c.UserContext(), "Unhandled error", "path", c.Path(), "error", err)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
}
