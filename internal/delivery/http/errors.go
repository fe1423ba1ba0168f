package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cityexplorer/backend/internal/domain"
)

// ErrorHandler renders every failure as {"error": message}.
// Causes are logged, never sent to the client.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var le *domain.LookupError
		var fe *fiber.Error
		switch {
		case errors.As(err, &le):
			code = le.Status
			message = le.Message
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		default:
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
