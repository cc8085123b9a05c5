package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	applog "canteenbooks/internal/log"
	"canteenbooks/internal/validate"
)

// fail maps a service error to a status and a body safe to show the
// operator. Unknown errors are logged and reported without details.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case domain.IsValidation(err):
		var ve *domain.ValidationError
		errors.As(err, &ve)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error(), "field": ve.Field})
	case domain.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case domain.IsPermission(err):
		applog.Security(c, action+".denied", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	}
}

// ErrorHandler is the app-wide fallback for errors no handler mapped.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		return c.Status(code).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	}
	return c.Status(code).JSON(fiber.Map{"error": fe.Message})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// dayQuery reads an optional YYYY-MM-DD query parameter.
func dayQuery(c *fiber.Ctx, key string) (dates.Day, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return dates.Day{}, nil
	}
	d, err := dates.Parse(raw)
	if err != nil {
		return dates.Day{}, domain.Invalid(key, "use YYYY-MM-DD")
	}
	return d, nil
}

// parseBody decodes JSON into v and runs its validate tags.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return domain.Invalid("body", "request body must be JSON")
	}
	return validate.Struct(v)
}
