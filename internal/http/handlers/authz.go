package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	applog "canteenbooks/internal/log"
)

// PINHeader carries the operator PIN on guarded routes.
const PINHeader = "X-Operator-PIN"

// RequireOperator guards routes that rewrite the books wholesale (backup
// import) or move the working date. With no hash configured it lets
// everything through.
func RequireOperator(pinHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if pinHash == "" {
			return c.Next()
		}
		pin := c.Get(PINHeader)
		if pin == "" || bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)) != nil {
			applog.Security(c, "access.denied.operator", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
		return c.Next()
	}
}
