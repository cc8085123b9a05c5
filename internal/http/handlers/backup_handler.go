package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"canteenbooks/internal/clock"
	applog "canteenbooks/internal/log"
	"canteenbooks/internal/services"
)

type BackupHandler struct {
	Backup *services.BackupService
	Clock  clock.Clock
}

// GET /api/v1/backup
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	body, err := h.Backup.ExportJSON()
	if err != nil {
		return fail(c, "backup.export", err)
	}
	name := fmt.Sprintf("canteen_backup_%s.json", h.Clock.Today())
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	applog.Audit(c, "backup.export", map[string]any{"bytes": len(body)})
	return c.Send(body)
}

// POST /api/v1/backup (operator only)
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	res, err := h.Backup.Import(c.Body())
	if err != nil {
		return fail(c, "backup.import", err)
	}
	applog.Audit(c, "backup.import", map[string]any{"counts": res.Counts})
	return c.JSON(res)
}
