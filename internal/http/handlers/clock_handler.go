package handlers

import (
	"github.com/gofiber/fiber/v2"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	applog "canteenbooks/internal/log"
)

type ClockHandler struct {
	Clock *clock.Working
}

type workingDate struct {
	Date   dates.Day `json:"date"`
	Pinned bool      `json:"pinned"`
}

func (h *ClockHandler) current() workingDate {
	return workingDate{Date: h.Clock.Today(), Pinned: h.Clock.Pinned()}
}

// GET /api/v1/working-date
func (h *ClockHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.current())
}

type setDateRequest struct {
	Date string `json:"date" validate:"required"`
}

// PUT /api/v1/working-date (operator only)
func (h *ClockHandler) Set(c *fiber.Ctx) error {
	var in setDateRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "working_date.set", err)
	}
	d, err := dates.Parse(in.Date)
	if err != nil {
		return fail(c, "working_date.set", domain.Invalid("date", "use YYYY-MM-DD"))
	}
	h.Clock.Set(d)
	applog.Audit(c, "working_date.set", map[string]any{"date": d.String()})
	return c.JSON(h.current())
}

// DELETE /api/v1/working-date (operator only)
func (h *ClockHandler) Reset(c *fiber.Ctx) error {
	h.Clock.Reset()
	applog.Audit(c, "working_date.reset", nil)
	return c.JSON(h.current())
}
