package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "canteenbooks/internal/log"
	"canteenbooks/internal/services"
	"canteenbooks/internal/validate"
)

type MpesaHandler struct {
	Mpesa *services.MpesaService
}

// GET /api/v1/mpesa?search=&from=&to=
func (h *MpesaHandler) List(c *fiber.Ctx) error {
	from, err := dayQuery(c, "from")
	if err != nil {
		return fail(c, "mpesa.list", err)
	}
	to, err := dayQuery(c, "to")
	if err != nil {
		return fail(c, "mpesa.list", err)
	}
	search := ""
	if q := c.Query("search"); q != "" {
		s, ok := validate.Q(q)
		if !ok {
			return badRequest(c, "invalid search")
		}
		search = s
	}
	l, err := h.Mpesa.Filter(search, from, to)
	if err != nil {
		return fail(c, "mpesa.list", err)
	}
	return c.JSON(l)
}

// GET /api/v1/mpesa/clients
func (h *MpesaHandler) Clients(c *fiber.Ctx) error {
	names, err := h.Mpesa.Clients()
	if err != nil {
		return fail(c, "mpesa.clients", err)
	}
	return c.JSON(fiber.Map{"clients": names})
}

// POST /api/v1/mpesa
func (h *MpesaHandler) Record(c *fiber.Ctx) error {
	var in services.MpesaInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, "mpesa.record", err)
	}
	p, err := h.Mpesa.Record(in)
	if err != nil {
		return fail(c, "mpesa.record", err)
	}
	applog.Audit(c, "mpesa.record", map[string]any{"payment": p.ID, "type": p.Type, "amount": p.Amount.String()})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/mpesa/:id
func (h *MpesaHandler) Edit(c *fiber.Ctx) error {
	var in services.MpesaInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, "mpesa.edit", err)
	}
	p, err := h.Mpesa.Edit(c.Params("id"), in)
	if err != nil {
		return fail(c, "mpesa.edit", err)
	}
	applog.Audit(c, "mpesa.edit", map[string]any{"payment": p.ID})
	return c.JSON(p)
}

// DELETE /api/v1/mpesa/:id
func (h *MpesaHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Mpesa.Delete(id); err != nil {
		return fail(c, "mpesa.delete", err)
	}
	applog.Audit(c, "mpesa.delete", map[string]any{"payment": id})
	return c.SendStatus(fiber.StatusNoContent)
}
