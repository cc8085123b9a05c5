package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "canteenbooks/internal/log"
	"canteenbooks/internal/services"
	"canteenbooks/internal/validate"
)

type SaleHandler struct {
	Sales *services.SalesService
}

type saleRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// POST /api/v1/sales
func (h *SaleHandler) Record(c *fiber.Ctx) error {
	var in saleRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "sales.record", err)
	}
	s, err := h.Sales.Record(in.ProductID, in.Quantity)
	if err != nil {
		return fail(c, "sales.record", err)
	}
	applog.Audit(c, "sales.record", map[string]any{"sale": s.SaleID, "product": s.ProductID, "qty": s.Quantity})
	return c.Status(fiber.StatusCreated).JSON(s)
}

// DELETE /api/v1/sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	if err := h.Sales.Delete(id); err != nil {
		return fail(c, "sales.delete", err)
	}
	applog.Audit(c, "sales.delete", map[string]any{"sale": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/sales?period=&productId=&category=&from=&to=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, err := dayQuery(c, "from")
	if err != nil {
		return fail(c, "sales.list", err)
	}
	to, err := dayQuery(c, "to")
	if err != nil {
		return fail(c, "sales.list", err)
	}
	f := services.SaleFilter{
		Period:    c.Query("period"),
		ProductID: c.Query("productId"),
		Category:  c.Query("category"),
		From:      from,
		To:        to,
	}
	if f.Period == "" && (!from.IsZero() || !to.IsZero()) {
		f.Period = services.PeriodCustom
	}
	l, err := h.Sales.Filter(f)
	if err != nil {
		return fail(c, "sales.list", err)
	}
	return c.JSON(l)
}
