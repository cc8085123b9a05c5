package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "canteenbooks/internal/log"
	"canteenbooks/internal/services"
	"canteenbooks/internal/validate"
)

type CreditHandler struct {
	Credits *services.CreditService
}

type creditRequest struct {
	BuyerName string          `json:"buyerName" validate:"required,max=100"`
	ProductID string          `json:"productId" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GET /api/v1/credits?search=&from=&to=
func (h *CreditHandler) List(c *fiber.Ctx) error {
	from, err := dayQuery(c, "from")
	if err != nil {
		return fail(c, "credits.list", err)
	}
	to, err := dayQuery(c, "to")
	if err != nil {
		return fail(c, "credits.list", err)
	}
	search := ""
	if q := c.Query("search"); q != "" {
		s, ok := validate.Q(q)
		if !ok {
			return badRequest(c, "invalid search")
		}
		search = s
	}
	l, err := h.Credits.Filter(search, from, to)
	if err != nil {
		return fail(c, "credits.list", err)
	}
	all, err := h.Credits.Totals()
	if err != nil {
		return fail(c, "credits.list", err)
	}
	return c.JSON(fiber.Map{"credits": l.Credits, "totals": l.Totals, "ledgerTotals": all})
}

// POST /api/v1/credits
func (h *CreditHandler) Issue(c *fiber.Ctx) error {
	var in creditRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "credits.issue", err)
	}
	cr, err := h.Credits.Issue(in.BuyerName, in.ProductID, in.Amount)
	if err != nil {
		return fail(c, "credits.issue", err)
	}
	applog.Audit(c, "credits.issue", map[string]any{"credit": cr.ID, "amount": cr.Amount.String()})
	return c.Status(fiber.StatusCreated).JSON(cr)
}

// POST /api/v1/credits/:id/payments
func (h *CreditHandler) Pay(c *fiber.Ctx) error {
	var in amountRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "credits.pay", err)
	}
	cr, err := h.Credits.AddPayment(c.Params("id"), in.Amount)
	if err != nil {
		return fail(c, "credits.pay", err)
	}
	applog.Audit(c, "credits.pay", map[string]any{"credit": cr.ID, "amount": in.Amount.String(), "balance": cr.Balance.String()})
	return c.JSON(cr)
}

// PUT /api/v1/credits/:id
func (h *CreditHandler) Edit(c *fiber.Ctx) error {
	var in amountRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "credits.edit", err)
	}
	cr, err := h.Credits.Edit(c.Params("id"), in.Amount)
	if err != nil {
		return fail(c, "credits.edit", err)
	}
	applog.Audit(c, "credits.edit", map[string]any{"credit": cr.ID, "amount": cr.Amount.String()})
	return c.JSON(cr)
}

// DELETE /api/v1/credits/:id
func (h *CreditHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Credits.Delete(id); err != nil {
		return fail(c, "credits.delete", err)
	}
	applog.Audit(c, "credits.delete", map[string]any{"credit": id})
	return c.SendStatus(fiber.StatusNoContent)
}
