package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/domain"
	applog "canteenbooks/internal/log"
	"canteenbooks/internal/services"
)

type ExpenseHandler struct {
	Expenses *services.ExpenseService
	Clock    clock.Clock
}

type expenseTypeRequest struct {
	TypeID string `json:"typeId" validate:"required,max=30"`
	Label  string `json:"label" validate:"required,max=100"`
}

// GET /api/v1/expense-types
func (h *ExpenseHandler) Types(c *fiber.Ctx) error {
	ts, err := h.Expenses.Types()
	if err != nil {
		return fail(c, "expenses.types", err)
	}
	return c.JSON(fiber.Map{"expenseTypes": ts})
}

// POST /api/v1/expense-types
func (h *ExpenseHandler) RegisterType(c *fiber.Ctx) error {
	var in expenseTypeRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "expenses.types.register", err)
	}
	et, err := h.Expenses.RegisterType(in.TypeID, in.Label)
	if err != nil {
		return fail(c, "expenses.types.register", err)
	}
	applog.Audit(c, "expenses.types.register", map[string]any{"type": et.TypeID})
	return c.Status(fiber.StatusCreated).JSON(et)
}

// POST /api/v1/expenses
func (h *ExpenseHandler) Add(c *fiber.Ctx) error {
	var in services.ExpenseInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, "expenses.add", err)
	}
	e, err := h.Expenses.Add(in)
	if err != nil {
		return fail(c, "expenses.add", err)
	}
	applog.Audit(c, "expenses.add", map[string]any{"expense": e.ID, "type": e.ExpenseTypeID, "amount": e.Amount.String()})
	return c.Status(fiber.StatusCreated).JSON(e)
}

// GET /api/v1/expenses?date=YYYY-MM-DD (defaults to the working day)
func (h *ExpenseHandler) ForDay(c *fiber.Ctx) error {
	d, err := dayQuery(c, "date")
	if err != nil {
		return fail(c, "expenses.day", err)
	}
	if d.IsZero() {
		d = h.Clock.Today()
	}
	l, err := h.Expenses.ForDay(d)
	if err != nil {
		return fail(c, "expenses.day", err)
	}
	return c.JSON(fiber.Map{"date": d, "expenses": l.Expenses, "total": l.Total})
}

// GET /api/v1/expenses/history?year=&month=
func (h *ExpenseHandler) History(c *fiber.Ctx) error {
	year, month, err := yearMonth(c, h.Clock)
	if err != nil {
		return fail(c, "expenses.history", err)
	}
	l, err := h.Expenses.History(year, month)
	if err != nil {
		return fail(c, "expenses.history", err)
	}
	return c.JSON(l)
}

// yearMonth reads year and month query params, defaulting to the working
// month.
func yearMonth(c *fiber.Ctx, clk clock.Clock) (int, time.Month, error) {
	today := clk.Today()
	year, month := today.Year, today.Month
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, domain.Invalid("year", "must be a number")
		}
		year = n
	}
	if v := c.Query("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, domain.Invalid("month", "must be a number")
		}
		month = time.Month(n)
	}
	return year, month, nil
}
