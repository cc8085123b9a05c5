package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "canteenbooks/internal/log"
	"canteenbooks/internal/services"
	"canteenbooks/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Products.List()
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(fiber.Map{"products": ps})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	p, err := h.Products.Get(id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(p)
}

// GET /api/v1/products/:id/price-history
func (h *ProductHandler) PriceHistory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	hist, err := h.Products.PriceHistory(id)
	if err != nil {
		return fail(c, "products.history", err)
	}
	return c.JSON(fiber.Map{"productId": id, "priceHistory": hist})
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Products.Categories()
	if err != nil {
		return fail(c, "products.categories", err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// POST /api/v1/products
func (h *ProductHandler) Register(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, "products.register", err)
	}
	p, err := h.Products.Register(in)
	if err != nil {
		return fail(c, "products.register", err)
	}
	applog.Audit(c, "products.register", map[string]any{"product": p.ProductID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := parseBody(c, &in); err != nil {
		return fail(c, "products.edit", err)
	}
	p, err := h.Products.Edit(c.Params("id"), in)
	if err != nil {
		return fail(c, "products.edit", err)
	}
	applog.Audit(c, "products.edit", map[string]any{"product": p.ProductID})
	return c.JSON(p)
}

type priceRequest struct {
	BuyingPrice  decimal.Decimal `json:"buyingPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// PUT /api/v1/products/:id/prices
func (h *ProductHandler) UpdatePrices(c *fiber.Ctx) error {
	var in priceRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "products.prices", err)
	}
	p, err := h.Products.UpdatePrices(c.Params("id"), in.BuyingPrice, in.SellingPrice)
	if err != nil {
		return fail(c, "products.prices", err)
	}
	applog.Audit(c, "products.prices", map[string]any{"product": p.ProductID, "buying": in.BuyingPrice.String(), "selling": in.SellingPrice.String()})
	return c.JSON(p)
}

type qtyRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// POST /api/v1/products/:id/restock
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	var in qtyRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "products.restock", err)
	}
	p, err := h.Products.Restock(c.Params("id"), in.Quantity)
	if err != nil {
		return fail(c, "products.restock", err)
	}
	applog.Audit(c, "products.restock", map[string]any{"product": p.ProductID, "qty": in.Quantity, "stock": p.Stock})
	return c.JSON(p)
}

// PUT /api/v1/products/:id/stock
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	var in qtyRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, "products.stock", err)
	}
	p, err := h.Products.SetStock(c.Params("id"), in.Quantity)
	if err != nil {
		return fail(c, "products.stock", err)
	}
	applog.Audit(c, "products.stock", map[string]any{"product": p.ProductID, "stock": p.Stock})
	return c.JSON(p)
}
