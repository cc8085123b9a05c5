package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "canteenbooks/internal/log"
)

// MaxBodySize caps request bodies, backup imports included.
const MaxBodySize = 4 << 20

type AppOptions struct {
	// RateMax requests per RateWindow per client; zero means 120 a minute.
	RateMax    int
	RateWindow time.Duration
	// Extra middleware run after request ids are assigned (the access log).
	Middleware []fiber.Handler
}

// NewApp builds the fiber app with the JSON api mounted at /api/v1.
func NewApp(d *Deps, opts AppOptions) *fiber.App {
	if opts.RateMax == 0 {
		opts.RateMax = 120
	}
	if opts.RateWindow == 0 {
		opts.RateWindow = time.Minute
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    MaxBodySize,
	})

	app.Use(requestid.New())
	for _, m := range opts.Middleware {
		app.Use(m)
	}
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        opts.RateMax,
		Expiration: opts.RateWindow,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	d.Mount(app.Group("/api/v1"))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})
	return app
}
