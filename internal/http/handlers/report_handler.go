package handlers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/domain"
	applog "canteenbooks/internal/log"
	"canteenbooks/internal/report"
	"canteenbooks/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
	Clock   clock.Clock
}

// GET /api/v1/reports/day?date=
func (h *ReportHandler) Day(c *fiber.Ctx) error {
	d, err := dayQuery(c, "date")
	if err != nil {
		return fail(c, "reports.day", err)
	}
	if d.IsZero() {
		d = h.Clock.Today()
	}
	return h.respond(c, "reports.day", func() (services.Report, error) { return h.Reports.Day(d) })
}

// GET /api/v1/reports/week?weeksAgo=
func (h *ReportHandler) Week(c *fiber.Ctx) error {
	n := 0
	if v := c.Query("weeksAgo"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			return fail(c, "reports.week", domain.Invalid("weeksAgo", "must be a number"))
		}
	}
	return h.respond(c, "reports.week", func() (services.Report, error) { return h.Reports.Week(n) })
}

// GET /api/v1/reports/month?year=&month=
func (h *ReportHandler) Month(c *fiber.Ctx) error {
	year, month, err := yearMonth(c, h.Clock)
	if err != nil {
		return fail(c, "reports.month", err)
	}
	return h.respond(c, "reports.month", func() (services.Report, error) { return h.Reports.Month(year, month) })
}

// GET /api/v1/reports/this-month
func (h *ReportHandler) ThisMonth(c *fiber.Ctx) error {
	return h.respond(c, "reports.this_month", h.Reports.ThisMonth)
}

// GET /api/v1/reports/this-year
func (h *ReportHandler) ThisYear(c *fiber.Ctx) error {
	return h.respond(c, "reports.this_year", h.Reports.ThisYear)
}

// GET /api/v1/reports/range?from=&to=
func (h *ReportHandler) Range(c *fiber.Ctx) error {
	from, err := dayQuery(c, "from")
	if err != nil {
		return fail(c, "reports.range", err)
	}
	to, err := dayQuery(c, "to")
	if err != nil {
		return fail(c, "reports.range", err)
	}
	return h.respond(c, "reports.range", func() (services.Report, error) { return h.Reports.Range(from, to) })
}

// respond builds the report and writes it in the requested format:
// ?format=csv or ?format=xlsx download a file, anything else is JSON.
func (h *ReportHandler) respond(c *fiber.Ctx, action string, build func() (services.Report, error)) error {
	rep, err := build()
	if err != nil {
		return fail(c, action, err)
	}
	format := c.Query("format")
	switch format {
	case "", "json":
		return c.JSON(rep)
	case "csv", "xlsx":
	default:
		return fail(c, action, domain.Invalid("format", "use json, csv or xlsx"))
	}

	var buf bytes.Buffer
	name := fmt.Sprintf("report_%s_%s.%s", rep.From, rep.To, format)
	if format == "csv" {
		err = report.WriteCSV(&buf, rep.Days)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	} else {
		err = report.WriteXLSX(&buf, rep.Title, rep.Days)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	if err != nil {
		return fail(c, action+".export", err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	applog.Info(c, action+".export", map[string]any{"format": format, "days": len(rep.Days)})
	return c.Send(buf.Bytes())
}
