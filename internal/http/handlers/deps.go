package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/config"
	"canteenbooks/internal/report"
	"canteenbooks/internal/repos"
	"canteenbooks/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	SaleHandler    *SaleHandler
	CreditHandler  *CreditHandler
	MpesaHandler   *MpesaHandler
	ExpenseHandler *ExpenseHandler
	ReportHandler  *ReportHandler
	BackupHandler  *BackupHandler
	ClockHandler   *ClockHandler

	operatorPINHash string
}

func NewDeps(db *sqlx.DB, cfg config.Config, clk *clock.Working) *Deps {
	store := repos.NewStore(db)
	book := services.Book{Store: store, Clock: clk, WeekStart: cfg.WeekStart}
	cls := report.NewClassifier(cfg.RestockingTypes...)
	agg := report.NewAggregator(cls, cfg.Location)

	return &Deps{
		ProductHandler: &ProductHandler{Products: services.NewProductService(book)},
		SaleHandler:    &SaleHandler{Sales: services.NewSalesService(book)},
		CreditHandler:  &CreditHandler{Credits: services.NewCreditService(book)},
		MpesaHandler:   &MpesaHandler{Mpesa: services.NewMpesaService(book)},
		ExpenseHandler: &ExpenseHandler{Expenses: services.NewExpenseService(book, cls), Clock: clk},
		ReportHandler:  &ReportHandler{Reports: services.NewReportService(book, agg), Clock: clk},
		BackupHandler:  &BackupHandler{Backup: services.NewBackupService(store), Clock: clk},
		ClockHandler:   &ClockHandler{Clock: clk},

		operatorPINHash: cfg.OperatorPINHash,
	}
}

// Mount registers every JSON route under r.
func (d *Deps) Mount(r fiber.Router) {
	operator := RequireOperator(d.operatorPINHash)

	p := d.ProductHandler
	r.Get("/products", p.List)
	r.Post("/products", p.Register)
	r.Get("/products/:id", p.Get)
	r.Put("/products/:id", p.Edit)
	r.Put("/products/:id/prices", p.UpdatePrices)
	r.Get("/products/:id/price-history", p.PriceHistory)
	r.Post("/products/:id/restock", p.Restock)
	r.Put("/products/:id/stock", p.SetStock)
	r.Get("/categories", p.Categories)

	s := d.SaleHandler
	r.Get("/sales", s.List)
	r.Post("/sales", s.Record)
	r.Delete("/sales/:id", s.Delete)

	cr := d.CreditHandler
	r.Get("/credits", cr.List)
	r.Post("/credits", cr.Issue)
	r.Put("/credits/:id", cr.Edit)
	r.Delete("/credits/:id", cr.Delete)
	r.Post("/credits/:id/payments", cr.Pay)

	m := d.MpesaHandler
	r.Get("/mpesa", m.List)
	r.Get("/mpesa/clients", m.Clients)
	r.Post("/mpesa", m.Record)
	r.Put("/mpesa/:id", m.Edit)
	r.Delete("/mpesa/:id", m.Delete)

	e := d.ExpenseHandler
	r.Get("/expense-types", e.Types)
	r.Post("/expense-types", e.RegisterType)
	r.Get("/expenses", e.ForDay)
	r.Post("/expenses", e.Add)
	r.Get("/expenses/history", e.History)

	rep := d.ReportHandler
	r.Get("/reports/day", rep.Day)
	r.Get("/reports/week", rep.Week)
	r.Get("/reports/month", rep.Month)
	r.Get("/reports/this-month", rep.ThisMonth)
	r.Get("/reports/this-year", rep.ThisYear)
	r.Get("/reports/range", rep.Range)

	r.Get("/backup", d.BackupHandler.Export)
	r.Post("/backup", operator, d.BackupHandler.Import)

	r.Get("/working-date", d.ClockHandler.Get)
	r.Put("/working-date", operator, d.ClockHandler.Set)
	r.Delete("/working-date", operator, d.ClockHandler.Reset)
}
