package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/report"
	"canteenbooks/internal/repos"
	"canteenbooks/internal/services"
)

type fixture struct {
	now      time.Time
	clk      *clock.Working
	store    *repos.Store
	products *services.ProductService
	sales    *services.SalesService
	credits  *services.CreditService
	mpesa    *services.MpesaService
	expenses *services.ExpenseService
	reports  *services.ReportService
	backup   *services.BackupService
}

// Wednesday 2024-03-06 10:00 UTC
var start = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{now: start, store: repos.NewStore(db)}
	f.clk = clock.NewWorking(time.UTC).WithNow(func() time.Time { return f.now })
	b := services.Book{Store: f.store, Clock: f.clk, WeekStart: time.Sunday}
	cls := report.NewClassifier()
	f.products = services.NewProductService(b)
	f.sales = services.NewSalesService(b)
	f.credits = services.NewCreditService(b)
	f.mpesa = services.NewMpesaService(b)
	f.expenses = services.NewExpenseService(b, cls)
	f.reports = services.NewReportService(b, report.NewAggregator(cls, time.UTC))
	f.backup = services.NewBackupService(f.store)
	return f
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func day(y int, m time.Month, dd int) dates.Day { return dates.Day{Year: y, Month: m, Day: dd} }

// stocked registers P (buy 100, sell 150) and restocks it with qty units.
func (f *fixture) stocked(t *testing.T, qty int) domain.Product {
	t.Helper()
	_, err := f.products.Register(services.ProductInput{
		ProductID: "p", ProductName: "Pilau", ProductCategory: "Food",
		BuyingPrice: d("100"), SellingPrice: d("150"),
	})
	require.NoError(t, err)
	p, err := f.products.Restock("P", qty)
	require.NoError(t, err)
	return p
}
