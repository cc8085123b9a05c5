package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canteenbooks/internal/domain"
	"canteenbooks/internal/services"
)

func TestSales_RecordAndDayReport(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 10)

	s, err := f.sales.Record("p", 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", s.Date)
	assert.Equal(t, "450", s.TotalSellingPrice.String())
	assert.Equal(t, "300", s.TotalBuyingPrice.String())
	assert.Equal(t, "150", s.Profit.String())
	assert.Equal(t, byte('S'), s.SaleID[0])

	p, err := f.products.Get("P")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	r, err := f.reports.Day(day(2024, 3, 6))
	require.NoError(t, err)
	require.Len(t, r.Days, 1)
	assert.Equal(t, "450", r.Days[0].SalesTotal.String())
	assert.Equal(t, "300", r.Days[0].BuyingTotal.String())
	assert.Equal(t, "150", r.Days[0].GrossProfit.String())
}

func TestSales_RecordRejects(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 2)

	_, err := f.sales.Record("P", 3)
	assert.True(t, domain.IsValidation(err))
	_, err = f.sales.Record("P", 0)
	assert.True(t, domain.IsValidation(err))
	_, err = f.sales.Record("X", 1)
	assert.True(t, domain.IsNotFound(err))

	p, err := f.products.Get("P")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestSales_DeleteWindow(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 10)
	s, err := f.sales.Record("P", 4)
	require.NoError(t, err)

	f.now = f.now.Add(25 * time.Hour)
	err = f.sales.Delete(s.SaleID)
	assert.True(t, domain.IsPermission(err))
	p, _ := f.products.Get("P")
	assert.Equal(t, 6, p.Stock, "stock unchanged after refused delete")

	f.now = start.Add(time.Hour)
	require.NoError(t, f.sales.Delete(s.SaleID))
	p, _ = f.products.Get("P")
	assert.Equal(t, 10, p.Stock)
	assert.False(t, p.HasSale)

	assert.True(t, domain.IsNotFound(f.sales.Delete(s.SaleID)))
}

func TestSales_WorkingDate(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 10)
	f.clk.Set(day(2024, 3, 1))

	s, err := f.sales.Record("P", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", s.Date)

	// still deletable: the window runs from when it was recorded
	require.NoError(t, f.sales.Delete(s.SaleID))
}

func TestSales_Filter(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 20)
	_, err := f.products.Register(services.ProductInput{ProductID: "SODA", ProductName: "Soda", ProductCategory: "Drinks", BuyingPrice: d("40"), SellingPrice: d("60")})
	require.NoError(t, err)
	_, err = f.products.Restock("SODA", 10)
	require.NoError(t, err)

	record := func(on time.Time, id string, qty int) {
		f.clk.Set(day(on.Year(), on.Month(), on.Day()))
		f.now = f.now.Add(time.Minute)
		_, err := f.sales.Record(id, qty)
		require.NoError(t, err)
	}
	record(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), "P", 1) // last month
	record(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "P", 2)  // this month, last week
	record(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), "SODA", 3)
	record(start, "P", 4)
	f.clk.Reset()

	cases := map[string]struct {
		filter services.SaleFilter
		qty    int
	}{
		"all":        {services.SaleFilter{}, 10},
		"today":      {services.SaleFilter{Period: services.PeriodToday}, 4},
		"this week":  {services.SaleFilter{Period: services.PeriodThisWeek}, 7},
		"this month": {services.SaleFilter{Period: services.PeriodThisMonth}, 9},
		"custom":     {services.SaleFilter{Period: services.PeriodCustom, From: day(2024, 2, 1), To: day(2024, 3, 2)}, 3},
		"product":    {services.SaleFilter{ProductID: "soda"}, 3},
		"category":   {services.SaleFilter{Category: "Food"}, 7},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			l, err := f.sales.Filter(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.qty, l.TotalQuantity)
		})
	}

	l, err := f.sales.Filter(services.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", l.Sales[0].Date, "newest first")

	_, err = f.sales.Filter(services.SaleFilter{Period: services.PeriodCustom})
	assert.True(t, domain.IsValidation(err))
	_, err = f.sales.Filter(services.SaleFilter{Period: "fortnight"})
	assert.True(t, domain.IsValidation(err))

	today, err := f.sales.ForDay(day(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, "180", today.TotalSales.String())
}
