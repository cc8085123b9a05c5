package services_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canteenbooks/internal/domain"
	"canteenbooks/internal/services"
)

func TestProducts_Register(t *testing.T) {
	f := newFixture(t)
	in := services.ProductInput{ProductID: " chapo ", ProductName: "Chapati", ProductCategory: "Food", BuyingPrice: d("10"), SellingPrice: d("20")}
	p, err := f.products.Register(in)
	require.NoError(t, err)
	assert.Equal(t, "CHAPO", p.ProductID)
	assert.Zero(t, p.Stock)

	_, err = f.products.Register(in)
	assert.True(t, domain.IsValidation(err), "duplicate id")

	bad := in
	bad.ProductID = "MILK"
	bad.BuyingPrice = d("-1")
	_, err = f.products.Register(bad)
	assert.True(t, domain.IsValidation(err))

	bad = in
	bad.ProductID = "MILK"
	bad.ProductName = ""
	_, err = f.products.Register(bad)
	assert.True(t, domain.IsValidation(err))

	list, err := f.products.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProducts_RestockBooksExpense(t *testing.T) {
	f := newFixture(t)
	p := f.stocked(t, 10)
	assert.Equal(t, 10, p.Stock)

	ex, err := f.expenses.ForDay(day(2024, 3, 6))
	require.NoError(t, err)
	require.Len(t, ex.Expenses, 1)
	assert.Equal(t, domain.RestockingTypeID, ex.Expenses[0].ExpenseTypeID)
	assert.Equal(t, "1000", ex.Expenses[0].Amount.String())
	assert.True(t, ex.Expenses[0].IsRestocking)

	_, err = f.products.Restock("P", 0)
	assert.True(t, domain.IsValidation(err))
	_, err = f.products.Restock("NOPE", 1)
	assert.True(t, domain.IsNotFound(err))
}

func TestProducts_EditOnlyBeforeTrade(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.Register(services.ProductInput{ProductID: "TEA", ProductName: "Tea", ProductCategory: "Drinks", BuyingPrice: d("5"), SellingPrice: d("10")})
	require.NoError(t, err)

	p, err := f.products.Edit("tea", services.ProductInput{ProductName: "Chai", ProductCategory: "Drinks", BuyingPrice: d("6"), SellingPrice: d("12")})
	require.NoError(t, err)
	assert.Equal(t, "Chai", p.ProductName)

	// prices go through Edit until the product is in trade
	_, err = f.products.UpdatePrices("TEA", d("7"), d("14"))
	assert.True(t, domain.IsPermission(err))

	_, err = f.products.SetStock("TEA", 4)
	require.NoError(t, err)
	_, err = f.products.Edit("TEA", services.ProductInput{ProductName: "Chai", ProductCategory: "Drinks"})
	assert.True(t, domain.IsPermission(err))
}

func TestProducts_UpdatePricesKeepsHistory(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 5)

	p, err := f.products.UpdatePrices("P", d("100"), d("160"))
	require.NoError(t, err)
	assert.Equal(t, "160", p.SellingPrice.String())

	hist, err := f.products.PriceHistory("P")
	require.NoError(t, err)
	require.Len(t, hist, 1, "unchanged buying price is not recorded")
	assert.Equal(t, "sellingPrice", hist[0].Field)
	assert.Equal(t, "150", hist[0].OldValue.String())
	assert.Equal(t, "160", hist[0].NewValue.String())

	// new sales use the updated price
	s, err := f.sales.Record("P", 1)
	require.NoError(t, err)
	assert.Equal(t, "160", s.SellingPrice.String())
}

func TestProducts_SetStockRefusedAfterSale(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 3)
	_, err := f.products.SetStock("P", 10)
	require.NoError(t, err)

	_, err = f.sales.Record("P", 1)
	require.NoError(t, err)
	_, err = f.products.SetStock("P", 10)
	assert.True(t, domain.IsPermission(err))
	_, err = f.products.SetStock("P", -1)
	assert.True(t, domain.IsValidation(err))

	p, err := f.products.Get("P")
	require.NoError(t, err)
	assert.True(t, p.HasSale)
	assert.Equal(t, 9, p.Stock)
}

func TestProducts_Categories(t *testing.T) {
	f := newFixture(t)
	for _, in := range []services.ProductInput{
		{ProductID: "A", ProductName: "A", ProductCategory: "Snacks"},
		{ProductID: "B", ProductName: "B", ProductCategory: "Drinks"},
		{ProductID: "C", ProductName: "C", ProductCategory: "Snacks"},
	} {
		_, err := f.products.Register(in)
		require.NoError(t, err)
	}
	cats, err := f.products.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Drinks", "Snacks"}, cats)
}

func TestProducts_StockIsCapped(t *testing.T) {
	f := newFixture(t)
	f.stocked(t, 5)

	_, err := f.products.Restock("P", math.MaxInt)
	assert.True(t, domain.IsValidation(err))
	_, err = f.products.Restock("P", services.MaxStock)
	assert.True(t, domain.IsValidation(err), "5 + MaxStock overflows the cap")
	_, err = f.products.SetStock("P", services.MaxStock+1)
	assert.True(t, domain.IsValidation(err))

	p, err := f.products.Get("P")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
	ex, err := f.expenses.ForDay(day(2024, 3, 6))
	require.NoError(t, err)
	assert.Len(t, ex.Expenses, 1, "refused restocks book no expense")

	p, err = f.products.Restock("P", services.MaxStock-5)
	require.NoError(t, err)
	assert.Equal(t, services.MaxStock, p.Stock)
}
