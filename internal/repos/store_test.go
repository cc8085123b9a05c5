package repos

import (
	"math"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canteenbooks/internal/domain"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore_EmptyCollections(t *testing.T) {
	s := NewStore(memdb(t))
	ps, err := s.Products()
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)

	raw, err := s.Raw(Credits)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStore_SaveIsLossless(t *testing.T) {
	s := NewStore(memdb(t))
	credits := []domain.Credit{{
		ID: "C1", BuyerName: "Achieng", ItemID: "TEA", ItemName: "Tea",
		Amount: decimal.RequireFromString("120.50"), PaidAmount: decimal.RequireFromString("20"),
		Balance: decimal.RequireFromString("100.50"), Status: domain.StatusPartiallyPaid,
		DateTaken: "2024-03-05T08:00:00Z",
		Payments:  []domain.Payment{{Amount: decimal.RequireFromString("20"), Date: "2024-03-05T12:00:00Z"}},
	}}
	products := []domain.Product{{
		ProductID: "TEA", ProductName: "Tea", BuyingPrice: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(20),
		PriceHistory: []domain.PriceChange{{Field: "sellingPrice", OldValue: decimal.NewFromInt(15), NewValue: decimal.NewFromInt(20), ChangedAt: "2024-03-01T09:00:00Z"}},
	}}
	require.NoError(t, s.Save(Put(Credits, credits), Put(Products, products)))

	got, err := s.Credits()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100.5", got[0].Balance.String())
	require.Len(t, got[0].Payments, 1)
	assert.Equal(t, "2024-03-05T12:00:00Z", got[0].Payments[0].Date)

	ps, err := s.Products()
	require.NoError(t, err)
	require.Len(t, ps[0].PriceHistory, 1)
	assert.Equal(t, "15", ps[0].PriceHistory[0].OldValue.String())

	// overwrite replaces the whole collection
	require.NoError(t, s.Save(Put(Credits, []domain.Credit{})))
	got, err = s.Credits()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SaveIsAllOrNothing(t *testing.T) {
	s := NewStore(memdb(t))
	require.NoError(t, s.Save(Put(Sales, []domain.Sale{{SaleID: "S1"}})))

	bad := Put(Products, map[string]float64{"x": math.Inf(1)})
	err := s.Save(Put(Sales, []domain.Sale{}), bad)
	require.Error(t, err)

	sales, err := s.Sales()
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestStore_LegacyNumericIDs(t *testing.T) {
	db := memdb(t)
	s := NewStore(db)
	db.MustExec(`INSERT INTO collections(name, body) VALUES('mpesaPayments', '[{"id":1709625600000,"name":"Juma","amount":50,"type":"Sale","isCreditPayment":false,"date":"2024-03-05"}]')`)
	mp, err := s.MpesaPayments()
	require.NoError(t, err)
	require.Len(t, mp, 1)
	assert.Equal(t, domain.ID("1709625600000"), mp[0].ID)
	assert.Equal(t, "50", mp[0].Amount.String())
}

func TestStore_WithLockSerializes(t *testing.T) {
	s := NewStore(memdb(t))
	require.NoError(t, s.Save(Put(Sales, []domain.Sale{})))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithLock(func() error {
				sales, err := s.Sales()
				if err != nil {
					return err
				}
				sales = append(sales, domain.Sale{SaleID: "S"})
				return s.Save(Put(Sales, sales))
			})
		}()
	}
	wg.Wait()

	sales, err := s.Sales()
	require.NoError(t, err)
	assert.Len(t, sales, 20)
}

func TestDriverFor(t *testing.T) {
	d, conn, err := driverFor("mysql://root:pw@tcp(localhost:3306)/books")
	require.NoError(t, err)
	assert.Equal(t, dialectMySQL, d)
	assert.Contains(t, conn, "tcp(localhost:3306)/books")

	d, _, err = driverFor("postgres://app@db/books")
	require.NoError(t, err)
	assert.Equal(t, dialectPostgres, d)

	d, conn, err = driverFor("books.db")
	require.NoError(t, err)
	assert.Equal(t, dialectSQLite, d)
	assert.Equal(t, "books.db", conn)

	_, _, err = driverFor("mysql://no-slash")
	assert.Error(t, err)
}
