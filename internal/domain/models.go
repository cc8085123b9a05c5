package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored collections keep amounts as plain JSON numbers, the way older
	// backups wrote them.
	decimal.MarshalJSONWithoutQuotes = true
}

// ID is a record identifier. Older backups wrote some ids as JSON numbers,
// so decoding accepts both numbers and strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type PriceChange struct {
	Field     string          `json:"field"` // buyingPrice | sellingPrice
	OldValue  decimal.Decimal `json:"oldValue"`
	NewValue  decimal.Decimal `json:"newValue"`
	ChangedAt string          `json:"changedAt"`
}

type Product struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	BuyingPrice     decimal.Decimal `json:"buyingPrice"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	Stock           int             `json:"stock"`
	// HasSale is persisted for older readers only; permission checks derive
	// it from the sales collection.
	HasSale      bool          `json:"hasSale"`
	PriceHistory []PriceChange `json:"priceHistory,omitempty"`
}

type Sale struct {
	SaleID            string          `json:"saleId"`
	ProductID         string          `json:"productId"`
	ProductName       string          `json:"productName"`
	ProductCategory   string          `json:"productCategory"`
	Quantity          int             `json:"quantity"`
	BuyingPrice       decimal.Decimal `json:"buyingPrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	TotalBuyingPrice  decimal.Decimal `json:"totalBuyingPrice"`
	TotalSellingPrice decimal.Decimal `json:"totalSellingPrice"`
	Profit            decimal.Decimal `json:"profit"`
	Date              string          `json:"date"`      // YYYY-MM-DD
	Timestamp         int64           `json:"timestamp"` // epoch ms
}

// Credit statuses.
const (
	StatusUnpaid        = "Unpaid"
	StatusPartiallyPaid = "Partially Paid"
	StatusPaid          = "Paid"
)

type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

type Credit struct {
	ID         ID              `json:"id"`
	BuyerName  string          `json:"buyerName"`
	ItemID     string          `json:"itemId"`
	ItemName   string          `json:"itemName"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	DateTaken  string          `json:"dateTaken"`
	Payments   []Payment       `json:"payments"`
}

// Mpesa payment types.
const (
	MpesaSale          = "Sale"
	MpesaCreditPayment = "Credit Payment"
)

type MpesaPayment struct {
	ID              ID              `json:"id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	IsCreditPayment bool            `json:"isCreditPayment"`
	Date            string          `json:"date"`
}

type DailyExpense struct {
	ID            ID              `json:"id"`
	Date          string          `json:"date"`
	ExpenseTypeID string          `json:"expenseTypeId"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
}

type ExpenseType struct {
	TypeID string `json:"typeId"`
	Label  string `json:"label"`
}

// RestockingTypeID tags the expense recorded by a restock.
const RestockingTypeID = "RESTOCKING"

// Snapshot is the whole book: every collection, as exported for backup.
type Snapshot struct {
	Products      []Product      `json:"products"`
	Sales         []Sale         `json:"sales"`
	Credits       []Credit       `json:"credits"`
	MpesaPayments []MpesaPayment `json:"mpesaPayments"`
	DailyExpenses []DailyExpense `json:"dailyExpenses"`
	ExpenseTypes  []ExpenseType  `json:"expenseTypes"`
}

// Sanitize escapes angle brackets in free text before it is stored.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
