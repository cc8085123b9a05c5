// Package ledger holds the credit (buy-now-pay-later) rules: how a debt is
// issued, paid down, amended, and when it may still be changed.
//
// Functions here are pure. They take a record by value and return the
// updated copy, so a rejected call leaves the caller's record untouched.
package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
)

const (
	MaxBuyerName = 100
	// EditWindow is how long after creation a record may be edited or deleted.
	EditWindow = 24 * time.Hour
)

var MaxCreditAmount = decimal.NewFromInt(1_000_000)

// Issue opens a new debt against product. The caller assigns the id.
func Issue(buyerName string, product domain.Product, amount decimal.Decimal, at time.Time) (domain.Credit, error) {
	name := domain.Sanitize(buyerName)
	if name == "" || len([]rune(name)) > MaxBuyerName {
		return domain.Credit{}, domain.Invalid("buyerName", "enter a customer name of at most 100 characters")
	}
	if product.ProductID == "" {
		return domain.Credit{}, domain.Invalid("productId", "select a product")
	}
	if !amount.IsPositive() || amount.GreaterThan(MaxCreditAmount) {
		return domain.Credit{}, domain.Invalid("amount", "amount must be between 0 and 1,000,000")
	}
	amount = amount.Round(2)
	return domain.Credit{
		BuyerName:  name,
		ItemID:     product.ProductID,
		ItemName:   product.ProductName,
		Amount:     amount,
		PaidAmount: decimal.Zero,
		Balance:    amount,
		Status:     domain.StatusUnpaid,
		DateTaken:  at.Format(time.RFC3339Nano),
		Payments:   []domain.Payment{},
	}, nil
}

// AddPayment records a payment of amount made at the given instant.
// Payments are accepted at any age while a balance remains.
func AddPayment(c domain.Credit, amount decimal.Decimal, at time.Time) (domain.Credit, error) {
	if !amount.IsPositive() {
		return c, domain.Invalid("amount", "payment must be a positive number")
	}
	amount = amount.Round(2)
	if amount.GreaterThan(c.Balance) {
		return c, domain.Invalid("amount", "payment cannot exceed remaining balance of "+c.Balance.StringFixed(2))
	}
	out := clone(c)
	out.PaidAmount = c.PaidAmount.Add(amount).Round(2)
	out.Balance = c.Amount.Sub(out.PaidAmount).Round(2)
	out.Payments = append(out.Payments, domain.Payment{Amount: amount, Date: at.Format(time.RFC3339Nano)})
	out.Status = Status(out.PaidAmount, out.Balance)
	return out, nil
}

// Amend changes the total owed. Only allowed inside the edit window and
// never below what has already been paid.
func Amend(c domain.Credit, newAmount decimal.Decimal, now time.Time) (domain.Credit, error) {
	if !WithinWindow(c.DateTaken, now) {
		return c, domain.Denied("edit credit", "credits can only be edited within 24 hours of creation")
	}
	if !newAmount.IsPositive() {
		return c, domain.Invalid("amount", "amount must be a positive number")
	}
	newAmount = newAmount.Round(2)
	if newAmount.LessThan(c.PaidAmount) {
		return c, domain.Invalid("amount", "new amount must be at least "+c.PaidAmount.StringFixed(2)+" (already paid)")
	}
	out := clone(c)
	out.Amount = newAmount
	out.Balance = newAmount.Sub(c.PaidAmount).Round(2)
	out.Status = Status(out.PaidAmount, out.Balance)
	return out, nil
}

func CheckDelete(c domain.Credit, now time.Time) error {
	if !WithinWindow(c.DateTaken, now) {
		return domain.Denied("delete credit", "credits can only be deleted within 24 hours of creation")
	}
	return nil
}

// WithinWindow reports whether a record created at raw may still be edited
// at now. The permission is evaluated on every call; an unreadable creation
// date is never editable.
func WithinWindow(raw string, now time.Time) bool {
	created, ok := dates.Instant(raw, now.Location())
	if !ok {
		return false
	}
	return now.Sub(created) < EditWindow
}

func Status(paid, balance decimal.Decimal) string {
	switch {
	case paid.IsZero():
		return domain.StatusUnpaid
	case balance.IsZero():
		return domain.StatusPaid
	default:
		return domain.StatusPartiallyPaid
	}
}

type Totals struct {
	Owed    decimal.Decimal `json:"owed"`
	Paid    decimal.Decimal `json:"paid"`
	Balance decimal.Decimal `json:"balance"`
}

func Total(credits []domain.Credit) Totals {
	t := Totals{Owed: decimal.Zero, Paid: decimal.Zero, Balance: decimal.Zero}
	for _, c := range credits {
		t.Owed = t.Owed.Add(c.Amount)
		t.Paid = t.Paid.Add(c.PaidAmount)
		t.Balance = t.Balance.Add(c.Balance)
	}
	return t
}

// Filter keeps credits whose buyer or item name contains search
// (case-insensitive) and whose dateTaken falls within [from, to]. Zero
// bounds are open.
func Filter(credits []domain.Credit, search string, from, to dates.Day, loc *time.Location) []domain.Credit {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Credit, 0, len(credits))
	for _, c := range credits {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.BuyerName), search) &&
			!strings.Contains(strings.ToLower(c.ItemName), search) {
			continue
		}
		if !InRange(c.DateTaken, from, to, loc) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// InRange reports whether raw falls within [from, to]. With both bounds
// zero every record matches, even one with an unreadable date.
func InRange(raw string, from, to dates.Day, loc *time.Location) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	d, ok := dates.Normalize(raw, loc)
	if !ok {
		return false
	}
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

func clone(c domain.Credit) domain.Credit {
	c.Payments = slices.Clone(c.Payments)
	if c.Payments == nil {
		c.Payments = []domain.Payment{}
	}
	return c
}
