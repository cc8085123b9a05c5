// Package report folds sales, expenses, credits and mpesa payments into
// per-day financial summaries and rolls those up into period totals.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	applog "canteenbooks/internal/log"
)

type Sources struct {
	Sales         []domain.Sale
	Expenses      []domain.DailyExpense
	Credits       []domain.Credit
	MpesaPayments []domain.MpesaPayment
}

type DaySummary struct {
	Date                dates.Day       `json:"date"`
	SalesTotal          decimal.Decimal `json:"salesTotal"`
	BuyingTotal         decimal.Decimal `json:"buyingTotal"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	RestockingExpense   decimal.Decimal `json:"restockingExpense"`
	RegularExpenses     decimal.Decimal `json:"regularExpenses"`
	ExpensesTotal       decimal.Decimal `json:"expensesTotal"`
	MpesaSales          decimal.Decimal `json:"mpesaSales"`
	MpesaCreditPayments decimal.Decimal `json:"mpesaCreditPayments"`
	CreditIssued        decimal.Decimal `json:"creditIssued"`
	CreditPayments      decimal.Decimal `json:"creditPayments"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	CashSales           decimal.Decimal `json:"cashSales"`
	CashCreditPayments  decimal.Decimal `json:"cashCreditPayments"`
	CashAtHand          decimal.Decimal `json:"cashAtHand"`
}

func (d DaySummary) hasData() bool {
	return !d.SalesTotal.IsZero() ||
		!d.ExpensesTotal.IsZero() ||
		!d.MpesaSales.IsZero() ||
		!d.CreditIssued.IsZero() ||
		!d.CreditPayments.IsZero() ||
		!d.MpesaCreditPayments.IsZero()
}

// finish derives the computed figures from the summed ones.
func (d *DaySummary) finish() {
	d.RegularExpenses = d.ExpensesTotal.Sub(d.RestockingExpense)
	d.NetProfit = d.GrossProfit.Sub(d.RegularExpenses)
	d.CashSales = d.SalesTotal.Sub(d.MpesaSales)
	d.CashCreditPayments = d.CreditPayments.Sub(d.MpesaCreditPayments)
	d.CashAtHand = d.SalesTotal.
		Sub(d.RegularExpenses).
		Sub(d.RestockingExpense).
		Sub(d.MpesaSales).
		Sub(d.CreditIssued).
		Add(d.CreditPayments).
		Sub(d.MpesaCreditPayments)
}

type Aggregator struct {
	Classifier Classifier
	Loc        *time.Location
}

func NewAggregator(c Classifier, loc *time.Location) Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return Aggregator{Classifier: c, Loc: loc}
}

// Aggregate returns one summary per day in days that saw any activity, in
// the order given. Records whose date cannot be read are left out and
// logged.
func (a Aggregator) Aggregate(days []dates.Day, src Sources) []DaySummary {
	loc := a.Loc
	if loc == nil {
		loc = time.Local
	}
	byDay := make(map[dates.Day]*DaySummary, len(days))
	for _, d := range days {
		byDay[d] = &DaySummary{Date: d}
	}
	bucket := func(kind string, id any, raw string) *DaySummary {
		d, ok := dates.Normalize(raw, loc)
		if !ok {
			applog.Warn("report.date.unparsable", map[string]any{"kind": kind, "id": id, "date": raw})
			return nil
		}
		return byDay[d]
	}

	for _, s := range src.Sales {
		if b := bucket("sale", s.SaleID, s.Date); b != nil {
			b.SalesTotal = b.SalesTotal.Add(s.TotalSellingPrice)
			b.BuyingTotal = b.BuyingTotal.Add(s.TotalBuyingPrice)
			b.GrossProfit = b.GrossProfit.Add(s.Profit)
		}
	}
	for _, e := range src.Expenses {
		if b := bucket("expense", e.ID, e.Date); b != nil {
			b.ExpensesTotal = b.ExpensesTotal.Add(e.Amount)
			if a.Classifier.Classify(e).IsRestocking {
				b.RestockingExpense = b.RestockingExpense.Add(e.Amount)
			}
		}
	}
	for _, m := range src.MpesaPayments {
		if b := bucket("mpesa", m.ID, m.Date); b != nil {
			if m.IsCreditPayment {
				b.MpesaCreditPayments = b.MpesaCreditPayments.Add(m.Amount)
			} else {
				b.MpesaSales = b.MpesaSales.Add(m.Amount)
			}
		}
	}
	for _, c := range src.Credits {
		if b := bucket("credit", c.ID, c.DateTaken); b != nil {
			b.CreditIssued = b.CreditIssued.Add(c.Amount)
		}
		// a payment counts on the day it was made, whatever the issue date
		for _, p := range c.Payments {
			if b := bucket("credit.payment", c.ID, p.Date); b != nil {
				b.CreditPayments = b.CreditPayments.Add(p.Amount)
			}
		}
	}

	out := make([]DaySummary, 0, len(days))
	for _, d := range days {
		s := byDay[d]
		s.finish()
		if s.hasData() {
			out = append(out, *s)
		}
	}
	return out
}

type Totals struct {
	SalesTotal          decimal.Decimal `json:"salesTotal"`
	BuyingTotal         decimal.Decimal `json:"buyingTotal"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	RestockingExpense   decimal.Decimal `json:"restockingExpense"`
	RegularExpenses     decimal.Decimal `json:"regularExpenses"`
	MpesaSales          decimal.Decimal `json:"mpesaSales"`
	MpesaCreditPayments decimal.Decimal `json:"mpesaCreditPayments"`
	CreditIssued        decimal.Decimal `json:"creditIssued"`
	CreditPayments      decimal.Decimal `json:"creditPayments"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	CashSales           decimal.Decimal `json:"cashSales"`
	CashCreditPayments  decimal.Decimal `json:"cashCreditPayments"`
	CashIn              decimal.Decimal `json:"cashIn"`
	CashOut             decimal.Decimal `json:"cashOut"`
	CashAtHand          decimal.Decimal `json:"cashAtHand"`
	Days                int             `json:"days"`
}

// Summarize sums days. Daily figures are additive, so summarizing the
// concatenation of two reports equals adding their summaries.
func Summarize(days []DaySummary) Totals {
	var t Totals
	for _, d := range days {
		t.SalesTotal = t.SalesTotal.Add(d.SalesTotal)
		t.BuyingTotal = t.BuyingTotal.Add(d.BuyingTotal)
		t.GrossProfit = t.GrossProfit.Add(d.GrossProfit)
		t.RestockingExpense = t.RestockingExpense.Add(d.RestockingExpense)
		t.RegularExpenses = t.RegularExpenses.Add(d.RegularExpenses)
		t.MpesaSales = t.MpesaSales.Add(d.MpesaSales)
		t.MpesaCreditPayments = t.MpesaCreditPayments.Add(d.MpesaCreditPayments)
		t.CreditIssued = t.CreditIssued.Add(d.CreditIssued)
		t.CreditPayments = t.CreditPayments.Add(d.CreditPayments)
		t.NetProfit = t.NetProfit.Add(d.NetProfit)
		t.CashSales = t.CashSales.Add(d.CashSales)
		t.CashCreditPayments = t.CashCreditPayments.Add(d.CashCreditPayments)
	}
	t.Days = len(days)
	t.CashIn = t.SalesTotal.Add(t.CreditPayments)
	t.CashOut = t.RestockingExpense.
		Add(t.RegularExpenses).
		Add(t.MpesaSales).
		Add(t.CreditIssued).
		Add(t.MpesaCreditPayments)
	t.CashAtHand = t.CashIn.Sub(t.CashOut)
	return t
}
