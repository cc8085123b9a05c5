package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Columns is the header row shared by the CSV and XLSX exports.
var Columns = []string{
	"Date", "Total Sales", "Buying Price", "Gross Profit", "Restocking",
	"Regular Expenses", "Net Profit", "Mpesa Sales", "Credit Issued",
	"Credit Payments", "Mpesa Credit Payments", "Cash at Hand",
}

func figures(d DaySummary) []decimal.Decimal {
	return []decimal.Decimal{
		d.SalesTotal, d.BuyingTotal, d.GrossProfit, d.RestockingExpense,
		d.RegularExpenses, d.NetProfit, d.MpesaSales, d.CreditIssued,
		d.CreditPayments, d.MpesaCreditPayments, d.CashAtHand,
	}
}

func totalFigures(t Totals) []decimal.Decimal {
	return []decimal.Decimal{
		t.SalesTotal, t.BuyingTotal, t.GrossProfit, t.RestockingExpense,
		t.RegularExpenses, t.NetProfit, t.MpesaSales, t.CreditIssued,
		t.CreditPayments, t.MpesaCreditPayments, t.CashAtHand,
	}
}

// WriteCSV writes one row per day and a closing TOTAL row.
func WriteCSV(w io.Writer, days []DaySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	row := func(label string, vals []decimal.Decimal) error {
		rec := make([]string, 0, len(vals)+1)
		rec = append(rec, label)
		for _, v := range vals {
			rec = append(rec, v.StringFixed(2))
		}
		return cw.Write(rec)
	}
	for _, d := range days {
		if err := row(d.Date.String(), figures(d)); err != nil {
			return err
		}
	}
	if err := row("TOTAL", totalFigures(Summarize(days))); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

const sheet = "Report"

// WriteXLSX writes the same table as WriteCSV into a workbook with numeric
// cells.
func WriteXLSX(w io.Writer, title string, days []DaySummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "canteenbooks"})

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	_ = f.SetCellStyle(sheet, "A1", last, bold)

	put := func(r int, label string, vals []decimal.Decimal) error {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", r), label); err != nil {
			return err
		}
		for i, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(i+2, r)
			if err := f.SetCellValue(sheet, cell, v.InexactFloat64()); err != nil {
				return err
			}
		}
		from, _ := excelize.CoordinatesToCellName(2, r)
		to, _ := excelize.CoordinatesToCellName(len(Columns), r)
		return f.SetCellStyle(sheet, from, to, money)
	}
	r := 2
	for _, d := range days {
		if err := put(r, d.Date.String(), figures(d)); err != nil {
			return err
		}
		r++
	}
	if err := put(r, "TOTAL", totalFigures(Summarize(days))); err != nil {
		return err
	}
	totalRow := fmt.Sprintf("A%d", r)
	end, _ := excelize.CoordinatesToCellName(len(Columns), r)
	_ = f.SetCellStyle(sheet, totalRow, end, bold)
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "L", 16)

	return f.Write(w)
}
