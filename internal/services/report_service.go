package services

import (
	"strconv"
	"time"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/report"
)

// MaxRangeDays bounds ad-hoc range reports.
const MaxRangeDays = 366

type ReportService struct {
	Book
	Agg report.Aggregator
}

func NewReportService(b Book, agg report.Aggregator) *ReportService {
	return &ReportService{Book: b, Agg: agg}
}

// Report is a run of daily summaries with their roll-up.
type Report struct {
	Title   string              `json:"title"`
	From    dates.Day           `json:"from"`
	To      dates.Day           `json:"to"`
	Days    []report.DaySummary `json:"days"`
	Summary report.Totals       `json:"summary"`
}

func (s *ReportService) sources() (report.Sources, error) {
	snap, err := s.Store.Snapshot()
	if err != nil {
		return report.Sources{}, err
	}
	return report.Sources{
		Sales:         snap.Sales,
		Expenses:      snap.DailyExpenses,
		Credits:       snap.Credits,
		MpesaPayments: snap.MpesaPayments,
	}, nil
}

func (s *ReportService) build(title string, days []dates.Day) (Report, error) {
	src, err := s.sources()
	if err != nil {
		return Report{}, err
	}
	out := s.Agg.Aggregate(days, src)
	r := Report{Title: title, Days: out, Summary: report.Summarize(out)}
	if len(days) > 0 {
		r.From, r.To = days[0], days[len(days)-1]
	}
	return r, nil
}

func (s *ReportService) Day(d dates.Day) (Report, error) {
	return s.build("Daily report "+d.String(), []dates.Day{d})
}

// Week reports the week weeksAgo weeks before the current one.
func (s *ReportService) Week(weeksAgo int) (Report, error) {
	if weeksAgo < 0 {
		return Report{}, domain.Invalid("weeksAgo", "must be zero or more")
	}
	days := dates.WeekOf(s.today(), s.WeekStart, weeksAgo)
	return s.build("Weekly report "+days[0].String()+" to "+days[6].String(), days)
}

func (s *ReportService) Month(year int, month time.Month) (Report, error) {
	if month < time.January || month > time.December {
		return Report{}, domain.Invalid("month", "month must be 1-12")
	}
	if year < 1970 || year > 9999 {
		return Report{}, domain.Invalid("year", "year out of range")
	}
	return s.build("Monthly report "+month.String()+" "+strconv.Itoa(year), dates.MonthDays(year, month))
}

func (s *ReportService) Range(from, to dates.Day) (Report, error) {
	if from.IsZero() || to.IsZero() {
		return Report{}, domain.Invalid("from", "both from and to are required")
	}
	if to.Year-from.Year > 1 {
		return Report{}, domain.Invalid("to", "range is limited to 366 days")
	}
	days := dates.Between(from, to)
	if len(days) == 0 {
		return Report{}, domain.Invalid("from", "from is after to")
	}
	if len(days) > MaxRangeDays {
		return Report{}, domain.Invalid("to", "range is limited to 366 days")
	}
	return s.build("Report "+from.String()+" to "+to.String(), days)
}

// ThisMonth covers the first of the working month through the working day.
func (s *ReportService) ThisMonth() (Report, error) {
	today := s.today()
	first := dates.Day{Year: today.Year, Month: today.Month, Day: 1}
	return s.build("This month", dates.Between(first, today))
}

// ThisYear concatenates the monthly aggregates from January 1 through
// the working day.
func (s *ReportService) ThisYear() (Report, error) {
	today := s.today()
	src, err := s.sources()
	if err != nil {
		return Report{}, err
	}
	all := []report.DaySummary{}
	for m := time.January; m <= today.Month; m++ {
		days := dates.MonthDays(today.Year, m)
		if m == today.Month {
			days = days[:today.Day]
		}
		all = append(all, s.Agg.Aggregate(days, src)...)
	}
	return Report{
		Title:   "This year " + strconv.Itoa(today.Year),
		From:    dates.Day{Year: today.Year, Month: time.January, Day: 1},
		To:      today,
		Days:    all,
		Summary: report.Summarize(all),
	}, nil
}
