package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/repos"
)

// newID returns a time-ordered id with a one-letter kind prefix.
func newID(prefix string) string {
	return prefix + uuid.Must(uuid.NewV7()).String()
}

func findProduct(products []domain.Product, id string) int {
	id = strings.ToUpper(strings.TrimSpace(id))
	for i := range products {
		if strings.EqualFold(products[i].ProductID, id) {
			return i
		}
	}
	return -1
}

// soldProducts is the set of product ids referenced by at least one sale.
func soldProducts(sales []domain.Sale) map[string]bool {
	out := make(map[string]bool, len(sales))
	for _, s := range sales {
		out[strings.ToUpper(s.ProductID)] = true
	}
	return out
}

// Book bundles what every service needs: the store, the clock that dates
// new records, and the week layout used by "this week" views.
type Book struct {
	Store     *repos.Store
	Clock     clock.Clock
	WeekStart time.Weekday
}

func (b Book) loc() *time.Location { return b.Clock.Location() }

func (b Book) today() dates.Day { return b.Clock.Today() }

// Period names accepted by list filters.
const (
	PeriodAll       = "all"
	PeriodToday     = "today"
	PeriodThisWeek  = "thisWeek"
	PeriodThisMonth = "thisMonth"
	PeriodCustom    = "custom"
)

// bounds turns a period into an inclusive [from, to] day range. Zero
// bounds are open.
func (b Book) bounds(period string, from, to dates.Day) (dates.Day, dates.Day, error) {
	today := b.today()
	switch period {
	case "", PeriodAll:
		return dates.Day{}, dates.Day{}, nil
	case PeriodToday:
		return today, today, nil
	case PeriodThisWeek:
		w := dates.WeekOf(today, b.WeekStart, 0)
		return w[0], w[6], nil
	case PeriodThisMonth:
		return dates.Day{Year: today.Year, Month: today.Month, Day: 1},
			dates.Day{Year: today.Year, Month: today.Month, Day: dates.DaysIn(today.Year, today.Month)}, nil
	case PeriodCustom:
		if from.IsZero() || to.IsZero() {
			return dates.Day{}, dates.Day{}, domain.Invalid("from", "custom period needs both from and to")
		}
		if from.After(to) {
			return dates.Day{}, dates.Day{}, domain.Invalid("from", "from is after to")
		}
		return from, to, nil
	default:
		return dates.Day{}, dates.Day{}, domain.Invalid("period", "unknown period "+period)
	}
}
