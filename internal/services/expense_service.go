package services

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/report"
	"canteenbooks/internal/repos"
	"canteenbooks/internal/validate"
)

type ExpenseService struct {
	Book
	Classifier report.Classifier
}

func NewExpenseService(b Book, c report.Classifier) *ExpenseService {
	return &ExpenseService{Book: b, Classifier: c}
}

// RegisterType adds an expense type. The registry is append-only.
func (s *ExpenseService) RegisterType(typeID, label string) (domain.ExpenseType, error) {
	id, ok := validate.TypeID(typeID)
	if !ok {
		return domain.ExpenseType{}, domain.Invalid("typeId", "please enter a valid id (max 30 chars)")
	}
	lbl, ok := validate.Label(label)
	if !ok {
		return domain.ExpenseType{}, domain.Invalid("label", "please enter a valid label (max 100 chars)")
	}
	out := domain.ExpenseType{TypeID: id, Label: lbl}
	err := s.Store.WithLock(func() error {
		types, err := s.Store.ExpenseTypes()
		if err != nil {
			return err
		}
		if slices.ContainsFunc(types, func(t domain.ExpenseType) bool { return t.TypeID == id }) {
			return domain.Invalid("typeId", "expense type "+id+" already exists")
		}
		return s.Store.Save(repos.Put(repos.ExpenseTypes, append(types, out)))
	})
	return out, err
}

func (s *ExpenseService) Types() ([]domain.ExpenseType, error) {
	return s.Store.ExpenseTypes()
}

type ExpenseInput struct {
	ExpenseTypeID string          `json:"expenseTypeId" validate:"required,max=30"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note" validate:"max=200"`
}

// Add books an expense on the working day. The type must be registered or
// be one of the restocking markers.
func (s *ExpenseService) Add(in ExpenseInput) (domain.DailyExpense, error) {
	id, ok := validate.TypeID(in.ExpenseTypeID)
	if !ok {
		return domain.DailyExpense{}, domain.Invalid("expenseTypeId", "select an expense type")
	}
	if !in.Amount.IsPositive() {
		return domain.DailyExpense{}, domain.Invalid("amount", "amount must be a positive number")
	}
	out := domain.DailyExpense{
		ID:            domain.ID(newID("E")),
		Date:          s.today().String(),
		ExpenseTypeID: id,
		Amount:        in.Amount.Round(2),
		Note:          domain.Sanitize(in.Note),
	}
	err := s.Store.WithLock(func() error {
		types, err := s.Store.ExpenseTypes()
		if err != nil {
			return err
		}
		known := slices.ContainsFunc(types, func(t domain.ExpenseType) bool { return t.TypeID == id })
		if !known && !s.Classifier.IsMarker(id) {
			return domain.NotFound("expense type", id)
		}
		expenses, err := s.Store.Expenses()
		if err != nil {
			return err
		}
		return s.Store.Save(repos.Put(repos.DailyExpenses, append(expenses, out)))
	})
	return out, err
}

type ExpenseLine struct {
	domain.DailyExpense
	Label        string `json:"label"`
	IsRestocking bool   `json:"isRestocking"`
}

type ExpenseList struct {
	Expenses []ExpenseLine   `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

func (s *ExpenseService) ForDay(day dates.Day) (ExpenseList, error) {
	return s.between(day, day)
}

// History lists a month's expenses with their total.
func (s *ExpenseService) History(year int, month time.Month) (ExpenseList, error) {
	if month < time.January || month > time.December {
		return ExpenseList{}, domain.Invalid("month", "month must be 1-12")
	}
	days := dates.MonthDays(year, month)
	return s.between(days[0], days[len(days)-1])
}

func (s *ExpenseService) between(from, to dates.Day) (ExpenseList, error) {
	expenses, err := s.Store.Expenses()
	if err != nil {
		return ExpenseList{}, err
	}
	types, err := s.Store.ExpenseTypes()
	if err != nil {
		return ExpenseList{}, err
	}
	labels := make(map[string]string, len(types))
	for _, t := range types {
		labels[t.TypeID] = t.Label
	}
	l := ExpenseList{Expenses: []ExpenseLine{}}
	for _, e := range expenses {
		d, ok := dates.Normalize(e.Date, s.loc())
		if !ok || d.Before(from) || d.After(to) {
			continue
		}
		label, ok := labels[e.ExpenseTypeID]
		if !ok {
			label = e.ExpenseTypeID
		}
		l.Expenses = append(l.Expenses, ExpenseLine{
			DailyExpense: e,
			Label:        label,
			IsRestocking: s.Classifier.Classify(e).IsRestocking,
		})
		l.Total = l.Total.Add(e.Amount)
	}
	return l, nil
}
