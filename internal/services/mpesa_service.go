package services

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/ledger"
	"canteenbooks/internal/repos"
	"canteenbooks/internal/validate"
)

type MpesaService struct {
	Book
}

func NewMpesaService(b Book) *MpesaService {
	return &MpesaService{Book: b}
}

type MpesaInput struct {
	Name   string          `json:"name" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type" validate:"required,oneof=Sale 'Credit Payment'"`
}

func (in MpesaInput) clean() (MpesaInput, error) {
	var ok bool
	if in.Name, ok = validate.Name(in.Name); !ok {
		return in, domain.Invalid("name", "enter a client name of at most 100 characters")
	}
	if !in.Amount.IsPositive() {
		return in, domain.Invalid("amount", "amount must be a positive number")
	}
	in.Amount = in.Amount.Round(2)
	if in.Type != domain.MpesaSale && in.Type != domain.MpesaCreditPayment {
		return in, domain.Invalid("type", "type must be Sale or Credit Payment")
	}
	return in, nil
}

func (s *MpesaService) Record(in MpesaInput) (domain.MpesaPayment, error) {
	in, err := in.clean()
	if err != nil {
		return domain.MpesaPayment{}, err
	}
	out := domain.MpesaPayment{
		ID:              domain.ID(newID("M")),
		Name:            in.Name,
		Amount:          in.Amount,
		Type:            in.Type,
		IsCreditPayment: in.Type == domain.MpesaCreditPayment,
		Date:            s.today().String(),
	}
	err = s.Store.WithLock(func() error {
		payments, err := s.Store.MpesaPayments()
		if err != nil {
			return err
		}
		return s.Store.Save(repos.Put(repos.MpesaPayments, append(payments, out)))
	})
	return out, err
}

// Edit rewrites a payment made within the last 24 hours.
func (s *MpesaService) Edit(id string, in MpesaInput) (domain.MpesaPayment, error) {
	in, err := in.clean()
	if err != nil {
		return domain.MpesaPayment{}, err
	}
	var out domain.MpesaPayment
	err = s.Store.WithLock(func() error {
		payments, i, err := s.locate(id, "edit mpesa payment")
		if err != nil {
			return err
		}
		p := payments[i]
		p.Name = in.Name
		p.Amount = in.Amount
		p.Type = in.Type
		p.IsCreditPayment = in.Type == domain.MpesaCreditPayment
		payments[i] = p
		out = p
		return s.Store.Save(repos.Put(repos.MpesaPayments, payments))
	})
	return out, err
}

func (s *MpesaService) Delete(id string) error {
	return s.Store.WithLock(func() error {
		payments, i, err := s.locate(id, "delete mpesa payment")
		if err != nil {
			return err
		}
		return s.Store.Save(repos.Put(repos.MpesaPayments, slices.Delete(payments, i, i+1)))
	})
}

type MpesaList struct {
	Payments []domain.MpesaPayment `json:"payments"`
	Total    decimal.Decimal       `json:"total"`
}

// Filter lists payments whose client name contains search, within [from, to].
func (s *MpesaService) Filter(search string, from, to dates.Day) (MpesaList, error) {
	payments, err := s.Store.MpesaPayments()
	if err != nil {
		return MpesaList{}, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	l := MpesaList{Payments: make([]domain.MpesaPayment, 0, len(payments))}
	for _, p := range payments {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if !ledger.InRange(p.Date, from, to, s.loc()) {
			continue
		}
		l.Payments = append(l.Payments, p)
		l.Total = l.Total.Add(p.Amount)
	}
	return l, nil
}

// Clients lists distinct client names, for autocomplete.
func (s *MpesaService) Clients() ([]string, error) {
	payments, err := s.Store.MpesaPayments()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range payments {
		name := strings.TrimSpace(p.Name)
		if name != "" && !seen[strings.ToLower(name)] {
			seen[strings.ToLower(name)] = true
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, nil
}

// locate finds a payment that is still inside the edit window.
func (s *MpesaService) locate(id, action string) ([]domain.MpesaPayment, int, error) {
	payments, err := s.Store.MpesaPayments()
	if err != nil {
		return nil, -1, err
	}
	i := slices.IndexFunc(payments, func(p domain.MpesaPayment) bool { return string(p.ID) == id })
	if i < 0 {
		return nil, -1, domain.NotFound("mpesa payment", id)
	}
	if !ledger.WithinWindow(payments[i].Date, s.Clock.Now()) {
		return nil, -1, domain.Denied(action, "mpesa payments can only be changed within 24 hours")
	}
	return payments, i, nil
}
