package services

import (
	"slices"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/ledger"
	"canteenbooks/internal/repos"
)

type CreditService struct {
	Book
}

func NewCreditService(b Book) *CreditService {
	return &CreditService{Book: b}
}

// Issue opens a credit for a registered product, dated by the working clock.
func (s *CreditService) Issue(buyerName, productID string, amount decimal.Decimal) (domain.Credit, error) {
	var out domain.Credit
	err := s.Store.WithLock(func() error {
		products, err := s.Store.Products()
		if err != nil {
			return err
		}
		i := findProduct(products, productID)
		if i < 0 {
			return domain.NotFound("product", productID)
		}
		c, err := ledger.Issue(buyerName, products[i], amount, s.Clock.Stamp())
		if err != nil {
			return err
		}
		c.ID = domain.ID(newID("C"))
		credits, err := s.Store.Credits()
		if err != nil {
			return err
		}
		out = c
		return s.Store.Save(repos.Put(repos.Credits, append(credits, c)))
	})
	return out, err
}

// AddPayment records a payment against a credit at the clock's stamp.
func (s *CreditService) AddPayment(id string, amount decimal.Decimal) (domain.Credit, error) {
	return s.update(id, func(c domain.Credit) (domain.Credit, error) {
		return ledger.AddPayment(c, amount, s.Clock.Stamp())
	})
}

// Edit changes the amount owed, within the edit window.
func (s *CreditService) Edit(id string, amount decimal.Decimal) (domain.Credit, error) {
	return s.update(id, func(c domain.Credit) (domain.Credit, error) {
		return ledger.Amend(c, amount, s.Clock.Now())
	})
}

func (s *CreditService) Delete(id string) error {
	return s.Store.WithLock(func() error {
		credits, i, err := s.locate(id)
		if err != nil {
			return err
		}
		if err := ledger.CheckDelete(credits[i], s.Clock.Now()); err != nil {
			return err
		}
		return s.Store.Save(repos.Put(repos.Credits, slices.Delete(credits, i, i+1)))
	})
}

func (s *CreditService) Get(id string) (domain.Credit, error) {
	credits, i, err := s.locate(id)
	if err != nil {
		return domain.Credit{}, err
	}
	return credits[i], nil
}

type CreditList struct {
	Credits []domain.Credit `json:"credits"`
	Totals  ledger.Totals   `json:"totals"`
}

// Filter lists credits matching search within [from, to] with their totals.
// Zero bounds are open.
func (s *CreditService) Filter(search string, from, to dates.Day) (CreditList, error) {
	credits, err := s.Store.Credits()
	if err != nil {
		return CreditList{}, err
	}
	out := ledger.Filter(credits, search, from, to, s.loc())
	return CreditList{Credits: out, Totals: ledger.Total(out)}, nil
}

// Totals sums the whole ledger.
func (s *CreditService) Totals() (ledger.Totals, error) {
	credits, err := s.Store.Credits()
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.Total(credits), nil
}

func (s *CreditService) update(id string, fn func(domain.Credit) (domain.Credit, error)) (domain.Credit, error) {
	var out domain.Credit
	err := s.Store.WithLock(func() error {
		credits, i, err := s.locate(id)
		if err != nil {
			return err
		}
		c, err := fn(credits[i])
		if err != nil {
			return err
		}
		credits[i] = c
		out = c
		return s.Store.Save(repos.Put(repos.Credits, credits))
	})
	return out, err
}

func (s *CreditService) locate(id string) ([]domain.Credit, int, error) {
	credits, err := s.Store.Credits()
	if err != nil {
		return nil, -1, err
	}
	i := slices.IndexFunc(credits, func(c domain.Credit) bool { return string(c.ID) == id })
	if i < 0 {
		return nil, -1, domain.NotFound("credit", id)
	}
	return credits, i, nil
}
