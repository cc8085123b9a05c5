package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"canteenbooks/internal/domain"
	"canteenbooks/internal/repos"
)

type BackupService struct {
	Store *repos.Store
}

func NewBackupService(store *repos.Store) *BackupService {
	return &BackupService{Store: store}
}

func (s *BackupService) Export() (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.Store.WithLock(func() (err error) {
		snap, err = s.Store.Snapshot()
		return err
	})
	return snap, err
}

// ExportJSON renders the snapshot the way backup files are written.
func (s *BackupService) ExportJSON() ([]byte, error) {
	snap, err := s.Export()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ImportResult lists which collections an import replaced.
type ImportResult struct {
	Replaced []repos.Collection `json:"replaced"`
	Counts   map[string]int     `json:"counts"`
}

// Import replaces every collection present in raw. products and sales
// must be there; the rest are optional and left alone when absent. Nothing
// is written unless the whole file decodes.
func (s *BackupService) Import(raw []byte) (ImportResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportResult{}, domain.Invalid("backup", "file is not valid JSON")
	}
	for _, required := range []repos.Collection{repos.Products, repos.Sales} {
		if !present(doc, required) {
			return ImportResult{}, domain.Invalid("backup", "invalid file format, missing "+string(required))
		}
	}

	res := ImportResult{Counts: map[string]int{}}
	var writes []repos.Write
	add := func(name repos.Collection, n int, v any) {
		writes = append(writes, repos.Put(name, v))
		res.Replaced = append(res.Replaced, name)
		res.Counts[string(name)] = n
	}

	var products []domain.Product
	if err := decode(doc, repos.Products, &products); err != nil {
		return ImportResult{}, err
	}
	for i, p := range products {
		if p.ProductID == "" {
			return ImportResult{}, domain.Invalid("backup", fmt.Sprintf("products[%d] has no productId", i))
		}
		if p.PriceHistory == nil {
			products[i].PriceHistory = []domain.PriceChange{}
		}
	}
	add(repos.Products, len(products), products)

	var sales []domain.Sale
	if err := decode(doc, repos.Sales, &sales); err != nil {
		return ImportResult{}, err
	}
	add(repos.Sales, len(sales), sales)

	if present(doc, repos.Credits) {
		var credits []domain.Credit
		if err := decode(doc, repos.Credits, &credits); err != nil {
			return ImportResult{}, err
		}
		for i, c := range credits {
			if c.PaidAmount.IsNegative() || c.PaidAmount.GreaterThan(c.Amount) {
				return ImportResult{}, domain.Invalid("backup", fmt.Sprintf("credits[%d] paid more than owed", i))
			}
			if c.Payments == nil {
				credits[i].Payments = []domain.Payment{}
			}
		}
		add(repos.Credits, len(credits), credits)
	}
	if present(doc, repos.MpesaPayments) {
		var mp []domain.MpesaPayment
		if err := decode(doc, repos.MpesaPayments, &mp); err != nil {
			return ImportResult{}, err
		}
		add(repos.MpesaPayments, len(mp), mp)
	}
	if present(doc, repos.DailyExpenses) {
		var ex []domain.DailyExpense
		if err := decode(doc, repos.DailyExpenses, &ex); err != nil {
			return ImportResult{}, err
		}
		add(repos.DailyExpenses, len(ex), ex)
	}
	if present(doc, repos.ExpenseTypes) {
		var et []domain.ExpenseType
		if err := decode(doc, repos.ExpenseTypes, &et); err != nil {
			return ImportResult{}, err
		}
		add(repos.ExpenseTypes, len(et), et)
	}

	err := s.Store.WithLock(func() error { return s.Store.Save(writes...) })
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

func present(doc map[string]json.RawMessage, name repos.Collection) bool {
	raw, ok := doc[string(name)]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decode[T any](doc map[string]json.RawMessage, name repos.Collection, out *[]T) error {
	if err := json.Unmarshal(doc[string(name)], out); err != nil {
		return domain.Invalid("backup", fmt.Sprintf("%s: %v", name, err))
	}
	if *out == nil {
		*out = []T{}
	}
	return nil
}
