package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"canteenbooks/internal/domain"
)

// Collection names match the keys older backups were written under.
type Collection string

const (
	Products      Collection = "products"
	Sales         Collection = "sales"
	Credits       Collection = "credits"
	MpesaPayments Collection = "mpesaPayments"
	DailyExpenses Collection = "dailyExpenses"
	ExpenseTypes  Collection = "expenseTypes"
)

var AllCollections = []Collection{Products, Sales, Credits, MpesaPayments, DailyExpenses, ExpenseTypes}

// Write is one collection's new contents, ready to be committed.
type Write struct {
	Name Collection
	body []byte
	err  error
}

func Put(name Collection, v any) Write {
	b, err := json.Marshal(v)
	if err != nil {
		err = fmt.Errorf("encode %s: %w", name, err)
	}
	return Write{Name: name, body: b, err: err}
}

// Store keeps each collection as one JSON document. Callers that read,
// change and write back must hold WithLock for the whole sequence.
type Store struct {
	db  *sqlx.DB
	mu  sync.Mutex
	now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) WithLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Raw returns a collection's stored JSON, or nil when it was never written.
func (s *Store) Raw(name Collection) ([]byte, error) {
	var body string
	err := s.db.Get(&body, s.db.Rebind(`SELECT body FROM collections WHERE name=?`), string(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return []byte(body), nil
}

func load[T any](s *Store, name Collection) ([]T, error) {
	raw, err := s.Raw(name)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *Store) Products() ([]domain.Product, error)  { return load[domain.Product](s, Products) }
func (s *Store) Sales() ([]domain.Sale, error)        { return load[domain.Sale](s, Sales) }
func (s *Store) Credits() ([]domain.Credit, error)    { return load[domain.Credit](s, Credits) }
func (s *Store) Expenses() ([]domain.DailyExpense, error) {
	return load[domain.DailyExpense](s, DailyExpenses)
}
func (s *Store) ExpenseTypes() ([]domain.ExpenseType, error) {
	return load[domain.ExpenseType](s, ExpenseTypes)
}
func (s *Store) MpesaPayments() ([]domain.MpesaPayment, error) {
	return load[domain.MpesaPayment](s, MpesaPayments)
}

// Snapshot reads every collection.
func (s *Store) Snapshot() (domain.Snapshot, error) {
	var (
		snap domain.Snapshot
		err  error
	)
	if snap.Products, err = s.Products(); err != nil {
		return snap, err
	}
	if snap.Sales, err = s.Sales(); err != nil {
		return snap, err
	}
	if snap.Credits, err = s.Credits(); err != nil {
		return snap, err
	}
	if snap.MpesaPayments, err = s.MpesaPayments(); err != nil {
		return snap, err
	}
	if snap.DailyExpenses, err = s.Expenses(); err != nil {
		return snap, err
	}
	if snap.ExpenseTypes, err = s.ExpenseTypes(); err != nil {
		return snap, err
	}
	return snap, nil
}

// Save commits every write in one transaction; either all collections
// change or none do.
func (s *Store) Save(writes ...Write) error {
	for _, w := range writes {
		if w.err != nil {
			return w.err
		}
	}
	if len(writes) == 0 {
		return nil
	}
	q := s.db.Rebind(upsertSQL(s.db.DriverName()))
	stamp := s.now().UTC().Format(time.RFC3339)

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, w := range writes {
		if _, err := tx.Exec(q, string(w.Name), string(w.body), stamp); err != nil {
			return fmt.Errorf("save %s: %w", w.Name, err)
		}
	}
	return tx.Commit()
}

func upsertSQL(driver string) string {
	if driver == dialectMySQL {
		return `INSERT INTO collections(name, body, updated_at) VALUES(?,?,?)
ON DUPLICATE KEY UPDATE body=VALUES(body), updated_at=VALUES(updated_at)`
	}
	return `INSERT INTO collections(name, body, updated_at) VALUES(?,?,?)
ON CONFLICT(name) DO UPDATE SET body=excluded.body, updated_at=excluded.updated_at`
}
