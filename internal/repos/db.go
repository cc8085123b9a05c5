package repos

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	dialectSQLite   = "sqlite"
	dialectMySQL    = "mysql"
	dialectPostgres = "pgx"
)

// OpenDB picks the driver from the DSN: mysql://… and postgres://… go to
// those servers, anything else is a sqlite file (or :memory:).
func OpenDB(dsn string) (*sqlx.DB, error) {
	driver, conn, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, conn)
	if err != nil {
		return nil, err
	}
	if driver == dialectSQLite {
		// every :memory: connection is its own database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("[db] opened %s store", driver)
	return db, nil
}

func driverFor(dsn string) (driver, conn string, err error) {
	switch {
	case strings.HasPrefix(dsn, "mysql://"):
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
		if err != nil {
			return "", "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		return dialectMySQL, cfg.FormatDSN(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return dialectPostgres, dsn, nil
	default:
		return dialectSQLite, dsn, nil
	}
}

func ensureSchema(db *sqlx.DB) error {
	body := "TEXT"
	if db.DriverName() == dialectMySQL {
		body = "LONGTEXT"
	}
	// one row per collection; the body is the collection's JSON array
	schema := `
CREATE TABLE IF NOT EXISTS collections(
  name VARCHAR(64) NOT NULL PRIMARY KEY,
  body ` + body + ` NOT NULL,
  updated_at VARCHAR(40)
)`
	_, err := db.Exec(schema)
	return err
}
