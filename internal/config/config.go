package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"canteenbooks/internal/dates"
)

type Config struct {
	Port     string
	DBDSN    string
	LogFile  string
	LogLevel string

	// TZName is the IANA zone used to decide which calendar day a
	// timestamp falls on.
	TZName    string
	Location  *time.Location
	WeekStart time.Weekday

	// RestockingTypes lists expense type ids counted as inventory spending.
	RestockingTypes []string

	// OperatorPINHash is a bcrypt hash; when set, backup import and working
	// date changes require the matching X-Operator-PIN header.
	OperatorPINHash string
}

func Load() Config {
	// .env is optional; real env vars win
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	port := env("PORT", "8081")
	dsn := env("DB_DSN", "canteenbooks.db") // sqlite file in project root
	logFile := env("LOG_FILE", "./canteenbooks.log")
	level := env("LOG_LEVEL", "info")

	tz := env("TZ_NAME", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("[config] unknown TZ_NAME %q, using Local: %v", tz, err)
		tz, loc = "Local", time.Local
	}

	ws, ok := dates.ParseWeekday(env("WEEK_START", "sunday"))
	if !ok {
		log.Printf("[config] unknown WEEK_START %q, using sunday", os.Getenv("WEEK_START"))
		ws = time.Sunday
	}

	var restock []string
	for _, id := range strings.Split(os.Getenv("RESTOCKING_TYPES"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			restock = append(restock, id)
		}
	}

	cfg := Config{
		Port:            port,
		DBDSN:           dsn,
		LogFile:         logFile,
		LogLevel:        level,
		TZName:          tz,
		Location:        loc,
		WeekStart:       ws,
		RestockingTypes: restock,
		OperatorPINHash: os.Getenv("OPERATOR_PIN_HASH"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s TZ=%s WEEK_START=%s RESTOCKING_TYPES=%v PIN=%t",
		cfg.Port, redact(cfg.DBDSN), cfg.LogFile, cfg.LogLevel, cfg.TZName, cfg.WeekStart, cfg.RestockingTypes, cfg.OperatorPINHash != "")
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// redact hides the password part of a network DSN.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	head := dsn[:at]
	if i := strings.LastIndex(head, ":"); i >= 0 && !strings.HasPrefix(head[i:], "://") {
		return head[:i+1] + "***" + dsn[at:]
	}
	return dsn
}
