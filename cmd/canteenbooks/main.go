package main

import (
	"io"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"canteenbooks/internal/clock"
	"canteenbooks/internal/config"
	"canteenbooks/internal/http/handlers"
	applog "canteenbooks/internal/log"
	"canteenbooks/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			log.SetOutput(out)
		}
	}
	applog.Setup(out, cfg.LogLevel)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	clk := clock.NewWorking(cfg.Location)
	deps := handlers.NewDeps(db, cfg, clk)
	app := handlers.NewApp(deps, handlers.AppOptions{
		Middleware: []fiber.Handler{logger.New(logger.Config{Output: out})},
	})

	log.Printf("[http] listening on :%s (working date %s)", cfg.Port, clk.Today())
	log.Fatal(app.Listen(":" + cfg.Port))
}
