package main

import (
	"os"

	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	"github.com/unclebandit/crmleopard-backend/internal/config"
	"github.com/unclebandit/crmleopard-backend/internal/db"
	"github.com/unclebandit/crmleopard-backend/internal/logger"
	"github.com/unclebandit/crmleopard-backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	logger.Init(cfg.LogLevel)

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = goose.Up(conn, ".")
	case "down":
		err = goose.Down(conn, ".")
	case "status":
		err = goose.Status(conn, ".")
	default:
		log.Fatalf("unknown command %q (want up, down or status)", command)
	}
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	log.Info("migrations ", command, " complete")
}
