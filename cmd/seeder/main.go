package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/unclebandit/crmleopard-backend/internal/config"
	"github.com/unclebandit/crmleopard-backend/internal/db"
	"github.com/unclebandit/crmleopard-backend/internal/logger"
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

	seedFiles := []string{
		"seed/fields.sql",
		"seed/customers.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := conn.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
