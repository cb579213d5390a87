package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"tea-registry/internal/config"
	"tea-registry/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <migration_file.sql>", os.Args[0])
	}

	sqlContent, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Connected to database: %s\n\n", cfg.Database.Database)

	statements := strings.Split(string(sqlContent), ";")
	executed := 0
	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		fmt.Printf("Executing statement %d/%d...\n", i+1, len(statements))
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to execute statement %d: %v", i+1, err)
		}
		executed++
	}

	fmt.Printf("\nDone: %d statements executed.\n", executed)
}
