package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/staffrevenue/revenue-manager/internal/config"
	"github.com/staffrevenue/revenue-manager/internal/database"
)

func main() {
	var dbPathFlag string
	var yes bool
	flag.StringVar(&dbPathFlag, "database-path", "", "SQLite database file (overrides DATABASE_PATH)")
	flag.BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbPath := dbPathFlag
	if dbPath == "" {
		dbPath = os.Getenv("DATABASE_PATH")
	}
	if dbPath == "" {
		log.Fatal("DATABASE_PATH is not set and -database-path was not provided")
	}

	if !yes {
		fmt.Printf("This deletes all staff, entries, shifts, expenses and gift cards in %s.\n", dbPath)
		fmt.Print("Type 'yes' to continue: ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	// Build minimal database config without loading full app config
	store, err := database.Open(config.DatabaseConfig{Path: dbPath, BusyTimeoutMS: 5000})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	fmt.Println("Connected to database. Clearing ledger tables...")
	removed, err := database.ClearLedger(ctx, store)
	if err != nil {
		log.Fatalf("failed to clear data: %v", err)
	}
	for _, table := range database.LedgerTables {
		fmt.Printf("  %s: %d rows deleted\n", table, removed[table])
	}

	fmt.Println("All ledger data cleared (settings kept, ids reset).")

	counts, err := database.CountRows(ctx, store)
	if err != nil {
		log.Fatalf("failed to verify: %v", err)
	}
	fmt.Println("Post-clear row counts:")
	for _, table := range database.LedgerTables {
		fmt.Printf("  %s: %d\n", table, counts[table])
	}
}
