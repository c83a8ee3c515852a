// seed/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/guessworks/hangbot_api/seed/seeders"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		dbPath = flag.String("db", "", "SQLite database path (overrides DB_DATABASE env var)")
		help   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	var dialector gorm.Dialector
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" && *dbPath == "" {
		dialector = postgres.Open(dsn)
		log.Println("Connecting to postgres")
	} else {
		databasePath := *dbPath
		if databasePath == "" {
			databasePath = os.Getenv("DB_DATABASE")
			if databasePath == "" {
				databasePath = "hangbot.db"
			}
		}
		dialector = sqlite.Open(databasePath)
		log.Printf("Connecting to sqlite database: %s", databasePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	catalogSeeder := seeders.NewCatalogSeeder(db)
	if err := catalogSeeder.SeedCatalog(); err != nil {
		log.Fatalf("Catalog seeding failed: %v", err)
	}

	log.Println("Seeding completed successfully!")
}

func showHelp() {
	log.Println("Usage: seed [options]")
	log.Println("  -db <path>   SQLite database path (overrides DB_DATABASE)")
	log.Println("  -help        Show this message")
	log.Println("")
	log.Println("Set POSTGRES_DSN to seed a postgres database instead.")
}
