package main

import (
	"os"

	"mitr-be/internal/config"
	"mitr-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultOptions(false))
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding notification types...")
	failed := SeedNotificationTypes(db)

	color.Cyan("Seeding reviews...")
	failed += SeedReviews(db)

	if failed > 0 {
		color.Red("Seeding finished with %d error(s)", failed)
		os.Exit(1)
	}
	color.Green("Seeding completed.")
}
