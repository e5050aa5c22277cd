package main

import (
	"log"
	"os"

	"fieldops-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully")

	if len(os.Args) > 1 && os.Args[1] == "--seed" {
		if err := database.SeedDemo(db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Demo data seeded")
	}
}
