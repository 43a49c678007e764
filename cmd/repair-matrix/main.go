package main

import (
	"flag"
	"log"

	"printshop_app_go/config"
	"printshop_app_go/db"
	"printshop_app_go/models"
	"printshop_app_go/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report missing and orphaned combinations without fixing them")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		Environment: cfg.Environment,
		RemoteURL:   cfg.TursoDatabaseURL,
		AuthToken:   cfg.TursoAuthToken,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	matrix := services.NewMatrixService(db.DB)
	defaultPrice, err := services.ParseDefaultPrice(cfg.DefaultCombinationPrice)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_COMBINATION_PRICE: %v", err)
	}
	matrix.DefaultPrice = defaultPrice

	log.Println("Checking combination matrix...")
	report, err := matrix.Verify()
	if err != nil {
		log.Fatalf("Failed to verify matrix: %v", err)
	}
	log.Printf("Expected %d combinations, found %d (%d missing, %d orphaned)",
		report.Expected, report.Present, report.Missing, report.Orphaned)

	if report.Complete() {
		log.Println("Matrix is complete. Nothing to do.")
		return
	}
	if *dryRun {
		log.Println("Dry run, no changes made.")
		return
	}

	report, err = matrix.Repair()
	if err != nil {
		log.Fatalf("Failed to repair matrix: %v", err)
	}

	log.Println("\n=== Repair Summary ===")
	log.Printf("Added: %d", report.Added)
	log.Printf("Removed: %d", report.Removed)
	log.Printf("Missing after repair: %d", report.Missing)
}
