// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"log"

	"printshop_app_go/services"

	"github.com/robfig/cron/v3"
)

// DefaultMatrixSchedule runs the matrix check every night at 03:00
const DefaultMatrixSchedule = "0 3 * * *"

// StartScheduler schedules the matrix check and starts the cron runner.
// The caller stops it with Stop on shutdown.
func StartScheduler(matrix *services.MatrixService, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultMatrixSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		log.Println("[CRON] Running combination matrix check...")
		CheckMatrix(matrix)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (matrix check: %s)", schedule)
	return c, nil
}

// CheckMatrix verifies the combination matrix and repairs it when it drifted
func CheckMatrix(matrix *services.MatrixService) services.MatrixReport {
	report, err := matrix.Verify()
	if err != nil {
		log.Printf("[JOB] Error verifying matrix: %v", err)
		return report
	}
	if report.Complete() {
		log.Printf("[JOB] Matrix complete: %d combinations", report.Present)
		return report
	}

	log.Printf("[JOB] Matrix drifted: %d missing, %d orphaned", report.Missing, report.Orphaned)
	repaired, err := matrix.Repair()
	if err != nil {
		log.Printf("[JOB] Error repairing matrix: %v", err)
		return report
	}
	return repaired
}
