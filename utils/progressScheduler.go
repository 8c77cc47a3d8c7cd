package utils

import (
	"log"

	"kaifacademy/database"
	"kaifacademy/services"

	"github.com/robfig/cron/v3"
)

// InitializeProgressScheduler recounts every enrollment's progress nightly so that lessons added
// or removed after a student finished a course are reflected in the percentage.
func InitializeProgressScheduler() *cron.Cron {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 3 AM server time
	if _, err := c.AddFunc("0 3 * * *", ReconcileProgress); err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error registering job: %v", err)
		return nil
	}

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress scheduler started - runs daily at 3 AM")
	return c
}

func ReconcileProgress() {
	log.Println("[PROGRESS-SCHEDULER] Recomputing course progress...")
	updated, err := services.RecomputeAllProgress(database.Database.Db)
	if err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error recomputing progress: %v", err)
		ReportError(err, map[string]interface{}{"job": "progress-reconcile"})
		return
	}
	log.Printf("[PROGRESS-SCHEDULER] Done, %d enrollments changed", updated)
}
